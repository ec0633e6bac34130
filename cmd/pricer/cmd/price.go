package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/instrument"
	"github.com/meenmo/ratecore/leg"
	"github.com/meenmo/ratecore/manager"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/rateindex"
	"github.com/meenmo/ratecore/schedule"
)

var (
	scheduleName  string
	dayCountName  string
	indexName     string
	maturityTenor string
	fixedRatePct  float64
	floatSpreadBP float64
	flatRatePct   float64
	notional      float64
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Run a demonstration fixed-vs-floating swap pricing against the configuration",
	RunE:  runPrice,
}

func init() {
	priceCmd.Flags().StringVar(&scheduleName, "schedule", "", "named schedule entry to generate periods from (required)")
	priceCmd.Flags().StringVar(&dayCountName, "day-count", "", "named day-count entry to accrue with (required)")
	priceCmd.Flags().StringVar(&indexName, "index", "", "named interest-rate-index entry for the floating leg (optional; fixed-vs-fixed if omitted)")
	priceCmd.Flags().StringVar(&maturityTenor, "maturity", "5Y", "swap maturity tenor")
	priceCmd.Flags().Float64Var(&fixedRatePct, "fixed-rate", 0, "fixed leg rate, in percent")
	priceCmd.Flags().Float64Var(&floatSpreadBP, "float-spread-bp", 0, "floating leg spread, in basis points")
	priceCmd.Flags().Float64Var(&flatRatePct, "flat-rate", 0, "flat continuously-compounded discount/projection rate, in percent, for the demonstration curve")
	priceCmd.Flags().Float64Var(&notional, "notional", 10_000_000, "instrument nominal")
	priceCmd.MarkFlagRequired("schedule")
	priceCmd.MarkFlagRequired("day-count")
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	reg, err := manager.LoadConfig(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}

	scheduleSpec, err := reg.Schedules.Get(scheduleName)
	if err != nil {
		return err
	}
	dayCounter, err := reg.DayCounts.Get(dayCountName)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	maturity, err := period.Parse(maturityTenor)
	if err != nil {
		return fmt.Errorf("parsing --maturity: %w", err)
	}

	fixingCal, err := reg.Calendars.Get(scheduleSpec.FixingCalendar)
	if err != nil {
		fixingCal = scheduleSpec.Generator.Calendar
	}
	paymentCal, err := reg.Calendars.Get(scheduleSpec.PaymentCalendar)
	if err != nil {
		paymentCal = scheduleSpec.Generator.Calendar
	}

	sched, err := schedule.Generate(scheduleSpec.Generator, horizon, maturity, fixingCal, paymentCal)
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	forwardCurve, err := flatCurve(horizon, dayCounter, sched.Periods[len(sched.Periods)-1].PaymentDate, flatRatePct/100)
	if err != nil {
		return fmt.Errorf("building demonstration curve: %w", err)
	}

	generic := leg.GenericLegCharacters{
		Compounding: compounding.Simple{},
		DayCounter:  dayCounter,
		Schedule:    sched,
	}

	fixedLeg, err := leg.NewFixedRateLegCharacters(generic, fixedRatePct/100)
	if err != nil {
		return fmt.Errorf("building fixed leg: %w", err)
	}

	var floatLeg instrument.LegCharacters
	if indexName != "" {
		idx, err := reg.Indices.Get(indexName)
		if err != nil {
			return err
		}
		calculator, err := calculatorFor(idx, sched)
		if err != nil {
			return err
		}
		fl, err := leg.NewFloatingRateLegCharacters(generic, 1, floatSpreadBP*1e-4, calculator)
		if err != nil {
			return fmt.Errorf("building floating leg: %w", err)
		}
		floatLeg = fl
	} else {
		floatLeg = fixedLeg
	}

	inst := instrument.NewSimpleInstrument(instrument.Buy, notional, fixedLeg, floatLeg,
		instrument.SettlementMarket{Currency: "USD", SettlementDate: horizon}, nil)

	cond := pricing.Condition{Horizon: horizon, IncludeHorizonFlow: true, EstimateHorizonIndex: true}

	payFlows, err := inst.ProjectedPayFlows(forwardCurve, cond)
	if err != nil {
		return fmt.Errorf("projecting pay flows: %w", err)
	}
	receiveFlows, err := inst.ProjectedReceiveFlows(forwardCurve, cond)
	if err != nil {
		return fmt.Errorf("projecting receive flows: %w", err)
	}
	net := payFlows.Combine(receiveFlows)

	npv, err := instrument.ValueCashFlows(net, forwardCurve, "USD", horizon)
	if err != nil {
		return fmt.Errorf("discounting NPV: %w", err)
	}

	log.Info().
		Int("periods", len(sched.Periods)).
		Str("maturity_date", sched.Periods[len(sched.Periods)-1].PaymentDate.Format("2006-01-02")).
		Float64("npv", npv.Amount).
		Msg("demonstration pricing complete")

	fmt.Printf("NPV (%s, settle %s): %.2f\n", npv.Currency, npv.SettlementDate.Format("2006-01-02"), npv.Amount)
	return nil
}

// flatCurve builds a two-pillar curve with a constant continuously
// compounded zero rate out to horizonEnd, the smallest demonstration
// curve that exercises curve.NewPiecewisePolynomialCurve without
// requiring bootstrap/calibration machinery.
func flatCurve(reference time.Time, dc daycount.DayCounter, horizonEnd time.Time, rate float64) (curve.Curve, error) {
	far := horizonEnd.AddDate(1, 0, 0)
	tau, err := dc.YearFraction(reference, far)
	if err != nil {
		return nil, err
	}
	dates := []time.Time{reference, far}
	dfs := []float64{1, compounding.Continuous{}.FutureValue(-rate, tau)}
	return curve.NewPiecewisePolynomialCurve(reference, dc, dates, dfs, curve.Linear)
}

func calculatorFor(idx rateindex.Index, sched *schedule.Schedule) (leg.FixingRateCalculator, error) {
	switch v := idx.(type) {
	case *rateindex.TermRateIndex:
		return &leg.TermRateCalculator{Index: v, Schedule: sched, Convention: leg.Straight}, nil
	case *rateindex.CompoundingRateIndex:
		return &leg.CompoundingRateIndexCalculator{Index: v, Schedule: sched}, nil
	default:
		return nil, fmt.Errorf("price: unsupported index type %T", idx)
	}
}
