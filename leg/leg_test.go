package leg

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/schedule"
)

func noHolidayCalendar() calendar.HolidayCalendar {
	return calendar.NewRuleBasedCalendar(nil, nil, nil, nil)
}

func act360() daycount.DayCounter {
	return daycount.DayCounter{Numerator: daycount.Actual{}, Denominator: daycount.Const{D: 360}}
}

func quarterlySchedule(t *testing.T) *schedule.Schedule {
	cal := noHolidayCalendar()
	gen := schedule.Generator{
		Frequency:        period.Period{Count: 3, Unit: period.Months},
		FreqAdjuster:     calendar.BusinessDayAdjuster{Convention: calendar.Unadjusted},
		MaturityAdjuster: calendar.BusinessDayAdjuster{Convention: calendar.Unadjusted},
		Mode:             schedule.Normal,
		Direction:        schedule.Forward,
		StubConvention:   schedule.Extend,
		Calendar:         cal,
	}
	sched, err := schedule.Generate(gen, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), period.Period{Count: 1, Unit: period.Years}, cal, cal)
	if err != nil {
		t.Fatalf("schedule.Generate: %v", err)
	}
	for i := range sched.Periods {
		sched.Periods[i].PaymentDate = sched.Periods[i].Period.End
	}
	return sched
}

func TestFixedRateLegCharactersPrecomputesFlows(t *testing.T) {
	t.Parallel()
	sched := quarterlySchedule(t)
	generic := GenericLegCharacters{Compounding: compounding.Simple{}, DayCounter: act360(), Schedule: sched}
	leg, err := NewFixedRateLegCharacters(generic, 0.05)
	if err != nil {
		t.Fatalf("NewFixedRateLegCharacters: %v", err)
	}

	for i := range sched.Periods {
		flow, err := leg.EvaluateFlow(i, nil, pricing.Condition{})
		if err != nil {
			t.Fatalf("EvaluateFlow(%d): %v", i, err)
		}
		tau, _ := generic.DayCounter.YearFraction(sched.Periods[i].Period.Start, sched.Periods[i].Period.End)
		want := compounding.Simple{}.FutureValue(0.05, tau) - 1
		if math.Abs(flow-want) > 1e-12 {
			t.Fatalf("flow %d = %v, want %v", i, flow, want)
		}
	}
}

func TestFixedRateLegCharactersMaturity(t *testing.T) {
	t.Parallel()
	sched := quarterlySchedule(t)
	generic := GenericLegCharacters{Compounding: compounding.Simple{}, DayCounter: act360(), Schedule: sched}
	leg, err := NewFixedRateLegCharacters(generic, 0.03)
	if err != nil {
		t.Fatalf("NewFixedRateLegCharacters: %v", err)
	}
	if !leg.Maturity().Equal(sched.Periods[len(sched.Periods)-1].PaymentDate) {
		t.Fatalf("Maturity must equal the last period's payment date")
	}
	if leg.PeriodCount() != len(sched.Periods) {
		t.Fatalf("PeriodCount() = %d, want %d", leg.PeriodCount(), len(sched.Periods))
	}
}

// fixedFixingCalculator returns a constant rate for every period,
// independent of the forward curve, for testing FloatingRateLegCharacters
// in isolation from the rateindex package.
type fixedFixingCalculator struct {
	rate float64
}

func (f fixedFixingCalculator) Fixing(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	return f.rate, nil
}

func (f fixedFixingCalculator) RelativeDates(i int) []time.Time { return nil }

func TestFloatingRateLegCharactersAppliesLeverageAndSpread(t *testing.T) {
	t.Parallel()
	sched := quarterlySchedule(t)
	generic := GenericLegCharacters{Compounding: compounding.Simple{}, DayCounter: act360(), Schedule: sched}
	calc := fixedFixingCalculator{rate: 0.04}
	leg, err := NewFloatingRateLegCharacters(generic, 2, 0.001, calc)
	if err != nil {
		t.Fatalf("NewFloatingRateLegCharacters: %v", err)
	}

	flow, err := leg.EvaluateFlow(0, nil, pricing.Condition{})
	if err != nil {
		t.Fatalf("EvaluateFlow: %v", err)
	}
	tau, _ := generic.DayCounter.YearFraction(sched.Periods[0].Period.Start, sched.Periods[0].Period.End)
	want := compounding.Simple{}.FutureValue(2*0.04+0.001, tau) - 1
	if math.Abs(flow-want) > 1e-12 {
		t.Fatalf("flow = %v, want %v", flow, want)
	}
}
