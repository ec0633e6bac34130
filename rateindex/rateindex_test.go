package rateindex

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

func businessDayCalendar() calendar.HolidayCalendar {
	return calendar.NewRuleBasedCalendar([]time.Weekday{time.Saturday, time.Sunday}, nil, nil, nil)
}

func act360() daycount.DayCounter {
	return daycount.DayCounter{Numerator: daycount.Actual{}, Denominator: daycount.Const{D: 360}}
}

func flatForwardCurve(t *testing.T, ref time.Time, rate float64, out time.Time) curve.Curve {
	dc := act360()
	tau, err := dc.YearFraction(ref, out)
	if err != nil {
		t.Fatalf("YearFraction: %v", err)
	}
	c, err := curve.NewPiecewisePolynomialCurve(ref, dc, []time.Time{ref, out}, []float64{1, math.Exp(-rate * tau)}, curve.Linear)
	if err != nil {
		t.Fatalf("NewPiecewisePolynomialCurve: %v", err)
	}
	return c
}

func TestTermRateIndexProjectedRateMatchesFlatCurve(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := ref.AddDate(0, 3, 0)
	fc := flatForwardCurve(t, ref, 0.05, end.AddDate(1, 0, 0))

	idx := &TermRateIndex{
		TenorValue:      period.Period{Count: 3, Unit: period.Months},
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
	}
	p := schedule.CalculationPeriod{Start: ref, End: end, RegularStart: ref, RegularEnd: end}
	rate, err := idx.ProjectedRateForPeriod(p, fc)
	if err != nil {
		t.Fatalf("ProjectedRateForPeriod: %v", err)
	}
	if math.Abs(rate-0.05) > 1e-3 {
		t.Fatalf("projected simple rate = %v, want close to 0.05", rate)
	}
}

func TestTermRateIndexFixingUsesPastFixingWhenPast(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := ref.AddDate(0, 3, 0)
	idx := &TermRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		PastFixings:     map[time.Time]float64{ref: 0.042},
	}
	p := schedule.CalculationPeriod{Start: ref, End: end, RegularStart: ref, RegularEnd: end}
	cond := pricing.Condition{Horizon: end}
	rate, err := idx.FixingRateForPeriod(p, nil, cond)
	if err != nil {
		t.Fatalf("FixingRateForPeriod: %v", err)
	}
	if rate != 0.042 {
		t.Fatalf("expected the recorded past fixing 0.042, got %v", rate)
	}
}

func TestTermRateIndexFixingMissingErrors(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := ref.AddDate(0, 3, 0)
	idx := &TermRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		PastFixings:     map[time.Time]float64{},
	}
	p := schedule.CalculationPeriod{Start: ref, End: end, RegularStart: ref, RegularEnd: end}
	cond := pricing.Condition{Horizon: end}
	if _, err := idx.FixingRateForPeriod(p, nil, cond); err != ErrMissingFixing {
		t.Fatalf("expected ErrMissingFixing, got %v", err)
	}
}

func TestCompoundingRateIndexArbitrageFreeApplicability(t *testing.T) {
	t.Parallel()
	idx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
	})
	if !idx.UseArbitrageFree() {
		t.Fatalf("expected arbitrage-free mode to default on when applicable")
	}
	if idx.SetUseArbitrageFree(true) != true {
		t.Fatalf("SetUseArbitrageFree(true) should succeed when applicable")
	}

	lookbackIdx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
		LookbackDays:    2,
	})
	if lookbackIdx.UseArbitrageFree() {
		t.Fatalf("lookback_days > 0 must disable the arbitrage-free default")
	}
	if lookbackIdx.SetUseArbitrageFree(true) {
		t.Fatalf("SetUseArbitrageFree(true) must stay false when not applicable")
	}
}

func TestCompoundingRateIndexArbitrageFreeMatchesTelescoping(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := ref.AddDate(0, 1, 0)
	fc := flatForwardCurve(t, ref, 0.04, end.AddDate(1, 0, 0))

	idx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
	})
	p := schedule.CalculationPeriod{Start: ref, End: end, RegularStart: ref, RegularEnd: end}

	arbitrageFree, err := idx.ProjectedRateForPeriod(p, fc)
	if err != nil {
		t.Fatalf("ProjectedRateForPeriod (arbitrage-free): %v", err)
	}

	idx.SetUseArbitrageFree(false)
	// Applicable in this config (lookback/lockout both zero, Advance),
	// but forcing false switches to the telescoping loop, which should
	// closely match the closed form for a flat curve.
	telescoped, err := idx.ProjectedRateForPeriod(p, fc)
	if err != nil {
		t.Fatalf("ProjectedRateForPeriod (telescoped): %v", err)
	}
	if math.Abs(arbitrageFree-telescoped) > 1e-6 {
		t.Fatalf("arbitrage-free result %v diverges from telescoping result %v", arbitrageFree, telescoped)
	}
}

func TestCompoundingRateIndexFixingRateForPeriodUsesDailyFixings(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) // Tuesday
	end := ref.AddDate(0, 0, 2)                        // Thursday, 2 business days
	idx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
		DailyFixings: map[time.Time]float64{
			ref:                    0.05,
			ref.AddDate(0, 0, 1): 0.051,
		},
	})
	p := schedule.CalculationPeriod{Start: ref, End: end, RegularStart: ref, RegularEnd: end}
	cond := pricing.Condition{Horizon: end}
	rate, err := idx.FixingRateForPeriod(p, nil, cond)
	if err != nil {
		t.Fatalf("FixingRateForPeriod: %v", err)
	}
	if rate <= 0 {
		t.Fatalf("expected a positive compounded rate, got %v", rate)
	}
}

func TestCompoundingRateIndexMissingFixingPreviousFixingFallback(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := ref.AddDate(0, 0, 1)
	idx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
		MissingFixing:   MissingFixingPreviousFixing,
		DailyFixings: map[time.Time]float64{
			ref.AddDate(0, 0, -1): 0.0499,
		},
	})
	rate, err := idx.dailyFixing(ref)
	if err != nil {
		t.Fatalf("dailyFixing: %v", err)
	}
	if rate != 0.0499 {
		t.Fatalf("expected fallback to previous recorded fixing 0.0499, got %v", rate)
	}
}

func TestCompoundingRateIndexMissingFixingNullErrors(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	idx := NewCompoundingRateIndex(&CompoundingRateIndex{
		CalendarValue:   businessDayCalendar(),
		DayCounterValue: act360(),
		ResultCompound:  compounding.Simple{},
		Fixing:          Advance,
		MissingFixing:   MissingFixingNull,
	})
	if _, err := idx.dailyFixing(ref); err != ErrMissingFixing {
		t.Fatalf("expected ErrMissingFixing, got %v", err)
	}
}
