package rateindex

import (
	"sync/atomic"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/schedule"
)

// FixingConvention selects which accrual date's overnight rate an
// observation date maps to.
type FixingConvention int

const (
	// Advance observes the accrual date's own overnight rate.
	Advance FixingConvention = iota
	// Arrear observes the next accrual date's overnight rate (or
	// period.End at the tail).
	Arrear
)

// MissingFixingHandler selects the behavior when a required past daily
// fixing is absent.
type MissingFixingHandler int

const (
	// MissingFixingNull fails immediately (ErrMissingFixing) rather
	// than substituting a value.
	MissingFixingNull MissingFixingHandler = iota
	// MissingFixingPreviousFixing substitutes the nearest earlier
	// recorded fixing; if none exists, it also fails with
	// ErrMissingFixing rather than defaulting to zero.
	MissingFixingPreviousFixing
)

// CompoundingRateIndex is a SOFR-style daily-compounded overnight
// index, generalizing the OIS chained-accrual loop of
// generateScheduleForward's `isOIS` branch (chaining from
// prevAdjustedEnd) into a full lookback/lockout/fixing-convention
// telescoping product.
type CompoundingRateIndex struct {
	TenorValue      period.Period
	StartLagValue   int
	CalendarValue   calendar.HolidayCalendar
	AdjusterValue   calendar.BusinessDayAdjuster
	DayCounterValue daycount.DayCounter
	RefCurveName    string

	LookbackDays   int
	LockoutDays    int
	Fixing         FixingConvention
	MissingFixing  MissingFixingHandler
	ResultCompound compounding.Convention

	// DailyFixings maps an accrual date (UTC midnight) to its observed
	// overnight rate.
	DailyFixings map[time.Time]float64

	// useArbitrageFree is the runtime projection-mode toggle. It uses
	// relaxed atomic semantics deliberately: a reader mid-projection
	// may observe either the previous or the new mode during a
	// concurrent toggle — callers that need a stable mode for one
	// pricing call must not concurrently toggle it themselves.
	useArbitrageFree atomic.Bool
}

// NewCompoundingRateIndex finishes constructing a CompoundingRateIndex
// built via struct literal (with its exported fields set, before any
// use), defaulting useArbitrageFree to on iff ArbitrageFreeApplicable().
// Taking a pointer rather than a value avoids copying the embedded
// atomic.Bool.
func NewCompoundingRateIndex(i *CompoundingRateIndex) *CompoundingRateIndex {
	i.useArbitrageFree.Store(i.ArbitrageFreeApplicable())
	return i
}

// ArbitrageFreeApplicable reports whether the telescoping identity
// holds for this index's parameters: lookback_days == 0 AND
// fixing_convention == Advance AND lockout_days == 0.
func (i *CompoundingRateIndex) ArbitrageFreeApplicable() bool {
	return i.LookbackDays == 0 && i.LockoutDays == 0 && i.Fixing == Advance
}

// SetUseArbitrageFree requests the arbitrage-free closed-form
// shortcut for subsequent ProjectedRateForPeriod calls; it is forced
// to false when ArbitrageFreeApplicable() is false. Returns the
// effective mode after the call, not merely the request.
func (i *CompoundingRateIndex) SetUseArbitrageFree(enable bool) bool {
	effective := enable && i.ArbitrageFreeApplicable()
	i.useArbitrageFree.Store(effective)
	return effective
}

// UseArbitrageFree reports the current projection mode.
func (i *CompoundingRateIndex) UseArbitrageFree() bool {
	return i.useArbitrageFree.Load()
}

func (i *CompoundingRateIndex) Tenor() period.Period                  { return i.TenorValue }
func (i *CompoundingRateIndex) StartLag() int                         { return i.StartLagValue }
func (i *CompoundingRateIndex) Calendar() calendar.HolidayCalendar     { return i.CalendarValue }
func (i *CompoundingRateIndex) Adjuster() calendar.BusinessDayAdjuster { return i.AdjusterValue }
func (i *CompoundingRateIndex) DayCounter() daycount.DayCounter        { return i.DayCounterValue }
func (i *CompoundingRateIndex) ReferenceCurveName() string             { return i.RefCurveName }

func (i *CompoundingRateIndex) RelativeDatesForPeriod(p schedule.CalculationPeriod) []time.Time {
	if i.UseArbitrageFree() {
		return []time.Time{p.Start, p.End}
	}
	dates := i.accrualDates(p)
	fixingDates := make([]time.Time, 0, len(dates))
	for idx := range dates {
		fixingDates = append(fixingDates, i.fixingDateFor(dates, idx))
	}
	return fixingDates
}

// accrualDates enumerates every business day in [p.Start, p.End)
// (plus the terminal p.End as the final "next accrual" anchor).
func (i *CompoundingRateIndex) accrualDates(p schedule.CalculationPeriod) []time.Time {
	var dates []time.Time
	d := p.Start
	for d.Before(p.End) {
		if i.CalendarValue.IsBusinessDay(d) {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	dates = append(dates, p.End)
	return dates
}

// fixingDateFor implements the lockout -> fixing-convention ->
// lookback pipeline for accrual date index idx among the n real
// accrual dates in dates[:n], where n = len(dates)-1 and dates[n] ==
// p.End; callers also pass idx == n for the terminal p.End anchor.
func (i *CompoundingRateIndex) fixingDateFor(dates []time.Time, idx int) time.Time {
	n := len(dates) - 1 // number of real accrual dates
	effIdx := idx
	if i.LockoutDays > 0 && idx >= n-i.LockoutDays {
		capIdx := n - i.LockoutDays - 1
		if capIdx < 0 {
			capIdx = 0
		}
		if idx < capIdx {
			effIdx = idx
		} else {
			effIdx = capIdx
		}
	}

	var observed time.Time
	switch i.Fixing {
	case Advance:
		observed = dates[effIdx]
	case Arrear:
		observed = dates[effIdx+1]
	}

	return calendar.ShiftNBusinessDay(i.CalendarValue, observed, -i.LookbackDays)
}

func (i *CompoundingRateIndex) ProjectedRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve) (float64, error) {
	tau, err := i.DayCounterValue.YearFraction(p.Start, p.End)
	if err != nil {
		return 0, err
	}

	if i.UseArbitrageFree() {
		dfStart, err := forwardCurve.Discount(p.Start)
		if err != nil {
			return 0, err
		}
		dfEnd, err := forwardCurve.Discount(p.End)
		if err != nil {
			return 0, err
		}
		return i.ResultCompound.ImpliedRate(dfStart/dfEnd, tau), nil
	}

	factor, err := i.compoundFactor(p, forwardCurve, nil)
	if err != nil {
		return 0, err
	}
	return i.ResultCompound.ImpliedRate(factor, tau), nil
}

// compoundFactor evaluates the telescoping product day by day. cond,
// when non-nil, splits accrual dates into past (read from
// i.DailyFixings) and projected (read from forwardCurve).
func (i *CompoundingRateIndex) compoundFactor(p schedule.CalculationPeriod, forwardCurve curve.Curve, cond *pricing.Condition) (float64, error) {
	dates := i.accrualDates(p)
	n := len(dates) - 1

	factor := 1.0
	for idx := 0; idx < n; idx++ {
		ti, tNext := dates[idx], dates[idx+1]
		delta, err := i.DayCounterValue.YearFraction(ti, tNext)
		if err != nil {
			return 0, err
		}

		var r float64
		if cond != nil && cond.IsPast(ti) {
			r, err = i.dailyFixing(ti)
			if err != nil {
				return 0, err
			}
		} else {
			fi := i.fixingDateFor(dates, idx)
			fNext := i.fixingDateFor(dates, idx+1)
			dfI, err := forwardCurve.Discount(fi)
			if err != nil {
				return 0, err
			}
			dfNext, err := forwardCurve.Discount(fNext)
			if err != nil {
				return 0, err
			}
			r = (dfI/dfNext - 1) / delta
		}
		factor *= 1 + r*delta
	}
	return factor, nil
}

// dailyFixing looks up i.DailyFixings[t], applying MissingFixing's
// substitution rule when absent.
func (i *CompoundingRateIndex) dailyFixing(t time.Time) (float64, error) {
	if r, ok := i.DailyFixings[t]; ok {
		return r, nil
	}
	if i.MissingFixing == MissingFixingPreviousFixing {
		var prev time.Time
		rate, found := 0.0, false
		for d, r := range i.DailyFixings {
			if d.Before(t) && (!found || d.After(prev)) {
				prev, rate, found = d, r, true
			}
		}
		if found {
			return rate, nil
		}
	}
	return 0, ErrMissingFixing
}

// FixingRateForPeriod mixes past (DailyFixings) and projected
// (forwardCurve) accrual days according to cond.
func (i *CompoundingRateIndex) FixingRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	tau, err := i.DayCounterValue.YearFraction(p.Start, p.End)
	if err != nil {
		return 0, err
	}
	factor, err := i.compoundFactor(p, forwardCurve, &cond)
	if err != nil {
		return 0, err
	}
	return i.ResultCompound.ImpliedRate(factor, tau), nil
}
