package rateindex

import (
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/schedule"
)

// TermRateIndex is a LIBOR-style index: a single rate fixed once per
// period and held flat over the accrual window, projected as
// compounding.Simple.ImpliedRate(D(start)/D(end), tau), generalizing
// forwardRate (`(dfStart/dfEnd - 1)/alpha`).
type TermRateIndex struct {
	TenorValue       period.Period
	StartLagValue    int
	CalendarValue    calendar.HolidayCalendar
	AdjusterValue    calendar.BusinessDayAdjuster
	DayCounterValue  daycount.DayCounter
	RefCurveName     string
	// PastFixings maps a fixing date (UTC midnight) to its observed
	// rate.
	PastFixings map[time.Time]float64
}

func (i *TermRateIndex) Tenor() period.Period                     { return i.TenorValue }
func (i *TermRateIndex) StartLag() int                            { return i.StartLagValue }
func (i *TermRateIndex) Calendar() calendar.HolidayCalendar        { return i.CalendarValue }
func (i *TermRateIndex) Adjuster() calendar.BusinessDayAdjuster    { return i.AdjusterValue }
func (i *TermRateIndex) DayCounter() daycount.DayCounter           { return i.DayCounterValue }
func (i *TermRateIndex) ReferenceCurveName() string                { return i.RefCurveName }

func (i *TermRateIndex) RelativeDatesForPeriod(p schedule.CalculationPeriod) []time.Time {
	return []time.Time{p.Start, p.End}
}

func (i *TermRateIndex) ProjectedRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve) (float64, error) {
	dfStart, err := forwardCurve.Discount(p.Start)
	if err != nil {
		return 0, err
	}
	dfEnd, err := forwardCurve.Discount(p.End)
	if err != nil {
		return 0, err
	}
	tau, err := i.DayCounterValue.YearFraction(p.Start, p.End)
	if err != nil {
		return 0, err
	}
	return compounding.Simple{}.ImpliedRate(dfStart/dfEnd, tau), nil
}

// FixingRateForPeriod implements the index's own default (Straight)
// stub-rate behavior: look up the past fixing of the period's regular
// start, keyed by its fixing date (RegularStart shifted forward by
// StartLag business days), falling back to projection when the period
// is not yet past. Stub-aware conventions (Interpolation, Proportional) are
// implemented by the leg package's TermRateCalculator, which wraps this
// index and overrides this default for stub periods.
func (i *TermRateIndex) FixingRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	if cond.IsPast(p.Start) {
		fixingDate := calendar.ShiftNBusinessDay(i.CalendarValue, p.RegularStart, i.StartLagValue)
		rate, ok := i.PastFixings[fixingDate]
		if !ok {
			return 0, ErrMissingFixing
		}
		return rate, nil
	}
	return i.ProjectedRateForPeriod(p, forwardCurve)
}
