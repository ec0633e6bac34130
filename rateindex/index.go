// Package rateindex implements interest-rate index projection and
// fixing: TermRateIndex (LIBOR-style, stub-rate conventions), and
// CompoundingRateIndex (SOFR-style, lookback/lockout/fixing-convention
// telescoping), generalizing forwardRate (swap/common.go) and its
// inline OIS chained-accrual loop (generateScheduleForward's isOIS
// branch) into a full projected/fixing-rate contract.
package rateindex

import (
	"errors"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/schedule"
)

// ErrMissingFixing is returned when a past fixing is required but
// absent and the index's missing-fixing handler is Null (fails rather
// than substituting zero).
var ErrMissingFixing = errors.New("rateindex: missing past fixing")

// Index is the common contract every rate-index variant implements.
type Index interface {
	Tenor() period.Period
	StartLag() int
	Calendar() calendar.HolidayCalendar
	Adjuster() calendar.BusinessDayAdjuster
	DayCounter() daycount.DayCounter
	ReferenceCurveName() string

	// ProjectedRateForPeriod is a pure projection: no past fixings
	// consulted.
	ProjectedRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve) (float64, error)

	// RelativeDatesForPeriod returns every discount-factor date needed
	// to evaluate ProjectedRateForPeriod, so a caller can warm up a
	// precomputed discount curve before projecting.
	RelativeDatesForPeriod(p schedule.CalculationPeriod) []time.Time

	// FixingRateForPeriod mixes past fixings and projection according
	// to cond.
	FixingRateForPeriod(p schedule.CalculationPeriod, forwardCurve curve.Curve, cond pricing.Condition) (float64, error)
}

// PeriodForFixingDate derives the regular accrual period implied by a
// fixing date under an index's start lag, tenor, and calendars: the
// default `fixing_date -> period` mapping, whose start is the fixing
// date shifted back by startLag business days.
func PeriodForFixingDate(cal calendar.HolidayCalendar, adj calendar.BusinessDayAdjuster, startLag int, tenor period.Period, fixingDate time.Time) schedule.CalculationPeriod {
	start := calendar.ShiftNBusinessDay(cal, fixingDate, -startLag)
	end := adj.FromTenorToDate(cal, start, tenor)
	return schedule.CalculationPeriod{Start: start, End: end, RegularStart: start, RegularEnd: end}
}
