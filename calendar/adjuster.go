package calendar

import (
	"time"

	"github.com/meenmo/ratecore/period"
)

// Convention is a business-day adjustment rule for rolling a
// non-business date onto a business date.
type Convention int

const (
	Unadjusted Convention = iota
	Following
	Preceding
	ModifiedFollowing
	ModifiedPreceding
	HalfMonthModifiedFollowing
	Nearest
)

func (c Convention) String() string {
	switch c {
	case Unadjusted:
		return "Unadjusted"
	case Following:
		return "Following"
	case Preceding:
		return "Preceding"
	case ModifiedFollowing:
		return "ModifiedFollowing"
	case ModifiedPreceding:
		return "ModifiedPreceding"
	case HalfMonthModifiedFollowing:
		return "HalfMonthModifiedFollowing"
	case Nearest:
		return "Nearest"
	default:
		return "?"
	}
}

// BusinessDayAdjuster pairs a Convention with an EOM flag: when EOM is
// set, FromTenorToDate preserves month-end alignment across tenor
// arithmetic (see FromTenorToDate).
type BusinessDayAdjuster struct {
	Convention Convention
	EOM        bool
}

// Adjust rolls d onto a business day under cal according to the
// adjuster's Convention. It is a no-op on business days for every
// convention including Unadjusted.
func (a BusinessDayAdjuster) Adjust(cal HolidayCalendar, d time.Time) time.Time {
	if a.Convention == Unadjusted || cal.IsBusinessDay(d) {
		return d
	}

	switch a.Convention {
	case Following:
		return NextBusinessDay(cal, d)

	case Preceding:
		return PreviousBusinessDay(cal, d)

	case ModifiedFollowing:
		eom := LastBusinessDayOfMonth(cal, d)
		next := NextBusinessDay(cal, d)
		if next.Month() != d.Month() || next.Year() != d.Year() {
			return eom
		}
		return next

	case ModifiedPreceding:
		som := FirstBusinessDayOfMonth(cal, d)
		prev := PreviousBusinessDay(cal, d)
		if prev.Month() != d.Month() || prev.Year() != d.Year() {
			return som
		}
		return prev

	case HalfMonthModifiedFollowing:
		next := NextBusinessDay(cal, d)
		crossesMonth := next.Month() != d.Month() || next.Year() != d.Year()
		crosses15 := d.Day() <= 15 && next.Day() > 15
		if crossesMonth || crosses15 {
			return PreviousBusinessDay(cal, d)
		}
		return next

	case Nearest:
		next := NextBusinessDay(cal, d)
		prev := PreviousBusinessDay(cal, d)
		nextDist := next.Sub(d)
		prevDist := d.Sub(prev)
		if nextDist < prevDist {
			return next
		}
		// Ties, and prevDist < nextDist, both go to previous.
		return prev

	default:
		return d
	}
}

// FromTenorToDate adds tenor to horizon and adjusts the result with the
// adjuster's Convention. If EOM is set and horizon is itself the
// month-end business day, the result is instead the month-end business
// day of the month tenor lands in, regardless of the adjuster's
// Convention — this is what keeps a month-end-anchored schedule pinned
// to month ends across every generated date.
func (a BusinessDayAdjuster) FromTenorToDate(cal HolidayCalendar, horizon time.Time, tenor period.Period) time.Time {
	if a.EOM && horizon.Equal(LastBusinessDayOfMonth(cal, horizon)) {
		return LastBusinessDayOfMonth(cal, tenor.AddTo(horizon))
	}
	return a.Adjust(cal, tenor.AddTo(horizon))
}
