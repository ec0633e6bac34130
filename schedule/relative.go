package schedule

import (
	"time"

	"github.com/meenmo/ratecore/calendar"
)

// RelativeDateGenerator derives fixing or payment dates from a
// Schedule's CalculationPeriod sequence, generalizing the fixing-date
// derivation inlined in generateScheduleForward
// (`calendar.AddBusinessDays(leg.Calendar, accrualStart, -leg.FixingLagDays)`)
// and swap/basis/schedule.go's buildSchedule reset-date logic into two
// reusable shapes.
type RelativeDateGenerator interface {
	// Dates returns one derived date per period in periods, in order.
	Dates(cal calendar.HolidayCalendar, adjuster calendar.BusinessDayAdjuster, periods []CalculationPeriod) []time.Time
}

// Anchor selects which end of a CalculationPeriod a ShiftDays
// generator aligns to before shifting.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorEnd
)

// ShiftDays aligns to Start or End of each period; if Days != 0, shifts
// by that many business days in the supplied calendar; otherwise just
// applies the adjuster to the anchor date.
type ShiftDays struct {
	Anchor Anchor
	Days   int
}

func (g ShiftDays) Dates(cal calendar.HolidayCalendar, adjuster calendar.BusinessDayAdjuster, periods []CalculationPeriod) []time.Time {
	out := make([]time.Time, len(periods))
	for i, p := range periods {
		anchor := p.Start
		if g.Anchor == AnchorEnd {
			anchor = p.End
		}
		if g.Days != 0 {
			out[i] = calendar.ShiftNBusinessDay(cal, anchor, g.Days)
		} else {
			out[i] = adjuster.Adjust(cal, anchor)
		}
	}
	return out
}

// FrequencyRatio produces one base date per group of EveryNPeriod
// consecutive calculation periods, broadcasting the same derived date
// to every period in its group — used, for example, when one payment
// date covers several accrual periods. Direction controls whether
// groups are counted from the front (Forward) or the back (Backward)
// of the period list, matching the schedule's own generation direction.
type FrequencyRatio struct {
	EveryNPeriod int
	Direction    Direction
	Base         ShiftDays
}

func (g FrequencyRatio) Dates(cal calendar.HolidayCalendar, adjuster calendar.BusinessDayAdjuster, periods []CalculationPeriod) []time.Time {
	n := g.EveryNPeriod
	if n <= 0 {
		n = 1
	}
	out := make([]time.Time, len(periods))

	switch g.Direction {
	case Forward:
		for groupStart := 0; groupStart < len(periods); groupStart += n {
			groupEnd := groupStart + n
			if groupEnd > len(periods) {
				groupEnd = len(periods)
			}
			group := periods[groupStart:groupEnd]
			baseDate := g.Base.Dates(cal, adjuster, []CalculationPeriod{group[len(group)-1]})[0]
			for i := groupStart; i < groupEnd; i++ {
				out[i] = baseDate
			}
		}
	case Backward:
		for groupEnd := len(periods); groupEnd > 0; groupEnd -= n {
			groupStart := groupEnd - n
			if groupStart < 0 {
				groupStart = 0
			}
			group := periods[groupStart:groupEnd]
			baseDate := g.Base.Dates(cal, adjuster, []CalculationPeriod{group[0]})[0]
			for i := groupStart; i < groupEnd; i++ {
				out[i] = baseDate
			}
		}
	}
	return out
}
