package daycount

import "time"

// Actual counts calendar days between d1 and d2.
type Actual struct{}

func (Actual) Days(d1, d2 time.Time) float64 {
	return d2.Sub(d1).Hours() / 24
}

// NoLeap counts calendar days minus every Feb-29 strictly inside
// (d1, d2].
type NoLeap struct{}

func (NoLeap) Days(d1, d2 time.Time) float64 {
	days := d2.Sub(d1).Hours() / 24
	leapDays := 0
	for y := d1.Year(); y <= d2.Year(); y++ {
		feb29 := time.Date(y, time.February, 29, 0, 0, 0, 0, time.UTC)
		if feb29.Month() != time.February {
			continue // not a leap year
		}
		if feb29.After(d1) && !feb29.After(d2) {
			leapDays++
		}
	}
	return days - float64(leapDays)
}

// One is the constant numerator used by day counters that measure in
// whole periods rather than days (e.g. a per-coupon "1 count" index).
type One struct{}

func (One) Days(time.Time, time.Time) float64 { return 1 }

// ThirtyAdjustment decides, for a single endpoint, whether it is mapped
// to day 30 (ToThirty) and whether a day-30/31 endpoint on the last day
// of February additionally rolls to the first of the next month
// (ToNextMonthFirst) — the two axes that distinguish 30/360 US,
// 30E/360, and 30E/360 ISDA from one another.
type ThirtyAdjustment struct {
	// ToThirty reports whether d should be treated as day 30. isStart
	// tells which endpoint d is; for the end endpoint, startWasThirty
	// reports whether the start date is day 30 after its own
	// adjustment (the US 30/360 end-date rule depends on it).
	ToThirty func(d time.Time, startWasThirty bool, isStart bool) bool
	// ToNextMonthFirst reports whether d, already in (year, month, day)
	// form, must roll to the first of the following month instead of
	// day 30 (the ISDA 30E/360 February-end special case).
	ToNextMonthFirst func(d time.Time) bool
}

// Thirty30 implements the "Thirty family" numerator: both endpoints are
// normalized through a configured ThirtyAdjustment, then
// 360*Δyears + 30*Δmonths + Δdays.
type Thirty30 struct {
	Adjustment ThirtyAdjustment
}

func (t Thirty30) Days(d1, d2 time.Time) float64 {
	y1, m1, day1 := d1.Date()
	y2, m2, day2 := d2.Date()

	startThirty := t.Adjustment.ToThirty(d1, false, true)
	if startThirty {
		day1 = 30
	}
	if t.Adjustment.ToNextMonthFirst != nil && t.Adjustment.ToNextMonthFirst(d1) {
		y1, m1, day1 = rollToNextMonthFirst(y1, m1)
	}

	endThirty := t.Adjustment.ToThirty(d2, day1 == 30, false)
	if endThirty {
		day2 = 30
	}
	if t.Adjustment.ToNextMonthFirst != nil && t.Adjustment.ToNextMonthFirst(d2) {
		y2, m2, day2 = rollToNextMonthFirst(y2, m2)
	}

	return float64(360*(y2-y1) + 30*(int(m2)-int(m1)) + (day2 - day1))
}

func rollToNextMonthFirst(y int, m time.Month) (int, time.Month, int) {
	if m == time.December {
		return y + 1, time.January, 1
	}
	return y, m + 1, 1
}

// isLastDayOfMonth reports whether d is the last calendar day of its
// month.
func isLastDayOfMonth(d time.Time) bool {
	next := d.AddDate(0, 0, 1)
	return next.Day() == 1
}

// ThirtyE360 is the "30E/360" convention: an endpoint falling on the
// 31st rolls to day 30, with no dependency between the two endpoints;
// an endpoint on the last day of February is not rolled.
var ThirtyE360 = ThirtyAdjustment{
	ToThirty: func(d time.Time, _ bool, _ bool) bool {
		return d.Day() == 31
	},
}

// Thirty360US is the "30/360 (US / Bond Basis)" convention: the end
// date rolls to day 30 if it falls on the 31st AND the start date was
// itself day 30 or 31 (after its own adjustment); a start date that is
// the last day of February also rolls to day 30. An end date on the
// last day of February is not rolled.
var Thirty360US = ThirtyAdjustment{
	ToThirty: func(d time.Time, startWasThirty bool, isStart bool) bool {
		if isStart {
			return d.Day() == 31 || isLastDayOfMonth(d) && d.Month() == time.February
		}
		return d.Day() == 31 && startWasThirty
	},
}
