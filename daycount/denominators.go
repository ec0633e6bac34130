package daycount

import (
	"sort"
	"time"
)

// Const divides the numerator's day count by a fixed divisor (360 for
// ACT/360, 365 for ACT/365F, etc.), generalizing the YearFraction
// switch on "ACT/360"/"ACT/365F" string literals.
type Const struct {
	D float64
}

func (c Const) YearFraction(num Numerator, d1, d2 time.Time) (float64, error) {
	return num.Days(d1, d2) / c.D, nil
}

// ISDAActualActual splits [d1, d2) at every year boundary it crosses
// and divides each segment's day count by 366 (leap year) or 365,
// summing the results.
type ISDAActualActual struct{}

func (ISDAActualActual) YearFraction(num Numerator, d1, d2 time.Time) (float64, error) {
	total := 0.0
	cursor := d1
	for cursor.Year() < d2.Year() {
		yearEnd := time.Date(cursor.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		denom := 365.0
		if isLeapYear(cursor.Year()) {
			denom = 366.0
		}
		total += num.Days(cursor, yearEnd) / denom
		cursor = yearEnd
	}
	denom := 365.0
	if isLeapYear(cursor.Year()) {
		denom = 366.0
	}
	total += num.Days(cursor, d2) / denom
	return total, nil
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// PeriodBound is the minimal view of a schedule's calculation period
// the ICMA Actual/Actual denominator needs: the actual (possibly
// stub-truncated) accrual window and the natural, untruncated window it
// would span absent stub adjustment.
type PeriodBound struct {
	Start, End               time.Time
	RegularStart, RegularEnd time.Time
}

// ICMASchedule is the schedule-dependent input an ICMAActualActual
// denominator requires. Periods must be ordered and non-overlapping,
// matching a Schedule's own invariant.
type ICMASchedule struct {
	Periods []PeriodBound
	// CouponFrequency is years per natural coupon period: 1 for annual,
	// 0.5 for semiannual, 0.25 for quarterly, etc.
	CouponFrequency float64
}

// ICMAActualActual implements the ICMA (bond-market) Actual/Actual
// convention: the year fraction between two dates within the schedule
// depends on which calculation period(s) they fall in.
type ICMAActualActual struct {
	Schedule *ICMASchedule
}

// NewICMAActualActual validates freqMonths (the coupon frequency in
// months) divides 12 and builds the denominator's CouponFrequency from
// it.
func NewICMAActualActual(periods []PeriodBound, freqMonths int) (ICMAActualActual, error) {
	if freqMonths <= 0 || 12%freqMonths != 0 {
		return ICMAActualActual{}, ErrIrregularFrequencyForICMA
	}
	return ICMAActualActual{Schedule: &ICMASchedule{
		Periods:         periods,
		CouponFrequency: float64(freqMonths) / 12.0,
	}}, nil
}

func (d ICMAActualActual) YearFraction(num Numerator, d1, d2 time.Time) (float64, error) {
	if d.Schedule == nil {
		return 0, ErrScheduleNotGiven
	}
	periods := d.Schedule.Periods

	startIdx := findPeriod(periods, d1)
	endIdx := findPeriod(periods, d2)
	if startIdx < 0 || endIdx < 0 {
		return 0, ErrScheduleNotGiven
	}

	if startIdx == endIdx {
		p := periods[startIdx]
		length := p.RegularEnd.Sub(p.RegularStart).Hours() / 24
		return (num.Days(d1, d2) / length) * d.Schedule.CouponFrequency, nil
	}

	startPeriod := periods[startIdx]
	startFraction := num.Days(d1, startPeriod.End) / (startPeriod.RegularEnd.Sub(startPeriod.RegularStart).Hours() / 24)

	endPeriod := periods[endIdx]
	endFraction := num.Days(endPeriod.Start, d2) / (endPeriod.RegularEnd.Sub(endPeriod.RegularStart).Hours() / 24)

	wholePeriods := endIdx - startIdx - 1

	return (startFraction + endFraction + float64(wholePeriods)) * d.Schedule.CouponFrequency, nil
}

// findPeriod binary-searches for the period containing t under the
// schedule's own half-open convention (t in [period.Start, period.End)),
// returning -1 if t falls outside every period. A date shared exactly
// between two periods (period i's End == period i+1's Start) always
// resolves to period i+1, the one case being the final maturity date
// itself, which has no following period and resolves to the last one.
func findPeriod(periods []PeriodBound, t time.Time) int {
	i := sort.Search(len(periods), func(i int) bool {
		return periods[i].End.After(t)
	})
	if i == len(periods) {
		if len(periods) > 0 && t.Equal(periods[len(periods)-1].End) {
			return len(periods) - 1
		}
		return -1
	}
	if t.Before(periods[i].Start) {
		return -1
	}
	return i
}
