// Package daycount implements day-count conventions as a composition of
// a Numerator (how many days, or day-equivalents, elapsed) and a
// Denominator (the divisor that turns that count into a year fraction),
// generalizing the single YearFraction("ACT/360"|"ACT/365F") helper of
// utils/daycount.go into a full Numerator x Denominator family.
package daycount

import (
	"errors"
	"time"
)

// ErrScheduleNotGiven is returned by the schedule-dependent denominator
// (ICMA Actual/Actual) when it has no schedule, or when a date falls
// outside every period of its schedule.
var ErrScheduleNotGiven = errors.New("daycount: schedule-dependent denominator requires a schedule")

// ErrIrregularFrequencyForICMA is returned when the coupon frequency
// passed to the ICMA denominator is not a whole number of months that
// divides 12.
var ErrIrregularFrequencyForICMA = errors.New("daycount: frequency is not a whole number of months dividing 12")

// Numerator computes the day-count numerator between two dates.
type Numerator interface {
	Days(d1, d2 time.Time) float64
}

// Denominator converts a numerator's day count into a year fraction.
// d1 and d2 are passed through (not just the numerator result) because
// ISDA/ICMA Actual-Actual must integrate the numerator per sub-period.
type Denominator interface {
	YearFraction(num Numerator, d1, d2 time.Time) (float64, error)
}

// DayCounter composes a Numerator and Denominator, plus the ISDA
// include-endpoint flags.
type DayCounter struct {
	Numerator   Numerator
	Denominator Denominator
	IncludeD1   bool
	IncludeD2   bool
}

// YearFraction returns the year fraction between d1 and d2. Reversing
// the argument order negates the result. Equal dates yield 0
// regardless of the include flags.
func (c DayCounter) YearFraction(d1, d2 time.Time) (float64, error) {
	if d1.Equal(d2) {
		return 0, nil
	}
	if d1.After(d2) {
		yf, err := c.YearFraction(d2, d1)
		return -yf, err
	}

	start, end := d1, d2
	if c.IncludeD1 {
		start = start.AddDate(0, 0, 1)
	}
	if !c.IncludeD2 {
		end = end.AddDate(0, 0, 1)
	}
	return c.Denominator.YearFraction(c.Numerator, start, end)
}
