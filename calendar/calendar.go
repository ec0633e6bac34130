// Package calendar implements business-day calendars: rule-based
// (weekends + recurring-holiday rules + explicit overrides),
// bitset-precomputed, and joint (union/intersection) variants, plus the
// business-day adjuster conventions used to roll a date onto a business
// day.
//
// This generalizes the fixed per-country holiday maps
// (TARGET/JPN/FD/GT/KOR in the original calendar package) into a rule
// engine: the same five calendars are now constructed from recurring-
// holiday rules rather than hand-maintained date lists.
package calendar

import "time"

// HolidayCalendar is the capability every calendar variant implements.
//
// Invariant: IsHoliday(d) XOR IsBusinessDay(d) always holds.
type HolidayCalendar interface {
	IsHoliday(d time.Time) bool
	IsBusinessDay(d time.Time) bool
	GetHolidaySet(year int) map[civilDate]struct{}
}

// civilDate is a hashable (year, month, day) key, used instead of
// time.Time directly so holiday sets can be compared/unioned as plain
// map keys regardless of time.Time's monotonic-reading internals.
type civilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func toCivil(d time.Time) civilDate {
	y, m, day := d.Date()
	return civilDate{Year: y, Month: m, Day: day}
}

func (c civilDate) toTime() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

// NextBusinessDay returns the next business day strictly after d; it
// always advances at least one day, matching ShiftNBusinessDay(d, 1).
func NextBusinessDay(cal HolidayCalendar, d time.Time) time.Time {
	return ShiftNBusinessDay(cal, d, 1)
}

// PreviousBusinessDay returns the business day strictly before d.
func PreviousBusinessDay(cal HolidayCalendar, d time.Time) time.Time {
	return ShiftNBusinessDay(cal, d, -1)
}

// ShiftNBusinessDay walks one calendar day at a time, decrementing the
// remaining count only on business-day steps, terminating after exactly
// |n| business-day steps (as opposed to "jump to the nearest business
// day n times", which is not equivalent when d itself is a holiday).
func ShiftNBusinessDay(cal HolidayCalendar, d time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		d = d.AddDate(0, 0, step)
		if cal.IsBusinessDay(d) {
			n -= step
		}
	}
	return d
}

// FirstBusinessDayOfMonth walks from the 1st of d's month toward the
// interior until a business day is found.
func FirstBusinessDayOfMonth(cal HolidayCalendar, d time.Time) time.Time {
	t := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// LastBusinessDayOfMonth walks from the last calendar day of d's month
// toward the interior until a business day is found.
func LastBusinessDayOfMonth(cal HolidayCalendar, d time.Time) time.Time {
	t := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// IsEndOfMonth reports whether d is the last business day of its month.
func IsEndOfMonth(cal HolidayCalendar, d time.Time) bool {
	return d.Equal(LastBusinessDayOfMonth(cal, d))
}
