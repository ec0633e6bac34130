package calendar

import "time"

// RecurringRule produces the set of calendar dates a recurring holiday
// falls on within a given year. Implementations may return candidates
// that land in the adjacent year (a Jan-1 holiday shifted to the prior
// Dec-31 must appear in both years' holiday sets), so CandidatesForYear
// enumerates every candidate that falls within targetYear regardless of
// which year's "natural" date produced it.
type RecurringRule interface {
	CandidatesForYear(targetYear int) []civilDate
}

// WeekendAdjustment records, per weekday, the signed day-shift applied
// when a fixed-date holiday falls on that weekend day: how many
// consecutive weekend/holiday days must be skipped, and in which
// direction (forward == observed later, e.g. Monday after a Sunday
// holiday; backward == observed earlier, e.g. Friday before a Saturday
// holiday).
type WeekendAdjustment struct {
	// Shift maps time.Weekday -> signed day offset to apply when the
	// holiday's natural date falls on that weekday. Weekdays absent from
	// the map are not adjusted (the holiday is observed on its natural
	// date).
	Shift map[time.Weekday]int
}

func (w WeekendAdjustment) apply(d time.Time) time.Time {
	if w.Shift == nil {
		return d
	}
	if off, ok := w.Shift[d.Weekday()]; ok {
		return d.AddDate(0, 0, off)
	}
	return d
}

// FixedDateRule is a holiday that falls on the same month/day every
// year, optionally weekend-adjusted (e.g. "if Jul-4 falls on Saturday,
// observe the preceding Friday").
type FixedDateRule struct {
	Month      time.Month
	Day        int
	Adjustment WeekendAdjustment
}

func (r FixedDateRule) CandidatesForYear(targetYear int) []civilDate {
	out := make([]civilDate, 0, 2)
	// A candidate whose *natural* date is in targetYear-1 or targetYear+1
	// can, after weekend adjustment, land in targetYear (e.g. Jan-1
	// adjusted backward to the prior Dec-31). Check all three natural
	// years and keep only adjusted results that fall in targetYear.
	for _, y := range [3]int{targetYear - 1, targetYear, targetYear + 1} {
		natural := time.Date(y, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
		adjusted := r.Adjustment.apply(natural)
		if adjusted.Year() == targetYear {
			out = append(out, toCivil(adjusted))
		}
	}
	return out
}

// NthWeekdayRule is "the nth occurrence of weekday in month" (e.g. 3rd
// Monday of January = MLK Day). N is 1-based; N<=0 is invalid and
// produces no candidates.
type NthWeekdayRule struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
}

func (r NthWeekdayRule) CandidatesForYear(targetYear int) []civilDate {
	if r.N <= 0 {
		return nil
	}
	first := time.Date(targetYear, r.Month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(r.Weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + 7*(r.N-1)
	d := time.Date(targetYear, r.Month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != r.Month {
		return nil
	}
	return []civilDate{toCivil(d)}
}

// LastWeekdayRule is "the last occurrence of weekday in month" (e.g.
// last Monday of May = US Memorial Day).
type LastWeekdayRule struct {
	Month   time.Month
	Weekday time.Weekday
}

func (r LastWeekdayRule) CandidatesForYear(targetYear int) []civilDate {
	last := time.Date(targetYear, r.Month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(last.Weekday()) - int(r.Weekday) + 7) % 7
	d := last.AddDate(0, 0, -offset)
	return []civilDate{toCivil(d)}
}

// EasterRelatedRule is a holiday defined relative to Western (Gregorian)
// Easter Sunday, e.g. Good Friday (ShiftDays = -2) or Easter Monday
// (ShiftDays = +1).
type EasterRelatedRule struct {
	ShiftDays int
}

func (r EasterRelatedRule) CandidatesForYear(targetYear int) []civilDate {
	easter := gregorianEaster(targetYear)
	d := easter.AddDate(0, 0, r.ShiftDays)
	return []civilDate{toCivil(d)}
}

// gregorianEaster computes the date of Western Easter Sunday for year y
// using the anonymous Gregorian algorithm.
func gregorianEaster(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
