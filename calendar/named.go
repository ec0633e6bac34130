package calendar

import "time"

// The original teacher package hard-coded five fixed per-country holiday
// maps (TARGET, JPN, FD, GT, KOR) as map[string]struct{} literals. These
// constructors rebuild the same five calendars from the rule engine
// above: each is now a RuleBasedCalendar driven by recurring-holiday
// rules instead of a maintained date list, and each can be wrapped in
// NewPrecomputedCalendar for bitset lookups over a trading horizon.

var saturdaySunday = []time.Weekday{time.Saturday, time.Sunday}

// NewTARGETCalendar approximates the Trans-European Automated
// Real-time Gross settlement Express Transfer calendar: New Year's Day,
// Good Friday, Easter Monday, Labour Day, Christmas, and Boxing Day.
func NewTARGETCalendar() *RuleBasedCalendar {
	return NewRuleBasedCalendar(saturdaySunday, []RecurringRule{
		FixedDateRule{Month: time.January, Day: 1},
		EasterRelatedRule{ShiftDays: -2}, // Good Friday
		EasterRelatedRule{ShiftDays: 1},  // Easter Monday
		FixedDateRule{Month: time.May, Day: 1},
		FixedDateRule{Month: time.December, Day: 25},
		FixedDateRule{Month: time.December, Day: 26},
	}, nil, nil)
}

// NewJPNCalendar approximates the Tokyo market calendar: New Year's Day,
// Coming of Age Day (2nd Monday of January), Constitution Memorial Day,
// and year-end/new-year bank holidays.
func NewJPNCalendar() *RuleBasedCalendar {
	return NewRuleBasedCalendar(saturdaySunday, []RecurringRule{
		FixedDateRule{Month: time.January, Day: 1},
		FixedDateRule{Month: time.January, Day: 2},
		FixedDateRule{Month: time.January, Day: 3},
		NthWeekdayRule{Month: time.January, Weekday: time.Monday, N: 2},
		FixedDateRule{Month: time.May, Day: 3},
		FixedDateRule{Month: time.December, Day: 31},
	}, nil, nil)
}

// NewFDCalendar approximates the Federal Reserve Fedwire-style calendar:
// New Year's Day, Independence Day, Thanksgiving, and Christmas, with
// weekend-adjustment (a Saturday holiday observed the preceding Friday,
// a Sunday holiday observed the following Monday).
func NewFDCalendar() *RuleBasedCalendar {
	usAdjustment := WeekendAdjustment{Shift: map[time.Weekday]int{
		time.Saturday: -1,
		time.Sunday:   1,
	}}
	return NewRuleBasedCalendar(saturdaySunday, []RecurringRule{
		FixedDateRule{Month: time.January, Day: 1, Adjustment: usAdjustment},
		FixedDateRule{Month: time.July, Day: 4, Adjustment: usAdjustment},
		NthWeekdayRule{Month: time.November, Weekday: time.Thursday, N: 4},
		FixedDateRule{Month: time.December, Day: 25, Adjustment: usAdjustment},
	}, nil, nil)
}

// NewGTCalendar approximates the US Government bond (SIFMA) calendar:
// the FD holiday set plus Good Friday, which Fedwire itself observes as
// a business day but the bond market does not.
func NewGTCalendar() *RuleBasedCalendar {
	gt := NewFDCalendar()
	gt.Recurring = append(gt.Recurring, EasterRelatedRule{ShiftDays: -2})
	return gt
}

// NewKORCalendar approximates the Korean won settlement calendar: New
// Year's Day, Independence Movement Day, Labour Day, Liberation Day,
// National Foundation Day, and Christmas. Lunar-calendar holidays
// (Seollal, Chuseok) are not expressible as a fixed recurring rule and
// must be supplied per year via additionalHolidays.
func NewKORCalendar(additionalHolidays []time.Time) *RuleBasedCalendar {
	return NewRuleBasedCalendar(saturdaySunday, []RecurringRule{
		FixedDateRule{Month: time.January, Day: 1},
		FixedDateRule{Month: time.March, Day: 1},
		FixedDateRule{Month: time.May, Day: 1},
		FixedDateRule{Month: time.August, Day: 15},
		FixedDateRule{Month: time.October, Day: 3},
		FixedDateRule{Month: time.December, Day: 25},
	}, additionalHolidays, nil)
}
