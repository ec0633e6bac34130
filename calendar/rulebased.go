package calendar

import "time"

// RuleBasedCalendar is the source-of-truth calendar variant: a set of
// weekend weekdays, a list of RecurringRules, and explicit
// additional-holiday / additional-business-day overrides. The explicit
// business-day set overrides both weekends and every holiday source.
type RuleBasedCalendar struct {
	Weekends               map[time.Weekday]struct{}
	Recurring              []RecurringRule
	AdditionalHolidays     map[civilDate]struct{}
	AdditionalBusinessDays map[civilDate]struct{}
}

// NewRuleBasedCalendar constructs a calendar from its rule components.
func NewRuleBasedCalendar(weekends []time.Weekday, recurring []RecurringRule, additionalHolidays, additionalBusinessDays []time.Time) *RuleBasedCalendar {
	c := &RuleBasedCalendar{
		Weekends:               make(map[time.Weekday]struct{}, len(weekends)),
		Recurring:              recurring,
		AdditionalHolidays:     make(map[civilDate]struct{}, len(additionalHolidays)),
		AdditionalBusinessDays: make(map[civilDate]struct{}, len(additionalBusinessDays)),
	}
	for _, w := range weekends {
		c.Weekends[w] = struct{}{}
	}
	for _, d := range additionalHolidays {
		c.AdditionalHolidays[toCivil(d)] = struct{}{}
	}
	for _, d := range additionalBusinessDays {
		c.AdditionalBusinessDays[toCivil(d)] = struct{}{}
	}
	return c
}

// IsHoliday evaluates, in the order that minimizes work: explicit
// business-day override (always wins) -> weekend -> explicit holiday ->
// recurring-rule membership.
func (c *RuleBasedCalendar) IsHoliday(d time.Time) bool {
	key := toCivil(d)
	if _, ok := c.AdditionalBusinessDays[key]; ok {
		return false
	}
	if _, ok := c.Weekends[d.Weekday()]; ok {
		return true
	}
	if _, ok := c.AdditionalHolidays[key]; ok {
		return true
	}
	for _, rule := range c.Recurring {
		for _, cand := range rule.CandidatesForYear(d.Year()) {
			if cand == key {
				return true
			}
		}
	}
	return false
}

// IsBusinessDay is the complement of IsHoliday.
func (c *RuleBasedCalendar) IsBusinessDay(d time.Time) bool {
	return !c.IsHoliday(d)
}

// GetHolidaySet materializes the full holiday set for year: it walks
// weekend days by starting at the first occurrence of each weekend
// weekday in the year and jumping 7 days, unions in recurring-rule
// output for the year, filters in additional holidays that fall within
// the year, then subtracts additional business days.
func (c *RuleBasedCalendar) GetHolidaySet(year int) map[civilDate]struct{} {
	set := make(map[civilDate]struct{})

	for weekday := range c.Weekends {
		first := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(weekday) - int(first.Weekday()) + 7) % 7
		d := first.AddDate(0, 0, offset)
		for d.Year() == year {
			set[toCivil(d)] = struct{}{}
			d = d.AddDate(0, 0, 7)
		}
	}

	for _, rule := range c.Recurring {
		for _, cand := range rule.CandidatesForYear(year) {
			if cand.Year == year {
				set[cand] = struct{}{}
			}
		}
	}

	for h := range c.AdditionalHolidays {
		if h.Year == year {
			set[h] = struct{}{}
		}
	}

	for b := range c.AdditionalBusinessDays {
		delete(set, b)
	}

	return set
}
