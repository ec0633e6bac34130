package calendar

import "time"

// yearBits is a year's holiday set packed 1 bit per day-of-year across
// three 128-bit words (384 bits covers the 366-day maximum with room to
// spare). Bit i (0-based, i = day-of-year - 1) is 1 iff that day is a
// holiday.
type yearBits [3]uint128

type uint128 struct{ hi, lo uint64 }

func (b *yearBits) set(dayOfYear int) {
	word := dayOfYear / 128
	bit := uint(dayOfYear % 128)
	if bit < 64 {
		b[word].lo |= 1 << bit
	} else {
		b[word].hi |= 1 << (bit - 64)
	}
}

func (b *yearBits) test(dayOfYear int) bool {
	word := dayOfYear / 128
	bit := uint(dayOfYear % 128)
	if bit < 64 {
		return b[word].lo&(1<<bit) != 0
	}
	return b[word].hi&(1<<(bit-64)) != 0
}

// PrecomputedCalendar materializes an underlying RuleBasedCalendar's
// holiday sets as bitsets over an immutable inclusive year range
// [StartYear, EndYear]. Lookups within the range are a single bitset
// test; lookups outside the range fall back to the underlying calendar.
type PrecomputedCalendar struct {
	underlying *RuleBasedCalendar
	startYear  int
	endYear    int
	years      map[int]yearBits
}

// NewPrecomputedCalendar builds bitsets for every year in
// [startYear, endYear] from underlying's rules, weekends, and explicit
// overrides, in that order (recurring+additional holidays, then
// weekends, then subtracting explicit business days) so that explicit
// business-day overrides always win.
func NewPrecomputedCalendar(underlying *RuleBasedCalendar, startYear, endYear int) *PrecomputedCalendar {
	p := &PrecomputedCalendar{
		underlying: underlying,
		startYear:  startYear,
		endYear:    endYear,
		years:      make(map[int]yearBits, endYear-startYear+1),
	}
	for y := startYear; y <= endYear; y++ {
		p.years[y] = p.buildYear(y)
	}
	return p
}

func (p *PrecomputedCalendar) buildYear(year int) yearBits {
	var bits yearBits

	for _, rule := range p.underlying.Recurring {
		for _, cand := range rule.CandidatesForYear(year) {
			if cand.Year == year {
				bits.set(dayOfYear(cand))
			}
		}
	}
	for h := range p.underlying.AdditionalHolidays {
		if h.Year == year {
			bits.set(dayOfYear(h))
		}
	}

	jan1 := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	daysInYear := dayOfYear(toCivil(time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))) + 1
	for doy := 0; doy < daysInYear; doy++ {
		d := jan1.AddDate(0, 0, doy)
		if _, ok := p.underlying.Weekends[d.Weekday()]; ok {
			bits.set(doy)
		}
	}

	for b := range p.underlying.AdditionalBusinessDays {
		if b.Year == year {
			bits.clear(dayOfYear(b))
		}
	}

	return bits
}

func (b *yearBits) clear(dayOfYear int) {
	word := dayOfYear / 128
	bit := uint(dayOfYear % 128)
	if bit < 64 {
		b[word].lo &^= 1 << bit
	} else {
		b[word].hi &^= 1 << (bit - 64)
	}
}

// dayOfYear returns a 0-based day-of-year index for a civil date.
func dayOfYear(c civilDate) int {
	jan1 := time.Date(c.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	return int(c.toTime().Sub(jan1).Hours() / 24)
}

func (p *PrecomputedCalendar) IsHoliday(d time.Time) bool {
	y := d.Year()
	if y < p.startYear || y > p.endYear {
		return p.underlying.IsHoliday(d)
	}
	bits := p.years[y]
	return bits.test(dayOfYear(toCivil(d)))
}

func (p *PrecomputedCalendar) IsBusinessDay(d time.Time) bool {
	return !p.IsHoliday(d)
}

// GetHolidaySet is idempotent: repeated calls for the same year return
// an equivalent set built from the same bitset (or, outside the
// materialized range, the same underlying-calendar computation).
func (p *PrecomputedCalendar) GetHolidaySet(year int) map[civilDate]struct{} {
	if year < p.startYear || year > p.endYear {
		return p.underlying.GetHolidaySet(year)
	}
	bits := p.years[year]
	set := make(map[civilDate]struct{})
	jan1 := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	days := int(last.Sub(jan1).Hours()/24) + 1
	for doy := 0; doy < days; doy++ {
		if bits.test(doy) {
			set[toCivil(jan1.AddDate(0, 0, doy))] = struct{}{}
		}
	}
	return set
}
