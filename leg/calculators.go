package leg

import (
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/rateindex"
	"github.com/meenmo/ratecore/schedule"
)

// StubRateConvention selects how a TermRateCalculator handles a past
// stub period whose window does not match any single published tenor.
type StubRateConvention int

const (
	// Straight looks up the fixing for the period's own regular
	// (natural tenor) window.
	Straight StubRateConvention = iota
	// Interpolation applies the year-fraction interpolation between a
	// ShortTenor and a LongTenor window, both anchored at the stub's
	// own Start. Both fixings are read from the one index's PastFixings
	// at the same fixing date, so the result equals that single fixing;
	// separate short- and long-tenor fixings are not looked up.
	Interpolation
	// Proportional scales the regular period's fixing by the ratio of
	// the stub's year fraction to the regular period's year fraction.
	Proportional
)

// TermRateCalculator wraps a TermRateIndex, adding the stub-rate
// convention, which belongs to the calculator rather than the index.
type TermRateCalculator struct {
	Index      *rateindex.TermRateIndex
	Schedule   *schedule.Schedule
	Convention StubRateConvention
	// ShortTenor/LongTenor are only consulted when Convention ==
	// Interpolation.
	ShortTenor, LongTenor period.Period
}

func (c *TermRateCalculator) RelativeDates(i int) []time.Time {
	return c.Index.RelativeDatesForPeriod(c.Schedule.Periods[i].Period)
}

func (c *TermRateCalculator) Fixing(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	p := c.Schedule.Periods[i].Period
	if !p.IsStub() || !cond.IsPast(p.Start) {
		return c.Index.FixingRateForPeriod(p, forwardCurve, cond)
	}
	return c.stubFixing(p)
}

// fixingDateFromStart recovers the fixing date that produced start
// under the index's own start lag, by shifting start forward the same
// number of business days PeriodForFixingDate would have shifted a
// fixing date backward to reach it.
func (c *TermRateCalculator) fixingDateFromStart(start time.Time) time.Time {
	return calendar.ShiftNBusinessDay(c.Index.CalendarValue, start, c.Index.StartLagValue)
}

func (c *TermRateCalculator) stubFixing(p schedule.CalculationPeriod) (float64, error) {
	dc := c.Index.DayCounterValue

	switch c.Convention {
	case Proportional:
		// p.RegularStart/p.RegularEnd is already the period the
		// schedule generator computed for the index's own tenor; it
		// must be read as-is, never reconstructed from p.Start (which,
		// for a leading stub, is not the regular window's start).
		regularRate, ok := c.Index.PastFixings[c.fixingDateFromStart(p.RegularStart)]
		if !ok {
			return 0, rateindex.ErrMissingFixing
		}
		tauStub, err := dc.YearFraction(p.Start, p.End)
		if err != nil {
			return 0, err
		}
		tauRegular, err := dc.YearFraction(p.RegularStart, p.RegularEnd)
		if err != nil {
			return 0, err
		}
		if tauRegular == 0 {
			return regularRate, nil
		}
		return regularRate * (tauStub / tauRegular), nil

	case Interpolation:
		// Both tenors' windows are anchored at the stub's own accrual
		// start (not its regular start): there is no single "regular"
		// window to interpolate around, only the stub's actual start.
		shortEnd := c.Index.AdjusterValue.FromTenorToDate(c.Index.CalendarValue, p.Start, c.ShortTenor)
		longEnd := c.Index.AdjusterValue.FromTenorToDate(c.Index.CalendarValue, p.Start, c.LongTenor)
		fixingDate := c.fixingDateFromStart(p.Start)

		shortRate, ok := c.Index.PastFixings[fixingDate]
		if !ok {
			return 0, rateindex.ErrMissingFixing
		}
		longRate, ok := c.Index.PastFixings[fixingDate]
		if !ok {
			return 0, rateindex.ErrMissingFixing
		}

		tauStub, err := dc.YearFraction(p.Start, p.End)
		if err != nil {
			return 0, err
		}
		tauShort, err := dc.YearFraction(p.Start, shortEnd)
		if err != nil {
			return 0, err
		}
		tauLong, err := dc.YearFraction(p.Start, longEnd)
		if err != nil {
			return 0, err
		}
		denom := tauLong - tauShort
		if denom == 0 {
			return shortRate, nil
		}
		w := (tauStub - tauShort) / denom
		return shortRate + w*(longRate-shortRate), nil

	default: // Straight
		rate, ok := c.Index.PastFixings[c.fixingDateFromStart(p.RegularStart)]
		if !ok {
			return 0, rateindex.ErrMissingFixing
		}
		return rate, nil
	}
}

// DailyCompoundedRateCalculator wraps a plain overnight TermRateIndex
// (tenor = 1 day) and implements the full lookback/lockout/fixing-
// convention algorithm at the calculator layer, used when the
// underlying index itself has no native daily-compounding support.
type DailyCompoundedRateCalculator struct {
	Index           *rateindex.TermRateIndex
	Schedule        *schedule.Schedule
	DailyFixings    map[time.Time]float64
	LookbackDays    int
	LockoutDays     int
	Fixing_         rateindex.FixingConvention
	MissingFixing   rateindex.MissingFixingHandler
	standardForward bool
	applicable      bool
}

// NewDailyCompoundedRateCalculator wraps idx's parameters into an
// equivalent CompoundingRateIndex so the two calculators share one
// telescoping-product implementation.
func NewDailyCompoundedRateCalculator(idx *rateindex.TermRateIndex, sch *schedule.Schedule, dailyFixings map[time.Time]float64, lookback, lockout int, fixing rateindex.FixingConvention, missing rateindex.MissingFixingHandler) *DailyCompoundedRateCalculator {
	applicable := lookback == 0 && lockout == 0 && fixing == rateindex.Advance
	return &DailyCompoundedRateCalculator{
		Index:           idx,
		Schedule:        sch,
		DailyFixings:    dailyFixings,
		LookbackDays:    lookback,
		LockoutDays:     lockout,
		Fixing_:         fixing,
		MissingFixing:   missing,
		standardForward: false,
		applicable:      applicable,
	}
}

func (c *DailyCompoundedRateCalculator) underlying() *rateindex.CompoundingRateIndex {
	idx := rateindex.NewCompoundingRateIndex(&rateindex.CompoundingRateIndex{
		TenorValue:      c.Index.TenorValue,
		StartLagValue:   c.Index.StartLagValue,
		CalendarValue:   c.Index.CalendarValue,
		AdjusterValue:   c.Index.AdjusterValue,
		DayCounterValue: c.Index.DayCounterValue,
		RefCurveName:    c.Index.RefCurveName,
		LookbackDays:    c.LookbackDays,
		LockoutDays:     c.LockoutDays,
		Fixing:          c.Fixing_,
		MissingFixing:   c.MissingFixing,
		ResultCompound:  compounding.Simple{},
		DailyFixings:    c.DailyFixings,
	})
	idx.SetUseArbitrageFree(!c.standardForward)
	return idx
}

// SetStandardForward toggles the projection mode, returning true only
// if the index's telescoping identity is applicable AND enabling
// changed the effective state.
func (c *DailyCompoundedRateCalculator) SetStandardForward(enable bool) bool {
	if !c.applicable {
		return false
	}
	changed := c.standardForward != enable
	c.standardForward = enable
	return changed
}

func (c *DailyCompoundedRateCalculator) RelativeDates(i int) []time.Time {
	return c.underlying().RelativeDatesForPeriod(c.Schedule.Periods[i].Period)
}

func (c *DailyCompoundedRateCalculator) Fixing(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	return c.underlying().FixingRateForPeriod(c.Schedule.Periods[i].Period, forwardCurve, cond)
}

// CompoundingRateIndexCalculator delegates directly to a
// CompoundingRateIndex.
type CompoundingRateIndexCalculator struct {
	Index    *rateindex.CompoundingRateIndex
	Schedule *schedule.Schedule
}

func (c *CompoundingRateIndexCalculator) RelativeDates(i int) []time.Time {
	return c.Index.RelativeDatesForPeriod(c.Schedule.Periods[i].Period)
}

func (c *CompoundingRateIndexCalculator) Fixing(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	return c.Index.FixingRateForPeriod(c.Schedule.Periods[i].Period, forwardCurve, cond)
}

// SetStandardForward forwards to the index's
// SetUseArbitrageFree(!enable), returning whether the toggle actually
// changed state.
func (c *CompoundingRateIndexCalculator) SetStandardForward(enable bool) bool {
	before := c.Index.UseArbitrageFree()
	after := c.Index.SetUseArbitrageFree(!enable)
	return before != after
}
