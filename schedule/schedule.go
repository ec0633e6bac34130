// Package schedule generates the calculation-period sequence a leg
// accrues and pays on: forward/backward generation, Normal/Recursive
// stepping, and the five stub conventions, generalizing
// generateScheduleForward/generateScheduleBackward (swap/common.go)
// from a single IBOR/OIS shape into a general-purpose generator.
package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/period"
)

// CalculationPeriod is an accrual window. For non-stub periods
// RegularStart == Start and RegularEnd == End. For stub periods the
// Regular pair records the natural tenor window the period would have
// covered absent truncation.
type CalculationPeriod struct {
	Start, End               time.Time
	RegularStart, RegularEnd time.Time
}

// IsStub reports whether this period deviates from its natural tenor
// window.
func (c CalculationPeriod) IsStub() bool {
	return !c.Start.Equal(c.RegularStart) || !c.End.Equal(c.RegularEnd)
}

// SchedulePeriod pairs a CalculationPeriod with its fixing and payment
// dates.
type SchedulePeriod struct {
	FixingDate  time.Time
	Period      CalculationPeriod
	PaymentDate time.Time
}

// Mode selects how successive periods are stepped.
type Mode int

const (
	// Normal accumulates an integer step count off the anchor date
	// (start date for Forward, maturity for Backward) so every
	// generated date is locked to the anchor regardless of earlier
	// periods' drift.
	Normal Mode = iota
	// Recursive walks one period at a time from the previously
	// generated date, matching contracts that specify "next coupon =
	// previous coupon + frequency, adjusted".
	Recursive
)

// Direction selects whether generation proceeds from the start date
// (Forward) or from maturity (Backward).
type Direction int

const (
	Forward Direction = iota
	Backward
)

// StubConvention selects how a short leftover period at the boundary
// opposite the anchor is handled.
type StubConvention int

const (
	// Extend leaves the stub period as generated; it already ends
	// exactly at maturity/horizon by construction.
	Extend StubConvention = iota
	// Remove drops the short stub period entirely.
	Remove
	// Retain truncates the stub period's actual dates to the true
	// endpoint while preserving the untruncated natural window in
	// RegularStart/RegularEnd.
	Retain
	// Combine merges the stub with its adjacent period into one
	// longer regular (non-stub) period; with only one period, falls
	// back to Retain.
	Combine
	// SmartCombine combines only if the stub is shorter than 7
	// calendar days; otherwise behaves like Retain.
	SmartCombine
)

// Generator holds the parameters that drive schedule generation.
type Generator struct {
	// StartLag is the number of business days, in Calendar, between
	// the pricing horizon and the first accrual start.
	StartLag int
	// Frequency is the coupon period, e.g. period.Period{3, period.Months}.
	Frequency period.Period
	// FreqAdjuster adjusts every interior generated date.
	FreqAdjuster calendar.BusinessDayAdjuster
	// MaturityAdjuster adjusts the final maturity date.
	MaturityAdjuster calendar.BusinessDayAdjuster
	Mode             Mode
	Direction        Direction
	StubConvention   StubConvention
	Calendar         calendar.HolidayCalendar

	// FixingDates and PaymentDates derive each period's fixing and
	// payment date. Nil means "no derivation" (the caller populates
	// SchedulePeriod.FixingDate/PaymentDate itself).
	FixingDates     RelativeDateGenerator
	PaymentDates    RelativeDateGenerator
	FixingAdjuster  calendar.BusinessDayAdjuster
	PaymentAdjuster calendar.BusinessDayAdjuster
}

// Schedule owns a non-empty ordered sequence of SchedulePeriods plus
// the calendars and generator that produced it.
type Schedule struct {
	Periods         []SchedulePeriod
	AccrualCalendar calendar.HolidayCalendar
	FixingCalendar  calendar.HolidayCalendar
	PaymentCalendar calendar.HolidayCalendar
	Generator       Generator
}

// Generate builds a Schedule running from horizon (the pricing
// reference date, from which StartLag business days produce the first
// accrual start) out to the maturity tenor measured from that start.
// GenerateBetween takes an already-resolved maturity date instead.
func Generate(gen Generator, horizon time.Time, maturity period.Period, fixingCal, paymentCal calendar.HolidayCalendar) (*Schedule, error) {
	if gen.Calendar == nil {
		return nil, fmt.Errorf("schedule: generator requires a calendar")
	}
	startDate := calendar.ShiftNBusinessDay(gen.Calendar, horizon, gen.StartLag)
	maturityDate := gen.MaturityAdjuster.FromTenorToDate(gen.Calendar, startDate, maturity)
	return GenerateBetween(gen, startDate, maturityDate, fixingCal, paymentCal)
}

// GenerateBetween builds a Schedule between two already-resolved
// accrual boundary dates (used when maturity is a fixed date rather
// than a tenor off the start date).
func GenerateBetween(gen Generator, startDate, maturityDate time.Time, fixingCal, paymentCal calendar.HolidayCalendar) (*Schedule, error) {
	if maturityDate.Before(startDate) {
		return nil, fmt.Errorf("schedule: maturity %s before start %s", maturityDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	var regularPeriods []CalculationPeriod
	switch gen.Direction {
	case Forward:
		regularPeriods = generateForward(gen, startDate, maturityDate)
	case Backward:
		regularPeriods = generateBackward(gen, startDate, maturityDate)
	}

	regularPeriods = applyStubConvention(gen, regularPeriods, startDate, maturityDate)

	periods := make([]SchedulePeriod, len(regularPeriods))
	for i, cp := range regularPeriods {
		periods[i] = SchedulePeriod{Period: cp}
	}

	if gen.FixingDates != nil {
		fixingDates := gen.FixingDates.Dates(fixingCal, gen.FixingAdjuster, regularPeriods)
		for i := range periods {
			periods[i].FixingDate = fixingDates[i]
		}
	}
	if gen.PaymentDates != nil {
		paymentDates := gen.PaymentDates.Dates(paymentCal, gen.PaymentAdjuster, regularPeriods)
		for i := range periods {
			periods[i].PaymentDate = paymentDates[i]
		}
	}

	return &Schedule{
		Periods:         periods,
		AccrualCalendar: gen.Calendar,
		FixingCalendar:  fixingCal,
		PaymentCalendar: paymentCal,
		Generator:       gen,
	}, nil
}

// generateForward steps forward from startDate, accumulating periods
// until the next step would cross maturityDate.
func generateForward(gen Generator, startDate, maturityDate time.Time) []CalculationPeriod {
	var periods []CalculationPeriod
	cursor := startDate
	step := 0
	for {
		step++
		var next time.Time
		if gen.Mode == Normal {
			next = multiplyPeriod(gen.Frequency, step).AddTo(startDate)
		} else {
			next = gen.Frequency.AddTo(cursor)
		}
		if next.After(maturityDate) {
			break
		}
		periods = append(periods, CalculationPeriod{
			Start:        gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			End:          gen.FreqAdjuster.Adjust(gen.Calendar, next),
			RegularStart: gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			RegularEnd:   gen.FreqAdjuster.Adjust(gen.Calendar, next),
		})
		cursor = next
	}
	// Trailing stub out to maturityDate, if cursor hasn't reached it.
	if cursor.Before(maturityDate) {
		var regularEnd time.Time
		if gen.Mode == Normal {
			regularEnd = multiplyPeriod(gen.Frequency, step).AddTo(startDate)
		} else {
			regularEnd = gen.Frequency.AddTo(cursor)
		}
		periods = append(periods, CalculationPeriod{
			Start:        gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			End:          gen.MaturityAdjuster.Adjust(gen.Calendar, maturityDate),
			RegularStart: gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			RegularEnd:   gen.FreqAdjuster.Adjust(gen.Calendar, regularEnd),
		})
	}
	return periods
}

// generateBackward steps backward from maturityDate, then reverses.
func generateBackward(gen Generator, startDate, maturityDate time.Time) []CalculationPeriod {
	var reversed []CalculationPeriod
	cursor := maturityDate
	step := 0
	for {
		step++
		var prev time.Time
		if gen.Mode == Normal {
			prev = multiplyPeriod(gen.Frequency, -step).AddTo(maturityDate)
		} else {
			prev = gen.Frequency.Negate().AddTo(cursor)
		}
		if prev.Before(startDate) {
			break
		}
		reversed = append(reversed, CalculationPeriod{
			Start:        gen.FreqAdjuster.Adjust(gen.Calendar, prev),
			End:          gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			RegularStart: gen.FreqAdjuster.Adjust(gen.Calendar, prev),
			RegularEnd:   gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
		})
		cursor = prev
	}
	// Leading stub back to startDate, if cursor hasn't reached it.
	if cursor.After(startDate) {
		var regularStart time.Time
		if gen.Mode == Normal {
			regularStart = multiplyPeriod(gen.Frequency, -step).AddTo(maturityDate)
		} else {
			regularStart = gen.Frequency.Negate().AddTo(cursor)
		}
		reversed = append(reversed, CalculationPeriod{
			Start:        gen.FreqAdjuster.Adjust(gen.Calendar, startDate),
			End:          gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
			RegularStart: gen.FreqAdjuster.Adjust(gen.Calendar, regularStart),
			RegularEnd:   gen.FreqAdjuster.Adjust(gen.Calendar, cursor),
		})
	}

	periods := make([]CalculationPeriod, len(reversed))
	for i, p := range reversed {
		periods[len(reversed)-1-i] = p
	}
	return periods
}

func multiplyPeriod(p period.Period, n int) period.Period {
	return period.Period{Count: p.Count * n, Unit: p.Unit}
}
