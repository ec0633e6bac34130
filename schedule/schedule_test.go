package schedule

import (
	"testing"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/period"
)

func noHolidayCalendar() calendar.HolidayCalendar {
	return calendar.NewRuleBasedCalendar(nil, nil, nil, nil)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quarterlyGenerator() Generator {
	return Generator{
		Frequency:        period.Period{Count: 3, Unit: period.Months},
		FreqAdjuster:     calendar.BusinessDayAdjuster{Convention: calendar.Unadjusted},
		MaturityAdjuster: calendar.BusinessDayAdjuster{Convention: calendar.Unadjusted},
		Mode:             Normal,
		Direction:        Forward,
		StubConvention:   Extend,
		Calendar:         noHolidayCalendar(),
	}
}

func TestGenerateForwardEvenSplitNoStub(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	periods := generateForward(gen, date(2024, 1, 1), date(2025, 1, 1))
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	for i, p := range periods {
		if p.IsStub() {
			t.Fatalf("period %d unexpectedly a stub: %+v", i, p)
		}
	}
	if !periods[0].Start.Equal(date(2024, 1, 1)) || !periods[3].End.Equal(date(2025, 1, 1)) {
		t.Fatalf("schedule does not span the full window: %+v", periods)
	}
}

func TestApplyStubConventionRetainPreservesNaturalWindow(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	gen.StubConvention = Retain
	maturity := date(2025, 3, 1)
	periods := generateForward(gen, date(2024, 1, 1), maturity)
	periods = applyStubConvention(gen, periods, date(2024, 1, 1), maturity)

	last := periods[len(periods)-1]
	if !last.IsStub() {
		t.Fatalf("expected trailing stub, got %+v", last)
	}
	if !last.End.Equal(maturity) {
		t.Fatalf("Retain must truncate End to maturity: got %s", last.End.Format("2006-01-02"))
	}
	if !last.RegularEnd.Equal(date(2025, 4, 1)) {
		t.Fatalf("Retain must preserve the natural RegularEnd: got %s", last.RegularEnd.Format("2006-01-02"))
	}
}

func TestApplyStubConventionRemoveDropsStub(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	gen.StubConvention = Remove
	maturity := date(2025, 3, 1)
	periods := generateForward(gen, date(2024, 1, 1), maturity)
	before := len(periods)
	periods = applyStubConvention(gen, periods, date(2024, 1, 1), maturity)
	if len(periods) != before-1 {
		t.Fatalf("Remove should drop exactly one period: before=%d after=%d", before, len(periods))
	}
	if periods[len(periods)-1].IsStub() {
		t.Fatalf("no stub should remain after Remove")
	}
}

func TestApplyStubConventionCombineMergesIntoNonStub(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	gen.StubConvention = Combine
	maturity := date(2025, 3, 1)
	periods := generateForward(gen, date(2024, 1, 1), maturity)
	before := len(periods)
	periods = applyStubConvention(gen, periods, date(2024, 1, 1), maturity)
	if len(periods) != before-1 {
		t.Fatalf("Combine should merge into one fewer period: before=%d after=%d", before, len(periods))
	}
	last := periods[len(periods)-1]
	if last.IsStub() {
		t.Fatalf("Combine result must not be flagged as a stub: %+v", last)
	}
	if !last.End.Equal(maturity) {
		t.Fatalf("merged period must end at maturity: got %s", last.End.Format("2006-01-02"))
	}
}

func TestGenerateBackwardLeadingStub(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	gen.Direction = Backward
	gen.StubConvention = Retain
	startDate := date(2024, 3, 1)
	maturityDate := date(2025, 2, 15)
	periods := generateBackward(gen, startDate, maturityDate)
	periods = applyStubConvention(gen, periods, startDate, maturityDate)

	first := periods[0]
	if !first.IsStub() {
		t.Fatalf("expected a leading stub, got %+v", first)
	}
	if !first.Start.Equal(startDate) {
		t.Fatalf("leading period must start at startDate, got %s", first.Start.Format("2006-01-02"))
	}
	if !periods[len(periods)-1].End.Equal(maturityDate) {
		t.Fatalf("schedule must end exactly at maturity")
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	cal := noHolidayCalendar()
	sched, err := Generate(gen, date(2024, 1, 1), period.Period{Count: 1, Unit: period.Years}, cal, cal)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sched.Periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(sched.Periods))
	}
	for i := 1; i < len(sched.Periods); i++ {
		if !sched.Periods[i-1].Period.End.Equal(sched.Periods[i].Period.Start) {
			t.Fatalf("periods %d and %d are not contiguous", i-1, i)
		}
	}
}

func TestGenerateRejectsMaturityBeforeStart(t *testing.T) {
	t.Parallel()
	gen := quarterlyGenerator()
	cal := noHolidayCalendar()
	if _, err := GenerateBetween(gen, date(2024, 6, 1), date(2024, 1, 1), cal, cal); err == nil {
		t.Fatalf("expected error when maturity precedes start")
	}
}
