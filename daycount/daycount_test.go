package daycount

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAct360(t *testing.T) {
	t.Parallel()
	// IncludeD2 keeps the end date as is; with it false, YearFraction
	// moves the end date one day later.
	dc := DayCounter{Numerator: Actual{}, Denominator: Const{D: 360}, IncludeD2: true}
	yf, err := dc.YearFraction(d(2024, 1, 1), d(2024, 7, 1))
	if err != nil {
		t.Fatalf("YearFraction: %v", err)
	}
	want := 182.0 / 360
	if abs(yf-want) > 1e-12 {
		t.Fatalf("ACT/360 Jan1-Jul1 2024 = %v, want %v", yf, want)
	}
}

func TestYearFractionReversalNegates(t *testing.T) {
	t.Parallel()
	dc := DayCounter{Numerator: Actual{}, Denominator: Const{D: 365}}
	fwd, err := dc.YearFraction(d(2024, 3, 1), d(2024, 9, 1))
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	rev, err := dc.YearFraction(d(2024, 9, 1), d(2024, 3, 1))
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if abs(fwd+rev) > 1e-12 {
		t.Fatalf("YearFraction(d2,d1) = %v, want %v", rev, -fwd)
	}
}

func TestYearFractionEqualDatesIsZero(t *testing.T) {
	t.Parallel()
	dc := DayCounter{Numerator: Actual{}, Denominator: Const{D: 360}}
	yf, err := dc.YearFraction(d(2024, 5, 5), d(2024, 5, 5))
	if err != nil {
		t.Fatalf("YearFraction: %v", err)
	}
	if yf != 0 {
		t.Fatalf("equal dates should yield 0, got %v", yf)
	}
}

func TestThirtyE360BothMonthEnds(t *testing.T) {
	t.Parallel()
	n := Thirty30{Adjustment: ThirtyE360}
	got := n.Days(d(2024, 1, 31), d(2024, 3, 31))
	if got != 60 {
		t.Fatalf("30E/360 Jan31-Mar31 = %v, want 60", got)
	}
}

func TestThirty360USFebruaryRollForward(t *testing.T) {
	t.Parallel()
	n := Thirty30{Adjustment: Thirty360US}
	// Start on Feb last day of a non-leap year (Feb 28, 2023) rolls to
	// day 30; end on Mar 31 then also rolls to day 30 since start rolled.
	got := n.Days(d(2023, 2, 28), d(2023, 3, 31))
	if got != 30 {
		t.Fatalf("30/360 US Feb28-Mar31 2023 = %v, want 30", got)
	}
}

func TestISDAActualActualCrossesYearBoundary(t *testing.T) {
	t.Parallel()
	den := ISDAActualActual{}
	yf, err := den.YearFraction(Actual{}, d(2023, 12, 1), d(2024, 2, 1))
	if err != nil {
		t.Fatalf("YearFraction: %v", err)
	}
	want := 31.0/365 + 31.0/366
	if abs(yf-want) > 1e-9 {
		t.Fatalf("ISDA Act/Act Dec1'23-Feb1'24 = %v, want %v", yf, want)
	}
}

func TestNewICMAActualActualRejectsIrregularFrequency(t *testing.T) {
	t.Parallel()
	if _, err := NewICMAActualActual(nil, 5); err == nil {
		t.Fatalf("expected error for freqMonths=5 (does not divide 12)")
	}
}

func TestICMAActualActualWithinOnePeriod(t *testing.T) {
	t.Parallel()
	periods := []PeriodBound{
		{Start: d(2024, 1, 1), End: d(2024, 7, 1), RegularStart: d(2024, 1, 1), RegularEnd: d(2024, 7, 1)},
	}
	den, err := NewICMAActualActual(periods, 6)
	if err != nil {
		t.Fatalf("NewICMAActualActual: %v", err)
	}
	yf, err := den.YearFraction(Actual{}, d(2024, 1, 1), d(2024, 4, 1))
	if err != nil {
		t.Fatalf("YearFraction: %v", err)
	}
	// 91 of 182 days into a semiannual (freq 0.5yr) period: half the
	// period, times the period's own 0.5yr length.
	want := (91.0 / 182) * 0.5
	if abs(yf-want) > 1e-9 {
		t.Fatalf("ICMA Act/Act within-period = %v, want %v", yf, want)
	}
}

func TestICMAActualActualAdditivityAcrossPeriodBoundary(t *testing.T) {
	t.Parallel()
	periods := []PeriodBound{
		{Start: d(2023, 1, 15), End: d(2023, 7, 15), RegularStart: d(2023, 1, 15), RegularEnd: d(2023, 7, 15)},
		{Start: d(2023, 7, 15), End: d(2024, 1, 15), RegularStart: d(2023, 7, 15), RegularEnd: d(2024, 1, 15)},
	}
	den, err := NewICMAActualActual(periods, 6)
	if err != nil {
		t.Fatalf("NewICMAActualActual: %v", err)
	}

	first, err := den.YearFraction(Actual{}, d(2023, 1, 15), d(2023, 7, 15))
	if err != nil {
		t.Fatalf("YearFraction(first): %v", err)
	}
	second, err := den.YearFraction(Actual{}, d(2023, 7, 15), d(2024, 1, 15))
	if err != nil {
		t.Fatalf("YearFraction(second): %v", err)
	}
	whole, err := den.YearFraction(Actual{}, d(2023, 1, 15), d(2024, 1, 15))
	if err != nil {
		t.Fatalf("YearFraction(whole): %v", err)
	}

	// The exact boundary date (2023-07-15) must be attributed to the
	// second period when it closes the first span, not left dangling in
	// the first period and double-counted.
	if abs(first-0.5) > 1e-9 {
		t.Fatalf("first half-year = %v, want 0.5", first)
	}
	if abs(second-0.5) > 1e-9 {
		t.Fatalf("second half-year = %v, want 0.5", second)
	}
	if abs(whole-1.0) > 1e-9 {
		t.Fatalf("whole year = %v, want 1.0", whole)
	}
	if abs((first+second)-whole) > 1e-9 {
		t.Fatalf("additivity violated: %v + %v != %v", first, second, whole)
	}
}

func TestICMAActualActualOutsideScheduleErrors(t *testing.T) {
	t.Parallel()
	den, err := NewICMAActualActual([]PeriodBound{
		{Start: d(2024, 1, 1), End: d(2024, 7, 1), RegularStart: d(2024, 1, 1), RegularEnd: d(2024, 7, 1)},
	}, 6)
	if err != nil {
		t.Fatalf("NewICMAActualActual: %v", err)
	}
	if _, err := den.YearFraction(Actual{}, d(2025, 1, 1), d(2025, 4, 1)); err != ErrScheduleNotGiven {
		t.Fatalf("expected ErrScheduleNotGiven, got %v", err)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
