package curve

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/ratecore/daycount"
)

func actual365() daycount.DayCounter {
	return daycount.DayCounter{Numerator: daycount.Actual{}, Denominator: daycount.Const{D: 365}}
}

func TestPiecewiseLinearReproducesPillars(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{ref, ref.AddDate(1, 0, 0), ref.AddDate(2, 0, 0)}
	dfs := []float64{1, 0.97, 0.94}

	c, err := NewPiecewisePolynomialCurve(ref, actual365(), dates, dfs, Linear)
	if err != nil {
		t.Fatalf("NewPiecewisePolynomialCurve: %v", err)
	}
	for i, d := range dates {
		got, err := c.Discount(d)
		if err != nil {
			t.Fatalf("Discount(%s): %v", d.Format("2006-01-02"), err)
		}
		if math.Abs(got-dfs[i]) > 1e-9 {
			t.Fatalf("Discount at pillar %d = %v, want %v", i, got, dfs[i])
		}
	}
}

func TestPiecewiseLinearInterpolatesMidpoint(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{ref, ref.AddDate(2, 0, 0)}
	dfs := []float64{1, math.Exp(-0.1)}

	c, err := NewPiecewisePolynomialCurve(ref, actual365(), dates, dfs, Linear)
	if err != nil {
		t.Fatalf("NewPiecewisePolynomialCurve: %v", err)
	}
	mid := ref.AddDate(1, 0, 0)
	got, err := c.Discount(mid)
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	// Linear interpolation is on log-DF against year fraction, so the
	// log-DF at mid is -0.1 scaled by tau(mid)/tau(far). 2024 is a leap
	// year, so mid is not the exact year-fraction midpoint.
	dc := actual365()
	tauMid, _ := dc.YearFraction(ref, mid)
	tauFar, _ := dc.YearFraction(ref, dates[1])
	want := math.Exp(-0.1 * tauMid / tauFar)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("Discount at midpoint = %v, want %v", got, want)
	}
}

func TestNewPiecewisePolynomialCurveRejectsNonIncreasingDates(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{ref, ref}
	dfs := []float64{1, 0.99}
	if _, err := NewPiecewisePolynomialCurve(ref, actual365(), dates, dfs, Linear); err == nil {
		t.Fatalf("expected error for non-increasing pillar dates")
	}
}

func TestZeroRateOfFlatCurve(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rate := 0.03
	far := ref.AddDate(5, 0, 0)
	dc := actual365()
	tau, _ := dc.YearFraction(ref, far)
	dfs := []float64{1, math.Exp(-rate * tau)}

	c, err := NewPiecewisePolynomialCurve(ref, dc, []time.Time{ref, far}, dfs, Linear)
	if err != nil {
		t.Fatalf("NewPiecewisePolynomialCurve: %v", err)
	}
	got, err := c.ZeroRate(far)
	if err != nil {
		t.Fatalf("ZeroRate: %v", err)
	}
	if math.Abs(got-rate) > 1e-9 {
		t.Fatalf("ZeroRate = %v, want %v", got, rate)
	}
}

func TestLagrangeCurveReproducesPillars(t *testing.T) {
	t.Parallel()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{ref, ref.AddDate(1, 0, 0), ref.AddDate(2, 0, 0), ref.AddDate(3, 0, 0)}
	dfs := []float64{1, 0.97, 0.93, 0.88}

	c, err := NewLagrangeCurve(ref, actual365(), dates, dfs)
	if err != nil {
		t.Fatalf("NewLagrangeCurve: %v", err)
	}
	for i, d := range dates {
		got, err := c.Discount(d)
		if err != nil {
			t.Fatalf("Discount(%s): %v", d.Format("2006-01-02"), err)
		}
		if math.Abs(got-dfs[i]) > 1e-9 {
			t.Fatalf("Discount at pillar %d = %v, want %v", i, got, dfs[i])
		}
	}
}
