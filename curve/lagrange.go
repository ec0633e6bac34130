package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/ratecore/daycount"
)

// LagrangeCurve interpolates log-discount-factor via barycentric
// Lagrange interpolation over the full pillar set (as opposed to the
// piecewise local fits PiecewisePolynomialCurve builds). Barycentric
// weights are precomputed once at construction so each Discount call
// is O(n) rather than the O(n^2) naive Lagrange formula.
type LagrangeCurve struct {
	reference  time.Time
	dayCounter daycount.DayCounter
	taus       []float64
	logDFs     []float64
	weights    []float64
}

// NewLagrangeCurve builds the barycentric weights for the classic
// (second-form) Lagrange formula: w_i = 1 / prod_{j != i} (x_i - x_j).
func NewLagrangeCurve(reference time.Time, dc daycount.DayCounter, dates []time.Time, dfs []float64) (*LagrangeCurve, error) {
	if len(dates) != len(dfs) {
		return nil, fmt.Errorf("curve: %d dates but %d discount factors", len(dates), len(dfs))
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("curve: need at least 2 pillars, got %d", len(dates))
	}

	c := &LagrangeCurve{
		reference:  reference,
		dayCounter: dc,
		taus:       make([]float64, len(dates)),
		logDFs:     make([]float64, len(dates)),
		weights:    make([]float64, len(dates)),
	}
	for i, d := range dates {
		tau, err := dc.YearFraction(reference, d)
		if err != nil {
			return nil, err
		}
		if dfs[i] <= 0 {
			return nil, fmt.Errorf("curve: discount factor at pillar %d must be positive, got %v", i, dfs[i])
		}
		c.taus[i] = tau
		c.logDFs[i] = math.Log(dfs[i])
	}
	n := len(c.taus)
	for i := 0; i < n; i++ {
		w := 1.0
		for j := 0; j < n; j++ {
			if i != j {
				w *= c.taus[i] - c.taus[j]
			}
		}
		c.weights[i] = 1 / w
	}
	return c, nil
}

func (c *LagrangeCurve) ReferenceDate() time.Time        { return c.reference }
func (c *LagrangeCurve) DayCounter() daycount.DayCounter { return c.dayCounter }

func (c *LagrangeCurve) ZeroRate(d time.Time) (float64, error) {
	return ZeroRateOf(c, d)
}

func (c *LagrangeCurve) Discount(d time.Time) (float64, error) {
	tau, err := c.dayCounter.YearFraction(c.reference, d)
	if err != nil {
		return 0, err
	}

	num, den := 0.0, 0.0
	for i, xi := range c.taus {
		if tau == xi {
			return math.Exp(c.logDFs[i]), nil
		}
		term := c.weights[i] / (tau - xi)
		num += term * c.logDFs[i]
		den += term
	}
	return math.Exp(num / den), nil
}
