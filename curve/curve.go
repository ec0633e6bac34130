// Package curve implements discount-curve interpolation: the piecewise
// polynomial family (flat, linear, and the cubic/Akima/PCHIP splines)
// and Lagrange (barycentric) interpolation, generalizing the single
// log-linear interpolateDF of swap/curve/curve.go into a full
// interpolation-method family. Curve bootstrapping and calibration
// from market quotes are out of scope; a Curve here is always
// constructed from already-known pillar discount factors.
package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/ratecore/daycount"
)

// Curve is the capability every curve variant implements. Curves are
// shared, immutable once constructed: callers pass around the same
// *PiecewisePolynomialCurve (or other Curve implementation) pointer,
// and pointer identity is the cache key the rateindex package's
// discount-factor cache relies on.
type Curve interface {
	Discount(d time.Time) (float64, error)
	ReferenceDate() time.Time
	DayCounter() daycount.DayCounter
	ZeroRate(d time.Time) (float64, error)
}

// ZeroRateOf implements InterestRateCurve.zero_rate(d) = -ln(discount(d))/tau(ref,d)
// in terms of any Curve's Discount method. Curve implementations embed
// this via the standalone ZeroRateOf helper rather than duplicating the
// formula.
func ZeroRateOf(c Curve, d time.Time) (float64, error) {
	df, err := c.Discount(d)
	if err != nil {
		return 0, err
	}
	tau, err := c.DayCounter().YearFraction(c.ReferenceDate(), d)
	if err != nil {
		return 0, err
	}
	if tau == 0 {
		return 0, nil
	}
	return -math.Log(df) / tau, nil
}

// Method selects the interpolation scheme a PiecewisePolynomialCurve
// uses between pillars.
type Method int

const (
	ForwardFlat Method = iota
	BackwardFlat
	Linear
	NaturalCubic
	FinancialCubic // clamped with zero first derivative at both ends
	ClampedCubic
	NotAKnotCubic
	AkimaCubic
	ModifiedAkimaCubic
	PiecewiseCubicHermite
)

// segment is a cubic polynomial in Horner form over [x_i, x_{i+1}):
// f(x) = a + b*h + c*h^2 + d*h^3, h = x - x_i.
type segment struct {
	a, b, c, d float64
}

func (s segment) eval(h float64) float64 {
	return s.a + h*(s.b+h*(s.c+h*s.d))
}

func (s segment) derivative(h float64) float64 {
	return s.b + h*(2*s.c+3*s.d*h)
}

func (s segment) integral(h float64) float64 {
	return h * (s.a + h*(s.b/2+h*(s.c/3+h*s.d/4)))
}

// PiecewisePolynomialCurve interpolates log-discount-factor as a
// function of year-fraction-from-reference-date, over a fixed set of
// pillar dates and discount factors.
type PiecewisePolynomialCurve struct {
	reference  time.Time
	dayCounter daycount.DayCounter
	method     Method

	pillarDates  []time.Time
	pillarTaus   []float64
	pillarLogDFs []float64
	segments     []segment // len == len(pillarTaus)-1
}

// NewPiecewisePolynomialCurve builds a curve from pillar dates and
// their discount factors (dfs[i] corresponds to dates[i]). dates must
// be strictly increasing and include the reference date's discount
// factor of 1.0 if the reference date itself is meant to be a pillar.
func NewPiecewisePolynomialCurve(reference time.Time, dc daycount.DayCounter, dates []time.Time, dfs []float64, method Method) (*PiecewisePolynomialCurve, error) {
	if len(dates) != len(dfs) {
		return nil, fmt.Errorf("curve: %d dates but %d discount factors", len(dates), len(dfs))
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("curve: need at least 2 pillars, got %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("curve: pillar dates must be strictly increasing at index %d", i)
		}
	}

	c := &PiecewisePolynomialCurve{
		reference:    reference,
		dayCounter:   dc,
		method:       method,
		pillarDates:  dates,
		pillarTaus:   make([]float64, len(dates)),
		pillarLogDFs: make([]float64, len(dates)),
	}
	for i, d := range dates {
		tau, err := dc.YearFraction(reference, d)
		if err != nil {
			return nil, err
		}
		if dfs[i] <= 0 {
			return nil, fmt.Errorf("curve: discount factor at pillar %d must be positive, got %v", i, dfs[i])
		}
		c.pillarTaus[i] = tau
		c.pillarLogDFs[i] = math.Log(dfs[i])
	}

	segs, err := buildSegments(c.pillarTaus, c.pillarLogDFs, method)
	if err != nil {
		return nil, err
	}
	c.segments = segs
	return c, nil
}

func (c *PiecewisePolynomialCurve) ReferenceDate() time.Time       { return c.reference }
func (c *PiecewisePolynomialCurve) DayCounter() daycount.DayCounter { return c.dayCounter }

func (c *PiecewisePolynomialCurve) ZeroRate(d time.Time) (float64, error) {
	return ZeroRateOf(c, d)
}

// Discount returns exp(logDF(tau)) for tau = dayCounter.YearFraction(reference, d).
func (c *PiecewisePolynomialCurve) Discount(d time.Time) (float64, error) {
	tau, err := c.dayCounter.YearFraction(c.reference, d)
	if err != nil {
		return 0, err
	}
	logDF, err := c.logDiscount(tau)
	if err != nil {
		return 0, err
	}
	return math.Exp(logDF), nil
}

func (c *PiecewisePolynomialCurve) logDiscount(tau float64) (float64, error) {
	n := len(c.pillarTaus)
	idx := sort.Search(n, func(i int) bool { return c.pillarTaus[i] >= tau })

	switch c.method {
	case ForwardFlat:
		// Flat-forward extrapolation/interpolation: hold the forward
		// rate of the segment to the LEFT of tau constant.
		if idx == 0 {
			idx = 1
		}
		if idx >= n {
			idx = n - 1
		}
		seg := c.segments[idx-1]
		return seg.a + (tau-c.pillarTaus[idx-1])*seg.b, nil

	case BackwardFlat:
		if idx == 0 {
			idx = 1
		}
		if idx >= n {
			idx = n - 1
		}
		seg := c.segments[idx-1]
		rightLogDF := c.pillarLogDFs[idx]
		slope := seg.b
		return rightLogDF + (tau-c.pillarTaus[idx])*slope, nil

	default:
		if idx == 0 {
			idx = 1
		}
		if idx >= n {
			idx = n - 1
		}
		seg := c.segments[idx-1]
		return seg.eval(tau - c.pillarTaus[idx-1]), nil
	}
}

// Derivative returns d(logDF)/d(tau) at tau, the (continuously
// compounded) instantaneous forward rate's negative.
func (c *PiecewisePolynomialCurve) Derivative(d time.Time) (float64, error) {
	tau, err := c.dayCounter.YearFraction(c.reference, d)
	if err != nil {
		return 0, err
	}
	n := len(c.pillarTaus)
	idx := sort.Search(n, func(i int) bool { return c.pillarTaus[i] >= tau })
	if idx == 0 {
		idx = 1
	}
	if idx >= n {
		idx = n - 1
	}
	seg := c.segments[idx-1]
	return seg.derivative(tau - c.pillarTaus[idx-1]), nil
}

// Integral returns the definite integral of logDF over [reference, d],
// summed on each call from the Horner-form segment antiderivatives;
// past the last pillar the integral stops at the last pillar.
func (c *PiecewisePolynomialCurve) Integral(d time.Time) (float64, error) {
	tau, err := c.dayCounter.YearFraction(c.reference, d)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for i := 0; i < len(c.segments); i++ {
		segStart, segEnd := c.pillarTaus[i], c.pillarTaus[i+1]
		if tau <= segStart {
			break
		}
		upper := math.Min(tau, segEnd)
		total += c.segments[i].integral(upper - segStart)
	}
	return total, nil
}
