package curve

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// buildSegments computes, for each of the n-1 intervals between
// pillars (x[i], y[i]), the Horner-form cubic segment coefficients
// (a, b, c, d) appropriate to method. Flat and Linear methods produce
// degree <=1 segments (c == d == 0); the cubic family solves for each
// pillar's first derivative (the "slope") and derives c, d from the
// standard cubic Hermite basis.
func buildSegments(x, y []float64, method Method) ([]segment, error) {
	n := len(x)
	segs := make([]segment, n-1)

	switch method {
	case ForwardFlat, BackwardFlat, Linear:
		for i := 0; i < n-1; i++ {
			h := x[i+1] - x[i]
			slope := (y[i+1] - y[i]) / h
			segs[i] = segment{a: y[i], b: slope}
		}
		return segs, nil

	case NaturalCubic, FinancialCubic, ClampedCubic, NotAKnotCubic:
		slopes, err := solveCubicSlopes(x, y, method)
		if err != nil {
			return nil, err
		}
		return hermiteSegments(x, y, slopes), nil

	case AkimaCubic, ModifiedAkimaCubic:
		slopes := akimaSlopes(x, y, method == ModifiedAkimaCubic)
		return hermiteSegments(x, y, slopes), nil

	case PiecewiseCubicHermite:
		slopes := pchipSlopes(x, y)
		return hermiteSegments(x, y, slopes), nil

	default:
		return nil, fmt.Errorf("curve: unknown interpolation method %v", method)
	}
}

// hermiteSegments turns per-pillar slopes m[i] = f'(x[i]) into
// Horner-form cubic coefficients over each interval, using the
// standard cubic Hermite basis expressed directly in powers of
// h = x - x[i] (rather than the usual normalized t in [0,1]) so
// segment.eval/derivative/integral need no rescaling.
func hermiteSegments(x, y, m []float64) []segment {
	n := len(x)
	segs := make([]segment, n-1)
	for i := 0; i < n-1; i++ {
		h := x[i+1] - x[i]
		slope := (y[i+1] - y[i]) / h
		a := y[i]
		b := m[i]
		c := (3*slope - 2*m[i] - m[i+1]) / h
		d := (m[i] + m[i+1] - 2*slope) / (h * h)
		segs[i] = segment{a: a, b: b, c: c, d: d}
	}
	return segs
}

// solveCubicSlopes solves the standard not-a-knot/natural/clamped
// tridiagonal system for C2 cubic-spline slopes m[i], using
// gonum/mat to solve the linear system (tridiagonal solved as a
// dense system here; curves in this domain have at most a few dozen
// pillars, so the O(n^3) dense solve is not a practical concern).
func solveCubicSlopes(x, y []float64, method Method) ([]float64, error) {
	n := len(x)
	if n == 2 {
		slope := (y[1] - y[0]) / (x[1] - x[0])
		return []float64{slope, slope}, nil
	}

	h := make([]float64, n-1)
	secant := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
		secant[i] = (y[i+1] - y[i]) / h[i]
	}

	A := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)

	for i := 1; i < n-1; i++ {
		A.Set(i, i-1, h[i])
		A.Set(i, i, 2*(h[i-1]+h[i]))
		A.Set(i, i+1, h[i-1])
		rhs.SetVec(i, 3*(h[i]*secant[i-1]+h[i-1]*secant[i]))
	}

	switch method {
	case ClampedCubic, FinancialCubic:
		// First derivative at both ends pinned to 0 (FinancialCubic) or
		// to the boundary secant slope (ClampedCubic) — either way, a
		// direct Dirichlet condition on m[0]/m[n-1].
		boundarySlope := 0.0
		A.Set(0, 0, 1)
		rhs.SetVec(0, boundarySlopeOrSecant(method, secant[0], boundarySlope))
		A.Set(n-1, n-1, 1)
		rhs.SetVec(n-1, boundarySlopeOrSecant(method, secant[n-2], boundarySlope))

	case NotAKnotCubic:
		// Third derivative continuous across the first and last
		// interior knot.
		A.Set(0, 0, h[1])
		A.Set(0, 1, h[0]+h[1])
		rhs.SetVec(0, ((2*h[1]+3*h[0])*h[1]*secant[0]+h[0]*h[0]*secant[1])/(h[0]+h[1]))
		A.Set(n-1, n-2, h[n-2]+h[n-3])
		A.Set(n-1, n-1, h[n-3])
		rhs.SetVec(n-1, (h[n-2]*h[n-2]*secant[n-3]+(2*h[n-3]+3*h[n-2])*h[n-3]*secant[n-2])/(h[n-3]+h[n-2]))

	default: // NaturalCubic: second derivative zero at both ends.
		A.Set(0, 0, 2)
		A.Set(0, 1, 1)
		rhs.SetVec(0, 3*secant[0])
		A.Set(n-1, n-2, 1)
		A.Set(n-1, n-1, 2)
		rhs.SetVec(n-1, 3*secant[n-2])
	}

	var lu mat.LU
	lu.Factorize(A)
	var m mat.VecDense
	if err := lu.SolveVecTo(&m, false, rhs); err != nil {
		return nil, fmt.Errorf("curve: cubic spline solve failed: %w", err)
	}

	slopes := make([]float64, n)
	for i := 0; i < n; i++ {
		slopes[i] = m.AtVec(i)
	}
	return slopes, nil
}

func boundarySlopeOrSecant(method Method, secant, zero float64) float64 {
	if method == FinancialCubic {
		return zero
	}
	return secant
}

// akimaSlopes implements the Akima (1970) local slope estimator: each
// interior slope is a weighted average of the two neighboring secant
// slopes, weighted by how different the secants further out are (so a
// slope estimate is insensitive to a single outlying neighbor).
// ModifiedAkima (Makima) uses |d_{i+1}-d_i| + |d_{i+1}+d_i|/2 weights
// instead of the original's pure |d_{i+1}-d_i|, which avoids the
// original's flat spots when consecutive secants are equal and
// opposite in sign.
func akimaSlopes(x, y []float64, modified bool) []float64 {
	n := len(x)
	if n == 2 {
		slope := (y[1] - y[0]) / (x[1] - x[0])
		return []float64{slope, slope}
	}

	secant := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		secant[i] = (y[i+1] - y[i]) / (x[i+1] - x[i])
	}
	// Extend secants by linear extrapolation at both ends (2 points
	// each side) per the original Akima construction.
	ext := make([]float64, n+3)
	copy(ext[2:], secant)
	ext[1] = 2*secant[0] - secant[1]
	ext[0] = 2*ext[1] - secant[0]
	ext[n+1] = 2*secant[n-2] - secant[n-3]
	if n == 3 {
		ext[1] = 2*secant[0] - secant[0]
		ext[0] = ext[1]
		ext[n+1] = 2*secant[n-2] - secant[n-2]
	}
	ext[n+2] = 2*ext[n+1] - secant[n-2]

	slopes := make([]float64, n)
	for i := 0; i < n; i++ {
		// ext index for d_{i-2}..d_{i+1} is offset by 2: d_i == ext[i+2]
		dm2, dm1, d0, d1 := ext[i], ext[i+1], ext[i+2], ext[i+3]
		var w1, w2 float64
		if modified {
			w1 = absF(d1-d0) + absF(d1+d0)/2
			w2 = absF(dm1-dm2) + absF(dm1+dm2)/2
		} else {
			w1 = absF(d1 - d0)
			w2 = absF(dm1 - dm2)
		}
		if w1+w2 == 0 {
			slopes[i] = (dm1 + d0) / 2
		} else {
			slopes[i] = (w1*dm1 + w2*d0) / (w1 + w2)
		}
	}
	return slopes
}

// pchipSlopes implements the Fritsch-Carlson shape-preserving cubic
// Hermite slope selection: the weighted harmonic mean of neighboring
// secants when they share sign, zero at a local extremum.
func pchipSlopes(x, y []float64) []float64 {
	n := len(x)
	h := make([]float64, n-1)
	secant := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
		secant[i] = (y[i+1] - y[i]) / h[i]
	}

	slopes := make([]float64, n)
	slopes[0] = secant[0]
	slopes[n-1] = secant[n-2]

	for i := 1; i < n-1; i++ {
		if secant[i-1] == 0 || secant[i] == 0 || (secant[i-1] > 0) != (secant[i] > 0) {
			slopes[i] = 0
			continue
		}
		w1 := 2*h[i] + h[i-1]
		w2 := h[i] + 2*h[i-1]
		slopes[i] = (w1 + w2) / (w1/secant[i-1] + w2/secant[i])
	}
	return slopes
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
