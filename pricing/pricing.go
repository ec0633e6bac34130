// Package pricing holds the PricingCondition predicate and rounding
// policy shared by the rateindex, leg, and instrument packages: a
// past/projected split generalized from the inline valuation-date
// comparison in swap/common.go (`if p.PayDate.Before(valuationDate) {
// continue }`).
package pricing

import (
	"math"
	"time"
)

// DecimalRounding rounds a monetary amount to a fixed number of
// decimal places, grounded on instruments/bonds/cashflow.go's
// minor-unit (cents) rounding.
type DecimalRounding struct {
	// Decimals is the number of digits kept after the decimal point
	// (2 for most currencies' minor units, 0 for JPY).
	Decimals int
	// DeterministicFlow, when true, rounds every flow at evaluation
	// time rather than only the aggregated total.
	DeterministicFlow bool
}

// Round applies the rounding to amount unconditionally (callers decide
// whether DeterministicFlow gates the call site).
func (r DecimalRounding) Round(amount float64) float64 {
	scale := math.Pow(10, float64(r.Decimals))
	return math.Round(amount*scale) / scale
}

// Condition splits dated events into past and projected: a dated event
// E is past iff E < horizon, or E == horizon and NOT EstimateHorizonIndex.
type Condition struct {
	Horizon time.Time
	// IncludeHorizonFlow controls whether a flow landing exactly on
	// Horizon is included in the valuation at all (separate from
	// whether it is past or projected).
	IncludeHorizonFlow bool
	// EstimateHorizonIndex controls whether an index fixing due exactly
	// on Horizon is treated as already observed (false) or still to be
	// projected (true).
	EstimateHorizonIndex bool
	Rounding             DecimalRounding
}

// IsPast reports whether event is on or before Horizon under the rule
// above.
func (c Condition) IsPast(event time.Time) bool {
	if event.Before(c.Horizon) {
		return true
	}
	return event.Equal(c.Horizon) && !c.EstimateHorizonIndex
}
