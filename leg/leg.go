// Package leg implements leg characters (fixed and floating) and
// fixing-rate calculators, generalizing legPV from swap/common.go
// (`base := forwardRate(...); rate := base + spread; payment :=
// notional*accrual*rate`) into a precomputed-flow-values (fixed) vs.
// per-call-fixing-rate (floating) split.
package leg

import (
	"time"

	"github.com/meenmo/ratecore/compounding"
	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/pricing"
	"github.com/meenmo/ratecore/schedule"
)

// GenericLegCharacters is the shared shape both fixed and floating leg
// characters embed: a compounding convention, a day counter, and the
// schedule the leg accrues over.
type GenericLegCharacters struct {
	Compounding compounding.Convention
	DayCounter  daycount.DayCounter
	Schedule    *schedule.Schedule
}

// Maturity is the payment date of the last scheduled period.
func (g GenericLegCharacters) Maturity() time.Time {
	periods := g.Schedule.Periods
	return periods[len(periods)-1].PaymentDate
}

func (g GenericLegCharacters) periodTau(i int) (float64, error) {
	p := g.Schedule.Periods[i].Period
	return g.DayCounter.YearFraction(p.Start, p.End)
}

// PaymentDate is the payment date of period i.
func (g GenericLegCharacters) PaymentDate(i int) time.Time {
	return g.Schedule.Periods[i].PaymentDate
}

// PeriodCount is the number of scheduled periods.
func (g GenericLegCharacters) PeriodCount() int {
	return len(g.Schedule.Periods)
}

// FixedRateLegCharacters precomputes each period's flow value at
// construction, independent of any curve.
type FixedRateLegCharacters struct {
	GenericLegCharacters
	FixedRate  float64
	flowValues []float64
}

// NewFixedRateLegCharacters precomputes flow_values[i] =
// compounding.future_value(fixed_rate, tau_i) - 1.
func NewFixedRateLegCharacters(generic GenericLegCharacters, fixedRate float64) (*FixedRateLegCharacters, error) {
	f := &FixedRateLegCharacters{
		GenericLegCharacters: generic,
		FixedRate:            fixedRate,
		flowValues:           make([]float64, len(generic.Schedule.Periods)),
	}
	for i := range generic.Schedule.Periods {
		tau, err := f.periodTau(i)
		if err != nil {
			return nil, err
		}
		f.flowValues[i] = f.Compounding.FutureValue(fixedRate, tau) - 1
	}
	return f, nil
}

// EvaluateFlow returns flow_values[i], independent of curves.
func (f *FixedRateLegCharacters) EvaluateFlow(i int, _ curve.Curve, _ pricing.Condition) (float64, error) {
	return f.flowValues[i], nil
}

// FixingRateCalculator supplies the per-period rate r_i a
// FloatingRateLegCharacters compounds into a flow.
type FixingRateCalculator interface {
	Fixing(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error)
	// RelativeDates reports the DF dates evaluating period i may
	// touch, so a precomputed discount curve can warm its cache.
	RelativeDates(i int) []time.Time
}

// FloatingRateLegCharacters precomputes each period's year fraction and
// delegates the rate to a FixingRateCalculator.
type FloatingRateLegCharacters struct {
	GenericLegCharacters
	Leverage   float64
	Spread     float64
	Calculator FixingRateCalculator
	taus       []float64
}

// NewFloatingRateLegCharacters precomputes each period's tau.
func NewFloatingRateLegCharacters(generic GenericLegCharacters, leverage, spread float64, calc FixingRateCalculator) (*FloatingRateLegCharacters, error) {
	f := &FloatingRateLegCharacters{
		GenericLegCharacters: generic,
		Leverage:             leverage,
		Spread:               spread,
		Calculator:           calc,
		taus:                 make([]float64, len(generic.Schedule.Periods)),
	}
	for i := range generic.Schedule.Periods {
		tau, err := f.periodTau(i)
		if err != nil {
			return nil, err
		}
		f.taus[i] = tau
	}
	return f, nil
}

// EvaluateFlow returns
// compounding.future_value(leverage*r_i + spread, tau_i) - 1.
func (f *FloatingRateLegCharacters) EvaluateFlow(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	r, err := f.Calculator.Fixing(i, forwardCurve, cond)
	if err != nil {
		return 0, err
	}
	rate := f.Leverage*r + f.Spread
	return f.Compounding.FutureValue(rate, f.taus[i]) - 1, nil
}
