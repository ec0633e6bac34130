// Package instrument composes leg characters into priceable
// instruments: FlowObserver (one leg period's projected cash amount),
// CapitalizationFlow (a principal exchange), SimpleInstrument (two
// legs plus capitalization flows), CashFlows (a dated multiset), and
// NPV (a currency-tagged, settlement-dated present value),
// generalizing the legPV/NPV loop of swap/common.go, which folds
// sign, accrual, projection, and principal exchange into one
// function, into named, independently testable stages.
package instrument

import (
	"errors"
	"time"

	"github.com/meenmo/ratecore/curve"
	"github.com/meenmo/ratecore/pricing"
)

// LegCharacters is the contract instrument needs from either leg
// variant in the leg package: per-period flow evaluation, payment
// dates, and period count.
type LegCharacters interface {
	EvaluateFlow(i int, forwardCurve curve.Curve, cond pricing.Condition) (float64, error)
	PaymentDate(i int) time.Time
	PeriodCount() int
}

// FlowObserver is one leg period, scaled by a nominal.
type FlowObserver struct {
	Leg         LegCharacters
	Nominal     float64
	PeriodIndex int
}

// PaymentDate is the underlying period's payment date.
func (f FlowObserver) PaymentDate() time.Time {
	return f.Leg.PaymentDate(f.PeriodIndex)
}

// ProjectedFlow is leg.EvaluateFlow(period_index) * nominal, rounded
// per cond.Rounding when DeterministicFlow is set.
func (f FlowObserver) ProjectedFlow(forwardCurve curve.Curve, cond pricing.Condition) (float64, error) {
	flow, err := f.Leg.EvaluateFlow(f.PeriodIndex, forwardCurve, cond)
	if err != nil {
		return 0, err
	}
	amount := flow * f.Nominal
	if cond.Rounding.DeterministicFlow {
		amount = cond.Rounding.Round(amount)
	}
	return amount, nil
}

// PayReceive tags which side of an instrument a capitalization flow
// belongs to.
type PayReceive int

const (
	Pay PayReceive = iota
	Receive
)

// CapitalizationFlow is a principal exchange: the initial/final
// notional legs legPV folds into the same loop as coupons
// (`spec.IncludeInitialPrincipal`/`IncludeFinalPrincipal`), pulled out
// here as its own dated amount.
type CapitalizationFlow struct {
	Amount      float64
	PaymentDate time.Time
	Leg         PayReceive
}

// Position is the instrument-level sign: Buy values the instrument as
// quoted, Sell flips every flow.
type Position int

const (
	Buy Position = iota
	Sell
)

// Sign returns +1 for Buy, -1 for Sell.
func (p Position) Sign() float64 {
	if p == Sell {
		return -1
	}
	return 1
}

// SettlementMarket is the currency and settlement date an instrument's
// NPV is expressed in.
type SettlementMarket struct {
	Currency       string
	SettlementDate time.Time
}

// SimpleInstrument is a two-leg (pay/receive) instrument with optional
// principal exchanges, generalizing legPV's single-leg valuation loop
// into a position built from both legs at once.
type SimpleInstrument struct {
	Position            Position
	Nominal             float64
	PayLeg              LegCharacters
	ReceiveLeg          LegCharacters
	Settlement          SettlementMarket
	CapitalizationFlows []CapitalizationFlow

	payObservers     []FlowObserver
	receiveObservers []FlowObserver
}

// NewSimpleInstrument builds one FlowObserver per period of each leg.
func NewSimpleInstrument(position Position, nominal float64, payLeg, receiveLeg LegCharacters, settlement SettlementMarket, capFlows []CapitalizationFlow) *SimpleInstrument {
	inst := &SimpleInstrument{
		Position:            position,
		Nominal:             nominal,
		PayLeg:              payLeg,
		ReceiveLeg:          receiveLeg,
		Settlement:          settlement,
		CapitalizationFlows: capFlows,
	}
	if payLeg != nil {
		inst.payObservers = make([]FlowObserver, payLeg.PeriodCount())
		for i := range inst.payObservers {
			inst.payObservers[i] = FlowObserver{Leg: payLeg, Nominal: nominal, PeriodIndex: i}
		}
	}
	if receiveLeg != nil {
		inst.receiveObservers = make([]FlowObserver, receiveLeg.PeriodCount())
		for i := range inst.receiveObservers {
			inst.receiveObservers[i] = FlowObserver{Leg: receiveLeg, Nominal: nominal, PeriodIndex: i}
		}
	}
	return inst
}

// paymentBucket reports whether a payment on date belongs to the past
// bucket, and whether it should be included at all (an exact match on
// cond.Horizon is gated by cond.IncludeHorizonFlow).
func paymentBucket(date time.Time, cond pricing.Condition) (isPast, include bool) {
	if date.Equal(cond.Horizon) {
		return true, cond.IncludeHorizonFlow
	}
	return date.Before(cond.Horizon), true
}

func (inst *SimpleInstrument) legFlows(observers []FlowObserver, forwardCurve curve.Curve, cond pricing.Condition, wantPast bool, legSign float64) (*CashFlows, error) {
	flows := NewCashFlows()
	sign := inst.Position.Sign() * legSign
	for _, obs := range observers {
		paymentDate := obs.PaymentDate()
		isPast, include := paymentBucket(paymentDate, cond)
		if !include || isPast != wantPast {
			continue
		}
		amount, err := obs.ProjectedFlow(forwardCurve, cond)
		if err != nil {
			return nil, err
		}
		flows.Add(paymentDate, sign*amount)
	}
	for _, cf := range inst.CapitalizationFlows {
		if cf.Leg != legToPayReceive(legSign) {
			continue
		}
		isPast, include := paymentBucket(cf.PaymentDate, cond)
		if !include || isPast != wantPast {
			continue
		}
		flows.Add(cf.PaymentDate, sign*cf.Amount)
	}
	return flows, nil
}

func legToPayReceive(legSign float64) PayReceive {
	if legSign < 0 {
		return Pay
	}
	return Receive
}

// PastPayFlows returns every pay-side flow already fixed as of
// cond.Horizon. forwardCurve is never consulted for past flows.
func (inst *SimpleInstrument) PastPayFlows(cond pricing.Condition) (*CashFlows, error) {
	return inst.legFlows(inst.payObservers, nil, cond, true, -1)
}

// PastReceiveFlows returns every receive-side flow already fixed as
// of cond.Horizon.
func (inst *SimpleInstrument) PastReceiveFlows(cond pricing.Condition) (*CashFlows, error) {
	return inst.legFlows(inst.receiveObservers, nil, cond, true, 1)
}

// ProjectedPayFlows returns every pay-side flow still to be projected
// off forwardCurve.
func (inst *SimpleInstrument) ProjectedPayFlows(forwardCurve curve.Curve, cond pricing.Condition) (*CashFlows, error) {
	return inst.legFlows(inst.payObservers, forwardCurve, cond, false, -1)
}

// ProjectedReceiveFlows returns every receive-side flow still to be
// projected off forwardCurve.
func (inst *SimpleInstrument) ProjectedReceiveFlows(forwardCurve curve.Curve, cond pricing.Condition) (*CashFlows, error) {
	return inst.legFlows(inst.receiveObservers, forwardCurve, cond, false, 1)
}

// CashFlows is a dated multiset of amounts, several of which may share
// a payment date (e.g. a coupon and a principal repayment on the same
// day), summed on Add.
type CashFlows struct {
	ByDate map[time.Time]float64
}

// NewCashFlows constructs an empty set.
func NewCashFlows() *CashFlows {
	return &CashFlows{ByDate: make(map[time.Time]float64)}
}

// Add accumulates amount onto date.
func (c *CashFlows) Add(date time.Time, amount float64) {
	c.ByDate[date] += amount
}

// Combine returns a new set holding the date-wise sum of c and other.
func (c *CashFlows) Combine(other *CashFlows) *CashFlows {
	out := NewCashFlows()
	for d, a := range c.ByDate {
		out.Add(d, a)
	}
	for d, a := range other.ByDate {
		out.Add(d, a)
	}
	return out
}

// Negate returns a new set with every amount sign-flipped.
func (c *CashFlows) Negate() *CashFlows {
	return c.Scale(-1)
}

// Scale returns a new set with every amount multiplied by factor.
func (c *CashFlows) Scale(factor float64) *CashFlows {
	out := NewCashFlows()
	for d, a := range c.ByDate {
		out.ByDate[d] = a * factor
	}
	return out
}

// Subtract returns c combined with other's negation.
func (c *CashFlows) Subtract(other *CashFlows) *CashFlows {
	return c.Combine(other.Negate())
}

// ErrCurrencyMismatch/ErrSettlementMismatch guard NPV arithmetic:
// adding two present values only makes sense when both are expressed
// in the same currency as of the same settlement date.
var (
	ErrCurrencyMismatch   = errors.New("instrument: NPV currency mismatch")
	ErrSettlementMismatch = errors.New("instrument: NPV settlement date mismatch")
)

// NPV is a present value tagged with the currency and settlement date
// it was computed in.
type NPV struct {
	Currency       string
	Amount         float64
	SettlementDate time.Time
}

// Add sums two NPVs, requiring matching currency and settlement date.
func (n NPV) Add(other NPV) (NPV, error) {
	if n.Currency != other.Currency {
		return NPV{}, ErrCurrencyMismatch
	}
	if !n.SettlementDate.Equal(other.SettlementDate) {
		return NPV{}, ErrSettlementMismatch
	}
	return NPV{Currency: n.Currency, Amount: n.Amount + other.Amount, SettlementDate: n.SettlementDate}, nil
}

// ValueCashFlows discounts every dated amount in cf back to
// settlementDate using disc, generalizing legPV's
// `totalPV += sign*payment*discCurve.DF(p.PayDate)` accumulation into
// a standalone, leg-agnostic reduction over an already-built CashFlows
// set.
func ValueCashFlows(cf *CashFlows, disc curve.Curve, currency string, settlementDate time.Time) (NPV, error) {
	dfSettlement, err := disc.Discount(settlementDate)
	if err != nil {
		return NPV{}, err
	}
	total := 0.0
	for date, amount := range cf.ByDate {
		df, err := disc.Discount(date)
		if err != nil {
			return NPV{}, err
		}
		total += amount * df / dfSettlement
	}
	return NPV{Currency: currency, Amount: total, SettlementDate: settlementDate}, nil
}
