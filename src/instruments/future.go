package instruments

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/fx-valuation/src/daycount"
)

// ModelQuote is a modeled two-sided price, kept separate from the node's own
// market quote.
type ModelQuote struct {
	Bid    *float64
	Ask    *float64
	Mark   *float64
	Spread *float64
}

func (m ModelQuote) clone() ModelQuote {
	return ModelQuote{
		Bid:    clonePtr(m.Bid),
		Ask:    clonePtr(m.Ask),
		Mark:   clonePtr(m.Mark),
		Spread: clonePtr(m.Spread),
	}
}

// Future is a currency futures contract on a spot pair, priced off the
// classic forward relation F = S * exp((ccDomestic-ccForeign) * T).
//
// Forward and futures prices are treated as interchangeable over the tenors
// handled here (Hull, "Options, Futures, and Other Derivative Securities",
// 2nd ed., p. 57).
type Future struct {
	Instrument

	domesticRate *float64
	foreignRate  *float64
	domesticCC   *float64
	foreignCC    *float64

	settlement time.Time

	modeled ModelQuote
	carry   *float64
}

// NewFuture wires a future above an optional spot underlying. The discrete
// domestic and foreign rates are converted to continuously-compounded
// Actual/360 equivalents as they are set.
func NewFuture(tradeSymbol, quoteSymbol string, underlying *Spot, domesticRate, foreignRate float64, settlement time.Time) (*Future, error) {
	f := &Future{settlement: settlement}

	var u Node
	if underlying != nil {
		u = underlying
	}

	if err := f.init(f, tradeSymbol, quoteSymbol, u); err != nil {
		return nil, err
	}

	if err := f.SetDomesticRate(domesticRate); err != nil {
		return nil, err
	}

	if err := f.SetForeignRate(foreignRate); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Future) DomesticRate() *float64 { return clonePtr(f.domesticRate) }
func (f *Future) ForeignRate() *float64  { return clonePtr(f.foreignRate) }
func (f *Future) DomesticCC() *float64   { return clonePtr(f.domesticCC) }
func (f *Future) ForeignCC() *float64    { return clonePtr(f.foreignCC) }
func (f *Future) Settlement() time.Time  { return f.settlement }
func (f *Future) Carry() *float64        { return clonePtr(f.carry) }

// Modeled returns the forward price modeled from the spot quote.
func (f *Future) Modeled() ModelQuote { return f.modeled.clone() }

// SetDomesticRate stores the quoted currency's risk-free rate, derives its
// continuously-compounded Actual/360 equivalent and cascades.
func (f *Future) SetDomesticRate(rate float64) error {
	f.domesticRate = &rate
	cc := 360 * math.Log(1+rate/360)
	f.domesticCC = &cc

	return f.cascade()
}

// SetForeignRate stores the base currency's risk-free rate, derives its
// continuously-compounded Actual/360 equivalent and cascades.
func (f *Future) SetForeignRate(rate float64) error {
	f.foreignRate = &rate
	cc := 360 * math.Log(1+rate/360)
	f.foreignCC = &cc

	return f.cascade()
}

// TimeToSettlement is the Actual/360 year fraction from the node's as-of time
// to settlement, recomputed on every read.
func (f *Future) TimeToSettlement() float64 {
	return daycount.Actual360T(f.Now(), f.settlement)
}

func (f *Future) recompute() error {
	if f.domesticCC == nil || f.foreignCC == nil || f.settlement.IsZero() {
		return nil
	}

	if f.underlying == nil {
		return nil
	}

	spot := f.underlying.base()
	tenor := f.TimeToSettlement()
	growth := math.Exp((*f.domesticCC - *f.foreignCC) * tenor)

	if bid := spot.bid; bid != nil {
		v := *bid * growth
		f.modeled.Bid = &v
	}

	if ask := spot.ask; ask != nil {
		v := *ask * growth
		f.modeled.Ask = &v
	}

	if f.modeled.Bid != nil && f.modeled.Ask != nil {
		mark := (*f.modeled.Bid + *f.modeled.Ask) / 2
		spread := *f.modeled.Ask - *f.modeled.Bid
		f.modeled.Mark = &mark
		f.modeled.Spread = &spread
	}

	// cost-of-carry implied by the observed future mark over spot, an
	// annualized Actual/360 diagnostic of basis vs. the model
	if spot.mark != nil && f.mark != nil {
		if *f.mark <= 0 || *spot.mark <= 0 || tenor <= 0 {
			log.WithFields(log.Fields{
				"symbol": f.tradeSymbol,
				"mark":   *f.mark,
				"tenor":  tenor,
			}).Warn("cost-of-carry inputs outside domain")

			return fmt.Errorf("%w: cost-of-carry requires positive marks and tenor", CalibrationFailedErr)
		}

		cc := math.Log(*f.mark / *spot.mark) / tenor
		annualized := (math.Exp(cc/360) - 1) * 360
		f.carry = &annualized
	}

	return nil
}

func (f *Future) cloneNode() Node {
	c := &Future{
		domesticRate: clonePtr(f.domesticRate),
		foreignRate:  clonePtr(f.foreignRate),
		domesticCC:   clonePtr(f.domesticCC),
		foreignCC:    clonePtr(f.foreignCC),
		settlement:   f.settlement,
		modeled:      f.modeled.clone(),
		carry:        clonePtr(f.carry),
	}
	f.Instrument.copyInto(&c.Instrument, c)
	return c
}

// Snapshot returns a deep, disconnected copy of the node and everything
// reachable from it. See CloneGraph.
func (f *Future) Snapshot() *Future {
	return cloneGraph(f).(*Future)
}
