package instruments

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Node is any instrument participating in the valuation graph.
type Node interface {
	Recomputable

	base() *Instrument
	cloneNode() Node
}

// Recomputable refreshes a node's modeled fields from its own quote state and
// its underlying. Implementations must be idempotent and must tolerate missing
// inputs by leaving dependent outputs nil instead of failing.
type Recomputable interface {
	recompute() error
}

// Instrument holds the quote state and graph wiring shared by every node
// variant. The underlying reference is fixed at construction, so the graph is
// acyclic by construction: there is no API to rewire a node.
type Instrument struct {
	id          uuid.UUID
	tradeSymbol string
	quoteSymbol string

	bid    *float64
	ask    *float64
	mark   *float64
	spread *float64

	underlying  Node
	derivatives []Node

	now        *time.Time
	isSnapshot bool

	owner Node
}

func (i *Instrument) init(owner Node, tradeSymbol, quoteSymbol string, underlying Node) error {
	i.id = uuid.New()
	i.tradeSymbol = tradeSymbol
	i.quoteSymbol = quoteSymbol
	i.owner = owner
	i.underlying = underlying

	if underlying != nil {
		return underlying.base().registerDerivative(owner)
	}

	return nil
}

func (i *Instrument) registerDerivative(n Node) error {
	for _, d := range i.derivatives {
		if d == n {
			return DuplicateDerivativeErr
		}
	}

	i.derivatives = append(i.derivatives, n)
	return nil
}

func (i *Instrument) base() *Instrument { return i }

func (i *Instrument) ID() uuid.UUID       { return i.id }
func (i *Instrument) TradeSymbol() string { return i.tradeSymbol }
func (i *Instrument) QuoteSymbol() string { return i.quoteSymbol }
func (i *Instrument) IsSnapshot() bool    { return i.isSnapshot }

func (i *Instrument) Bid() *float64    { return clonePtr(i.bid) }
func (i *Instrument) Ask() *float64    { return clonePtr(i.ask) }
func (i *Instrument) Mark() *float64   { return clonePtr(i.mark) }
func (i *Instrument) Spread() *float64 { return clonePtr(i.spread) }

// Underlying returns the upstream node, if any.
func (i *Instrument) Underlying() Node { return i.underlying }

// Derivatives returns the downstream nodes in registration order.
func (i *Instrument) Derivatives() []Node {
	out := make([]Node, len(i.derivatives))
	copy(out, i.derivatives)
	return out
}

// Now returns the node's as-of time: the override when set, otherwise the
// wall clock.
func (i *Instrument) Now() time.Time {
	if i.now == nil {
		return time.Now().UTC()
	}

	return *i.now
}

// SetNow overrides the node's as-of time (nil reverts to the wall clock) and
// runs the same recompute cascade as a quote change. Quote fields are not
// touched.
func (i *Instrument) SetNow(now *time.Time) error {
	if now == nil {
		i.now = nil
	} else {
		t := *now
		i.now = &t
	}

	return i.cascade()
}

// SetQuote updates both sides in one step, refreshes mark and spread, then
// recomputes the node and its derivative subtree. Either side may be nil.
func (i *Instrument) SetQuote(bid, ask *float64) error {
	i.bid = clonePtr(bid)
	i.ask = clonePtr(ask)
	i.refreshMarkSpread()

	return i.cascade()
}

// SetBid updates the bid alone, leaving the ask unchanged.
func (i *Instrument) SetBid(bid float64) error {
	i.bid = &bid
	i.refreshMarkSpread()

	return i.cascade()
}

// SetAsk updates the ask alone, leaving the bid unchanged.
func (i *Instrument) SetAsk(ask float64) error {
	i.ask = &ask
	i.refreshMarkSpread()

	return i.cascade()
}

// mark is the average of bid and ask, spread their difference; both require
// the two sides to be present.
func (i *Instrument) refreshMarkSpread() {
	if i.bid != nil && i.ask != nil {
		mark := (*i.bid + *i.ask) / 2
		spread := *i.ask - *i.bid
		i.mark = &mark
		i.spread = &spread
		return
	}

	i.mark = nil
	i.spread = nil
}

// cascade recomputes the node, then every derivative subtree depth-first in
// registration order. Snapshot nodes recompute locally but never fan out.
// Failures in one subtree do not stop siblings; all errors are joined.
func (i *Instrument) cascade() error {
	errs := []error{i.owner.recompute()}

	if !i.isSnapshot {
		for _, d := range i.derivatives {
			errs = append(errs, d.base().cascade())
		}
	}

	return errors.Join(errs...)
}

// Float is a convenience for building optional quote sides.
func Float(v float64) *float64 { return &v }

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}

	c := *v
	return &c
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}

	c := *v
	return &c
}
