package instruments

// Spot is a leaf instrument: a spot-traded currency pair carrying quote state
// only, with no modeled pricing of its own.
type Spot struct {
	Instrument
}

func NewSpot(tradeSymbol, quoteSymbol string) *Spot {
	s := &Spot{}

	// a leaf has no underlying, init cannot fail
	_ = s.init(s, tradeSymbol, quoteSymbol, nil)

	return s
}

func (s *Spot) recompute() error { return nil }

func (s *Spot) cloneNode() Node {
	c := &Spot{}
	s.Instrument.copyInto(&c.Instrument, c)
	return c
}

// Snapshot returns a deep, disconnected copy of the node and everything
// reachable from it. See CloneGraph.
func (s *Spot) Snapshot() *Spot {
	return cloneGraph(s).(*Spot)
}
