package feed

import (
	"sync"
	"time"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
)

// ManualFeed is a QuoteProvider driven by direct calls, used for tests and
// deterministic replays.
type ManualFeed struct {
	mu     sync.RWMutex
	latest map[string]*eventmodels.QuoteDTO
}

func NewManualFeed() *ManualFeed {
	return &ManualFeed{
		latest: make(map[string]*eventmodels.QuoteDTO),
	}
}

// Update records the latest quote for a symbol. Either side may be nil.
func (m *ManualFeed) Update(symbol string, bid, ask *float64, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest[symbol] = &eventmodels.QuoteDTO{
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		Timestamp: ts,
	}
}

func (m *ManualFeed) LatestQuote(symbol string) (*eventmodels.QuoteDTO, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest[symbol], nil
}
