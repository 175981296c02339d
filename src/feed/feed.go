package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
	"github.com/jiaming2012/fx-valuation/src/instruments"
)

// QuoteProvider exposes the most recent two-sided quote for a symbol. Either
// side may be nil when the venue has not published it.
type QuoteProvider interface {
	LatestQuote(symbol string) (*eventmodels.QuoteDTO, error)
}

// Attachable is the slice of an instrument a feed drives.
type Attachable interface {
	ID() uuid.UUID
	QuoteSymbol() string
	IsSnapshot() bool
	Bid() *float64
	Ask() *float64
	SetQuote(bid, ask *float64) error
	SetBid(bid float64) error
	SetAsk(ask float64) error
}

var _ Attachable = (*instruments.Spot)(nil)
var _ Attachable = (*instruments.Future)(nil)

// AttachStream polls the provider and applies new quotes to the node through
// the runner until the context ends or the node is found to be a snapshot.
// Both sides changing applies one atomic SetQuote; a single side changing
// leaves the other untouched.
func AttachStream(ctx context.Context, runner *Runner, provider QuoteProvider, node Attachable, poll time.Duration) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	symbol := node.QuoteSymbol()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if node.IsSnapshot() {
				log.Infof("feed: %s is a snapshot, detaching", symbol)
				return
			}

			quote, err := provider.LatestQuote(symbol)
			if err != nil {
				log.Errorf("feed: failed to fetch quote for %s: %v", symbol, err)
				continue
			}

			if quote == nil {
				continue
			}

			runner.Apply(node, quote)
		}
	}
}

// changedSide returns the incoming value when it differs from the current
// one, nil otherwise.
func changedSide(current, incoming *float64) *float64 {
	if incoming == nil {
		return nil
	}

	if current != nil && *current == *incoming {
		return nil
	}

	v := *incoming
	return &v
}
