package feed

import (
	"context"
	"errors"
	"time"

	"github.com/kataras/go-events"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
	"github.com/jiaming2012/fx-valuation/src/eventpubsub"
	"github.com/jiaming2012/fx-valuation/src/instruments"
)

// NewQuoteEvent fires on the default emitter after every applied quote.
var NewQuoteEvent = events.EventName("NewQuoteEvent")

// Runner serializes every graph mutation onto a single goroutine. Feeds run
// concurrently, but the graph itself is single-threaded: all SetQuote, rate
// and clock changes for one graph must flow through one Runner. Readers that
// need a consistent view take snapshots instead of reaching into live nodes.
type Runner struct {
	mutations chan func()
}

func NewRunner(buffer int) *Runner {
	return &Runner{
		mutations: make(chan func(), buffer),
	}
}

// Start consumes mutations until the context ends. It blocks; run it on its
// own goroutine, one per graph.
func (r *Runner) Start(ctx context.Context) {
	log.Info("graph runner started")

	for {
		select {
		case <-ctx.Done():
			log.Info("graph runner stopped")
			return
		case mutate := <-r.mutations:
			mutate()
		}
	}
}

// Do enqueues an arbitrary mutation. The function runs on the runner's
// goroutine.
func (r *Runner) Do(mutate func()) {
	r.mutations <- mutate
}

// Apply diffs an incoming quote against the node's current sides and applies
// whatever changed, all on the runner's goroutine. Both sides changing lands
// as one atomic SetQuote; a single side changing leaves the other untouched;
// an unchanged quote is dropped without an event.
func (r *Runner) Apply(node Attachable, quote *eventmodels.QuoteDTO) {
	r.Do(func() {
		newBid := changedSide(node.Bid(), quote.Bid)
		newAsk := changedSide(node.Ask(), quote.Ask)

		switch {
		case newBid != nil && newAsk != nil:
			r.finish(node, node.SetQuote(newBid, newAsk), &eventmodels.QuoteDTO{
				Symbol:    node.QuoteSymbol(),
				Bid:       newBid,
				Ask:       newAsk,
				Timestamp: quote.Timestamp,
			})
		case newBid != nil:
			r.finish(node, node.SetBid(*newBid), &eventmodels.QuoteDTO{
				Symbol:    node.QuoteSymbol(),
				Bid:       newBid,
				Timestamp: quote.Timestamp,
			})
		case newAsk != nil:
			r.finish(node, node.SetAsk(*newAsk), &eventmodels.QuoteDTO{
				Symbol:    node.QuoteSymbol(),
				Ask:       newAsk,
				Timestamp: quote.Timestamp,
			})
		}
	})
}

// SetQuote applies an atomic two-sided update to the node on the runner's
// goroutine.
func (r *Runner) SetQuote(node Attachable, bid, ask *float64, ts time.Time) {
	r.Do(func() {
		r.finish(node, node.SetQuote(bid, ask), &eventmodels.QuoteDTO{
			Symbol:    node.QuoteSymbol(),
			Bid:       bid,
			Ask:       ask,
			Timestamp: ts,
		})
	})
}

// SetBid applies a bid-only update on the runner's goroutine.
func (r *Runner) SetBid(node Attachable, bid float64, ts time.Time) {
	r.Do(func() {
		r.finish(node, node.SetBid(bid), &eventmodels.QuoteDTO{
			Symbol:    node.QuoteSymbol(),
			Bid:       &bid,
			Timestamp: ts,
		})
	})
}

// SetAsk applies an ask-only update on the runner's goroutine.
func (r *Runner) SetAsk(node Attachable, ask float64, ts time.Time) {
	r.Do(func() {
		r.finish(node, node.SetAsk(ask), &eventmodels.QuoteDTO{
			Symbol:    node.QuoteSymbol(),
			Ask:       &ask,
			Timestamp: ts,
		})
	})
}

// finish publishes the outcome of an applied mutation. Calibration failures
// are surfaced, not swallowed: the graph keeps its prior model values and the
// failure is announced on the bus.
func (r *Runner) finish(node Attachable, err error, quote *eventmodels.QuoteDTO) {
	now := time.Now().UTC()

	if err != nil {
		if errors.Is(err, instruments.CalibrationFailedErr) {
			log.Warnf("feed: %s: %v", quote.Symbol, err)

			eventpubsub.Publish(eventpubsub.CalibrationFailedEvent, &eventmodels.CalibrationFailedEvent{
				InstrumentID: node.ID(),
				Symbol:       quote.Symbol,
				Reason:       err.Error(),
				Timestamp:    now,
			})
		} else {
			log.Errorf("feed: %s: %v", quote.Symbol, err)
			eventpubsub.Publish(eventpubsub.Error, err)
		}
	}

	applied := &eventmodels.QuoteAppliedEvent{
		InstrumentID: node.ID(),
		Symbol:       quote.Symbol,
		Quote:        *quote,
		Timestamp:    now,
	}

	eventpubsub.Publish(eventpubsub.QuoteAppliedEvent, applied)
	events.Emit(NewQuoteEvent, applied)
}
