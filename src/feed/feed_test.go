package feed

import (
	"context"
	"testing"
	"time"

	"github.com/kataras/go-events"
	"github.com/stretchr/testify/assert"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
	"github.com/jiaming2012/fx-valuation/src/eventpubsub"
	"github.com/jiaming2012/fx-valuation/src/instruments"
)

func TestChangedSide(t *testing.T) {
	t.Run("nil incoming is ignored", func(t *testing.T) {
		assert.Nil(t, changedSide(instruments.Float(1.1), nil))
		assert.Nil(t, changedSide(nil, nil))
	})

	t.Run("equal incoming is ignored", func(t *testing.T) {
		assert.Nil(t, changedSide(instruments.Float(1.1), instruments.Float(1.1)))
	})

	t.Run("new value passes through", func(t *testing.T) {
		got := changedSide(instruments.Float(1.1), instruments.Float(1.2))
		assert.NotNil(t, got)
		assert.Equal(t, 1.2, *got)
	})

	t.Run("first value passes through", func(t *testing.T) {
		got := changedSide(nil, instruments.Float(1.1))
		assert.NotNil(t, got)
		assert.Equal(t, 1.1, *got)
	})
}

func TestManualFeed(t *testing.T) {
	mf := NewManualFeed()

	quote, err := mf.LatestQuote("EURUSD")
	assert.NoError(t, err)
	assert.Nil(t, quote)

	ts := time.Now().UTC()
	mf.Update("EURUSD", instruments.Float(1.0995), instruments.Float(1.1005), ts)

	quote, err = mf.LatestQuote("EURUSD")
	assert.NoError(t, err)
	assert.Equal(t, 1.0995, *quote.Bid)
	assert.Equal(t, 1.1005, *quote.Ask)
	assert.Equal(t, ts, quote.Timestamp)
}

func TestAttachStreamAppliesQuotes(t *testing.T) {
	eventpubsub.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(16)
	go runner.Start(ctx)

	spot := instruments.NewSpot("EURUSD", "EURUSD")

	mf := NewManualFeed()
	mf.Update("EURUSD", instruments.Float(1.0995), instruments.Float(1.1005), time.Now().UTC())

	go AttachStream(ctx, runner, mf, spot, 5*time.Millisecond)

	// reads go through the runner so they serialize with the feed's writes
	readMark := func() *float64 {
		out := make(chan *float64, 1)
		runner.Do(func() { out <- spot.Mark() })
		return <-out
	}

	assert.Eventually(t, func() bool {
		mark := readMark()
		return mark != nil && *mark == 1.1
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("single side update leaves the other untouched", func(t *testing.T) {
		mf.Update("EURUSD", instruments.Float(1.1015), instruments.Float(1.1005), time.Now().UTC())

		assert.Eventually(t, func() bool {
			mark := readMark()
			return mark != nil && *mark == 1.101
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestAttachStreamDetachesFromSnapshot(t *testing.T) {
	eventpubsub.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(16)
	go runner.Start(ctx)

	spot := instruments.NewSpot("EURUSD", "EURUSD")
	snap := spot.Snapshot()

	done := make(chan struct{})
	go func() {
		AttachStream(ctx, runner, NewManualFeed(), snap, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the stream to detach from a snapshot")
	}
}

func TestRunnerPublishesQuoteApplied(t *testing.T) {
	eventpubsub.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(16)
	go runner.Start(ctx)

	applied := make(chan *eventmodels.QuoteAppliedEvent, 1)
	assert.NoError(t, eventpubsub.Subscribe(eventpubsub.QuoteAppliedEvent, func(ev *eventmodels.QuoteAppliedEvent) {
		applied <- ev
	}))

	spot := instruments.NewSpot("EURUSD", "EURUSD")
	runner.SetQuote(spot, instruments.Float(1.0995), instruments.Float(1.1005), time.Now().UTC())

	select {
	case ev := <-applied:
		assert.Equal(t, "EURUSD", ev.Symbol)
		assert.Equal(t, spot.ID(), ev.InstrumentID)
		assert.Equal(t, 1.0995, *ev.Quote.Bid)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a quote applied event")
	}
}

func TestRunnerEmitsNewQuoteEvent(t *testing.T) {
	eventpubsub.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(16)
	go runner.Start(ctx)

	emitted := make(chan *eventmodels.QuoteAppliedEvent, 1)
	events.On(NewQuoteEvent, func(payload ...interface{}) {
		if len(payload) == 0 {
			return
		}

		if ev, ok := payload[0].(*eventmodels.QuoteAppliedEvent); ok {
			select {
			case emitted <- ev:
			default:
			}
		}
	})

	spot := instruments.NewSpot("EURUSD", "EURUSD")
	runner.SetQuote(spot, instruments.Float(1.0995), instruments.Float(1.1005), time.Now().UTC())

	select {
	case ev := <-emitted:
		assert.Equal(t, "EURUSD", ev.Symbol)
		assert.Equal(t, 1.0995, *ev.Quote.Bid)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an emitted quote event")
	}
}

func TestRunnerPublishesCalibrationFailure(t *testing.T) {
	eventpubsub.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(16)
	go runner.Start(ctx)

	failed := make(chan *eventmodels.CalibrationFailedEvent, 1)
	assert.NoError(t, eventpubsub.Subscribe(eventpubsub.CalibrationFailedEvent, func(ev *eventmodels.CalibrationFailedEvent) {
		failed <- ev
	}))

	t0 := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	spot := instruments.NewSpot("EURUSD", "EURUSD")
	future, err := instruments.NewFuture("6EU25", "6EU25", spot, 0.05, 0.03, t0.Add(90*24*time.Hour))
	assert.NoError(t, err)
	assert.NoError(t, future.SetNow(&t0))
	assert.NoError(t, spot.SetQuote(instruments.Float(1.0995), instruments.Float(1.1005)))

	// a negative future mark has no defensible cost of carry
	runner.SetQuote(future, instruments.Float(-1.0), instruments.Float(-1.0), time.Now().UTC())

	select {
	case ev := <-failed:
		assert.Equal(t, "6EU25", ev.Symbol)
		assert.Equal(t, future.ID(), ev.InstrumentID)
		assert.NotEmpty(t, ev.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a calibration failed event")
	}
}
