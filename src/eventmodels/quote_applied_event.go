package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

// QuoteAppliedEvent is published after a quote update has been applied to a
// node and its recompute cascade has completed.
type QuoteAppliedEvent struct {
	InstrumentID uuid.UUID
	Symbol       string
	Quote        QuoteDTO
	Timestamp    time.Time
}
