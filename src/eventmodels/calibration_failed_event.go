package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

// CalibrationFailedEvent is published when a quote update leaves a node with
// stale model values.
type CalibrationFailedEvent struct {
	InstrumentID uuid.UUID
	Symbol       string
	Reason       string
	Timestamp    time.Time
}
