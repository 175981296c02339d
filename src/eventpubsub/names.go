package eventpubsub

// Topic names a stream of valuation-graph events on the process-local bus.
type Topic string

const (
	// QuoteAppliedEvent fires after a quote update has been applied to a node
	// and its recompute cascade has completed.
	QuoteAppliedEvent Topic = "QuoteAppliedEvent"

	// CalibrationFailedEvent fires when a mutation leaves a node with stale
	// model values.
	CalibrationFailedEvent Topic = "CalibrationFailedEvent"

	// Error carries failures that are not calibration related.
	Error Topic = "DefaultError"
)
