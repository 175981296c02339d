package eventmodels

import "time"

// QuoteDTO is a two-sided quote as delivered by a feed. Either side may be
// absent.
type QuoteDTO struct {
	Symbol    string    `json:"symbol"`
	Bid       *float64  `json:"bid"`
	Ask       *float64  `json:"ask"`
	Timestamp time.Time `json:"timestamp"`
}
