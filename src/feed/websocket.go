package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
)

// WebsocketFeed consumes a venue's quote stream and retains the latest quote
// per symbol, satisfying QuoteProvider for stream attachment.
type WebsocketFeed struct {
	url string

	mu     sync.RWMutex
	latest map[string]*eventmodels.QuoteDTO
}

func NewWebsocketFeed(url string) *WebsocketFeed {
	return &WebsocketFeed{
		url:    url,
		latest: make(map[string]*eventmodels.QuoteDTO),
	}
}

// LatestQuote returns the most recent quote received for the symbol, or nil
// when none has arrived yet.
func (w *WebsocketFeed) LatestQuote(symbol string) (*eventmodels.QuoteDTO, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.latest[symbol], nil
}

func (w *WebsocketFeed) connect() (*websocket.Conn, error) {
	log.Infof("connecting to %s", w.url)

	c, _, err := websocket.DefaultDialer.Dial(w.url, nil)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, fmt.Errorf("feed: failed to connect to websocket server: connection is nil")
	}

	return c, nil
}

// Run reads quotes until the context ends, reconnecting on read failures.
// It blocks; run it on its own goroutine.
func (w *WebsocketFeed) Run(ctx context.Context) error {
	c, err := w.connect()
	if err != nil {
		return fmt.Errorf("feed: initial connect failed: %w", err)
	}

	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			c.SetReadDeadline(time.Now().UTC().Add(30 * time.Second))
			_, message, err := c.ReadMessage()

			if err != nil {
				log.Errorf("ReadMessage(): %v", err)

				newConn, newErr := w.connect()
				if newErr != nil {
					log.Errorf("failed to reconnect: %v", newErr)
					continue
				}

				if e := c.Close(); e != nil {
					log.Errorf("error closing old connection: %v", e)
				}

				c = newConn
				continue
			}

			var quote eventmodels.QuoteDTO
			if err := json.Unmarshal(message, &quote); err != nil {
				log.Errorf("failed to unmarshal json: %v", err)
				continue
			}

			if quote.Symbol == "" {
				continue
			}

			if quote.Timestamp.IsZero() {
				quote.Timestamp = time.Now().UTC()
			}

			w.mu.Lock()
			w.latest[quote.Symbol] = &quote
			w.mu.Unlock()
		}
	}
}
