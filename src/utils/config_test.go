package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadGraphConfig(t *testing.T) {
	t.Run("full graph", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  trade_symbol: EURUSD
  quote_symbol: EURUSD
future:
  trade_symbol: 6EU25
  quote_symbol: 6EU25
  domestic_rate: 0.05
  foreign_rate: 0.03
  settlement: 2025-09-15T14:16:00Z
options:
  - trade_symbol: 6EU25C110
    quote_symbol: 6EU25C110
    type: call
    strike: 1.10
    expiry: 2025-09-05T14:00:00Z
feed:
  url: wss://quotes.example.com/stream
  poll_seconds: 2
`)

		cfg, err := LoadGraphConfig(path)
		assert.NoError(t, err)

		assert.Equal(t, "EURUSD", cfg.Spot.QuoteSymbol)
		assert.Equal(t, 0.05, cfg.Future.DomesticRate)
		assert.Equal(t, 2025, cfg.Future.Settlement.Year())
		assert.Len(t, cfg.Options, 1)
		assert.Equal(t, "call", cfg.Options[0].Type)
		assert.Equal(t, 1.10, cfg.Options[0].Strike)
		assert.Equal(t, 2, cfg.Feed.PollSeconds)
	})

	t.Run("poll defaults to one second", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  quote_symbol: EURUSD
future:
  quote_symbol: 6EU25
  settlement: 2025-09-15T14:16:00Z
`)

		cfg, err := LoadGraphConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, cfg.Feed.PollSeconds)
	})

	t.Run("contract codes resolve settlement and expiry", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  quote_symbol: EURUSD
future:
  quote_symbol: 6EU25
  contract: U25
options:
  - quote_symbol: 6EU25C110
    type: call
    strike: 1.10
    contract: U25
`)

		cfg, err := LoadGraphConfig(path)
		assert.NoError(t, err)

		// September 2025: third Wednesday is the 17th
		assert.Equal(t, time.Date(2025, time.September, 15, 14, 16, 0, 0, time.UTC), cfg.Future.Settlement)
		assert.Equal(t, time.Date(2025, time.September, 5, 14, 0, 0, 0, time.UTC), cfg.Options[0].Expiry)
	})

	t.Run("explicit settlement wins over the contract code", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  quote_symbol: EURUSD
future:
  quote_symbol: 6EU25
  contract: U25
  settlement: 2025-09-10T14:16:00Z
`)

		cfg, err := LoadGraphConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, 10, cfg.Future.Settlement.Day())
	})

	t.Run("bad contract code is rejected", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  quote_symbol: EURUSD
future:
  quote_symbol: 6EU25
  contract: A25
`)

		_, err := LoadGraphConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing settlement is rejected", func(t *testing.T) {
		path := writeConfig(t, `
spot:
  quote_symbol: EURUSD
future:
  quote_symbol: 6EU25
`)

		_, err := LoadGraphConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing quote symbols are rejected", func(t *testing.T) {
		path := writeConfig(t, `
future:
  quote_symbol: 6EU25
  settlement: 2025-09-15T14:16:00Z
`)

		_, err := LoadGraphConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGraphConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "spot: [broken")
		_, err := LoadGraphConfig(path)
		assert.Error(t, err)
	})
}
