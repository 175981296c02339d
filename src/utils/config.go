package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/fx-valuation/src/expiry"
)

// GraphConfig describes one spot -> future -> options valuation graph.
type GraphConfig struct {
	Spot    SpotConfig     `yaml:"spot"`
	Future  FutureConfig   `yaml:"future"`
	Options []OptionConfig `yaml:"options"`
	Feed    FeedConfig     `yaml:"feed"`
}

type SpotConfig struct {
	TradeSymbol string `yaml:"trade_symbol"`
	QuoteSymbol string `yaml:"quote_symbol"`
}

// FutureConfig pins settlement either explicitly or through a futures
// contract code such as U25, resolved against the CME expiration calendar.
type FutureConfig struct {
	TradeSymbol  string    `yaml:"trade_symbol"`
	QuoteSymbol  string    `yaml:"quote_symbol"`
	DomesticRate float64   `yaml:"domestic_rate"`
	ForeignRate  float64   `yaml:"foreign_rate"`
	Settlement   time.Time `yaml:"settlement"`
	Contract     string    `yaml:"contract"`
}

type OptionConfig struct {
	TradeSymbol string    `yaml:"trade_symbol"`
	QuoteSymbol string    `yaml:"quote_symbol"`
	Type        string    `yaml:"type"`
	Strike      float64   `yaml:"strike"`
	Expiry      time.Time `yaml:"expiry"`
	Contract    string    `yaml:"contract"`
}

type FeedConfig struct {
	URL         string `yaml:"url"`
	PollSeconds int    `yaml:"poll_seconds"`
}

// parseContract splits a futures contract code like U25 into its month and
// year.
func parseContract(code string) (time.Month, int, error) {
	if len(code) < 2 {
		return 0, 0, fmt.Errorf("contract code %q is too short", code)
	}

	month, err := expiry.MonthFromCode(code[:1])
	if err != nil {
		return 0, 0, err
	}

	year, err := strconv.Atoi(code[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("contract code %q has a bad year: %w", code, err)
	}

	return month, year, nil
}

// resolveContracts fills in any settlement or expiry left implicit by a
// contract code.
func (c *GraphConfig) resolveContracts() error {
	if c.Future.Settlement.IsZero() && c.Future.Contract != "" {
		month, year, err := parseContract(c.Future.Contract)
		if err != nil {
			return err
		}

		settlement, err := expiry.FutureExpiration(year, month)
		if err != nil {
			return err
		}

		c.Future.Settlement = settlement
	}

	for i := range c.Options {
		o := &c.Options[i]
		if !o.Expiry.IsZero() || o.Contract == "" {
			continue
		}

		month, year, err := parseContract(o.Contract)
		if err != nil {
			return err
		}

		exp, err := expiry.OptionExpiration(year, month)
		if err != nil {
			return err
		}

		o.Expiry = exp
	}

	return nil
}

func (c *GraphConfig) Validate() error {
	if c.Spot.QuoteSymbol == "" {
		return fmt.Errorf("spot quote_symbol is required")
	}

	if c.Future.QuoteSymbol == "" {
		return fmt.Errorf("future quote_symbol is required")
	}

	if c.Future.Settlement.IsZero() {
		return fmt.Errorf("future settlement is required")
	}

	return nil
}

// LoadGraphConfig reads and validates a YAML graph description.
func LoadGraphConfig(path string) (*GraphConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg GraphConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.resolveContracts(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Feed.PollSeconds <= 0 {
		cfg.Feed.PollSeconds = 1
	}

	return &cfg, nil
}
