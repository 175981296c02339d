package instruments

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/fx-valuation/src/daycount"
	"github.com/jiaming2012/fx-valuation/src/pricing"
)

// Option is an option on a currency future, valued under Black-76. When its
// implied volatility is not supplied directly it is calibrated from the
// option's own two-sided quote in two stages: a closed-form Corrado-Miller
// seed under an intrinsic-value floor, then a probability-weighted
// re-reference of the bid/ask and a secant root-find, run twice so the
// weights settle on the solved volatility.
type Option struct {
	Instrument

	optionType pricing.OptionType
	strike     float64
	expiry     time.Time

	vol            *float64
	moneyness      *float64
	itmProbability *float64

	price  *float64
	greeks *pricing.Greeks

	manualVol bool
}

// NewOption wires an option above a future. Type, strike and expiry are
// immutable once constructed. lastVol, when non-nil, seeds the model without
// waiting for the first calibration.
func NewOption(tradeSymbol, quoteSymbol string, underlying *Future, optionType pricing.OptionType, strike float64, expiry time.Time, lastVol *float64) (*Option, error) {
	if err := optionType.Validate(); err != nil {
		return nil, UnknownOptionTypeErr
	}

	if strike <= 0 {
		return nil, NonPositiveStrikeErr
	}

	if underlying == nil {
		return nil, UnderlyingRequiredErr
	}

	if !expiry.After(underlying.Now()) {
		return nil, ExpiryNotAfterNowErr
	}

	o := &Option{
		optionType: optionType,
		strike:     strike,
		expiry:     expiry,
		vol:        clonePtr(lastVol),
	}

	if err := o.init(o, tradeSymbol, quoteSymbol, underlying); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Option) OptionType() pricing.OptionType { return o.optionType }
func (o *Option) Strike() float64                { return o.strike }
func (o *Option) Expiry() time.Time              { return o.expiry }

func (o *Option) ImpliedVol() *float64     { return clonePtr(o.vol) }
func (o *Option) Moneyness() *float64      { return clonePtr(o.moneyness) }
func (o *Option) ITMProbability() *float64 { return clonePtr(o.itmProbability) }
func (o *Option) Price() *float64          { return clonePtr(o.price) }

// Greeks returns the option's sensitivities, or nil before the first
// successful pricing pass.
func (o *Option) Greeks() *pricing.Greeks {
	if o.greeks == nil {
		return nil
	}

	g := *o.greeks
	return &g
}

func (o *Option) future() *Future {
	f, _ := o.underlying.(*Future)
	return f
}

// asOf is the clock the option's tenors are measured against: the underlying
// future's as-of time, matching where the rates live.
func (o *Option) asOf() time.Time {
	if o.underlying != nil {
		return o.underlying.base().Now()
	}

	return o.Now()
}

// RateTenor is the Actual/360 year fraction to expiry, recomputed on read.
func (o *Option) RateTenor() float64 {
	return daycount.Actual360T(o.asOf(), o.expiry)
}

// TradingTenor is the trading-calendar year fraction to expiry, recomputed on
// read.
func (o *Option) TradingTenor() float64 {
	return daycount.TradingT(o.asOf(), o.expiry)
}

// SetImpliedVol overrides the volatility directly, short-circuiting
// calibration: price and greeks are refreshed from the supplied value and the
// change propagates as-is. Passing nil clears the override so the next quote
// change recalibrates.
func (o *Option) SetImpliedVol(vol *float64) error {
	o.vol = clonePtr(vol)

	o.manualVol = true
	err := o.cascade()
	o.manualVol = false

	return err
}

func (o *Option) recompute() error {
	fut := o.future()
	if fut == nil {
		return nil
	}

	if fut.domesticCC == nil || fut.foreignCC == nil {
		return nil
	}

	if (o.bid == nil && o.ask == nil) || fut.mark == nil {
		return nil
	}

	if !o.manualVol {
		if err := o.calibrate(); err != nil {
			log.WithFields(log.Fields{
				"symbol": o.tradeSymbol,
				"strike": o.strike,
				"type":   o.optionType,
			}).Warnf("implied vol calibration failed: %v", err)

			return err
		}
	}

	if o.vol == nil {
		return nil
	}

	return o.reprice()
}

// reprice computes the Black-76 model price and greeks from the current
// volatility, leaving prior values untouched on failure.
func (o *Option) reprice() error {
	fut := o.future()

	in := pricing.Black76Inputs{
		Type:       o.optionType,
		Forward:    *fut.mark,
		Strike:     o.strike,
		Vol:        *o.vol,
		DomesticCC: *fut.domesticCC,
		ForeignCC:  *fut.foreignCC,
		RTenor:     o.RateTenor(),
		TTenor:     o.TradingTenor(),
	}

	price, err := pricing.Black76Price(in)
	if err != nil {
		return fmt.Errorf("%w: %v", CalibrationFailedErr, err)
	}

	greeks, err := pricing.Black76Greeks(in)
	if err != nil {
		return fmt.Errorf("%w: %v", CalibrationFailedErr, err)
	}

	o.price = &price
	o.greeks = &greeks

	return nil
}

const stabilizationPasses = 1

// calibrate backs implied volatility out of the option's own market. No field
// is committed until the full run succeeds, so a failed pass leaves the prior
// values stale but valid.
func (o *Option) calibrate() error {
	fut := o.future()

	fMark := *fut.mark
	rTenor := o.RateTenor()
	tTenor := o.TradingTenor()
	ccr := *fut.domesticCC

	if fMark <= 0 || rTenor <= 0 || tTenor <= 0 {
		return fmt.Errorf("%w: non-positive forward or tenor", CalibrationFailedErr)
	}

	discount := math.Exp(-ccr * rTenor)

	// stage one: closed-form seed from the floored midpoint
	seedRef := o.referencePrice(0.5, 0.5, fMark)
	vol, err := pricing.CorradoMillerVol(o.optionType, seedRef, fMark, o.strike, discount, tTenor)
	if err != nil {
		return fmt.Errorf("%w: seed estimate: %v", CalibrationFailedErr, err)
	}

	// stage two: probability-weighted re-reference and root-find, then one
	// stabilization pass so the weights reflect the solved volatility
	var moneyness, probability float64
	for pass := 0; pass <= stabilizationPasses; pass++ {
		vol, moneyness, probability, err = o.solve(vol, fMark, ccr, rTenor, tTenor)
		if err != nil {
			return fmt.Errorf("%w: %v", CalibrationFailedErr, err)
		}
	}

	o.vol = &vol
	o.moneyness = &moneyness
	o.itmProbability = &probability

	return nil
}

// solve runs one re-reference/root-find pass from the given volatility seed.
func (o *Option) solve(seed, fMark, ccr, rTenor, tTenor float64) (vol, moneyness, probability float64, err error) {
	if seed <= 0 {
		return 0, 0, 0, fmt.Errorf("non-positive volatility seed")
	}

	// standardized moneyness, volatility-adjusted and time-independent
	logRatio := math.Log(fMark / o.strike)
	if o.optionType == pricing.Put {
		logRatio = math.Log(o.strike / fMark)
	}
	moneyness = logRatio / (math.Sqrt(tTenor) * seed)

	// estimated probability of finishing in the money
	probability = pricing.NormCDF(moneyness)

	// ITM leans on the bid (more sellers than buyers), OTM on the ask
	var bidWeight, askWeight float64
	if moneyness >= 0 {
		bidWeight = probability
		askWeight = 1 - bidWeight
	} else {
		askWeight = probability
		bidWeight = 1 - askWeight
	}

	target := o.referencePrice(bidWeight, askWeight, fMark)

	vol, err = pricing.Black76ImpliedVol(o.optionType, target, fMark, o.strike, ccr, rTenor, tTenor, seed)
	if err != nil {
		return 0, 0, 0, err
	}

	return vol, moneyness, probability, nil
}

// referencePrice combines the two quoted sides by weight, falling back to
// whichever side is present, then enforces the no-arbitrage intrinsic floor:
// however far in the money, the reference may not price below intrinsic
// value.
func (o *Option) referencePrice(bidWeight, askWeight, fMark float64) float64 {
	var ref float64
	switch {
	case o.bid == nil:
		ref = *o.ask
	case o.ask == nil:
		ref = *o.bid
	default:
		ref = *o.bid*bidWeight + *o.ask*askWeight
	}

	if o.optionType == pricing.Call && fMark-o.strike > ref {
		return fMark - o.strike
	}

	if o.optionType == pricing.Put && o.strike-fMark > ref {
		return o.strike - fMark
	}

	return ref
}

func (o *Option) cloneNode() Node {
	c := &Option{
		optionType:     o.optionType,
		strike:         o.strike,
		expiry:         o.expiry,
		vol:            clonePtr(o.vol),
		moneyness:      clonePtr(o.moneyness),
		itmProbability: clonePtr(o.itmProbability),
		price:          clonePtr(o.price),
	}
	if o.greeks != nil {
		g := *o.greeks
		c.greeks = &g
	}
	o.Instrument.copyInto(&c.Instrument, c)
	return c
}

// Snapshot returns a deep, disconnected copy of the node and everything
// reachable from it. See CloneGraph.
func (o *Option) Snapshot() *Option {
	return cloneGraph(o).(*Option)
}
