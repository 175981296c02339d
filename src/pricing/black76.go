package pricing

import (
	"math"

	"github.com/jiaming2012/fx-valuation/src/daycount"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return UnknownOptionTypeErr
	}

	return nil
}

// Black76Inputs bundles the variables shared by the Black-76 price and greek
// calculations.
//
// RTenor is the Actual/360 year fraction to expiry, used for discounting and
// the rate greeks. TTenor is the trading-calendar year fraction to expiry,
// used for the diffusion terms.
type Black76Inputs struct {
	Type       OptionType
	Forward    float64
	Strike     float64
	Vol        float64
	DomesticCC float64
	ForeignCC  float64
	RTenor     float64
	TTenor     float64
}

// Greeks are the Black-76 sensitivities of an option price. Theta is per
// trading day.
type Greeks struct {
	Delta   float64
	Gamma   float64
	Vega    float64
	Theta   float64
	Rho     float64
	Epsilon float64
}

func (in Black76Inputs) validate() error {
	if err := in.Type.Validate(); err != nil {
		return err
	}

	if in.Forward <= 0 || in.Strike <= 0 || in.Vol <= 0 || in.TTenor <= 0 {
		return DomainErr
	}

	return nil
}

func (in Black76Inputs) terms() (discount, dPlus, dMinus float64) {
	discount = math.Exp(-in.DomesticCC * in.RTenor)
	volSqrtT := in.Vol * math.Sqrt(in.TTenor)
	dPlus = (math.Log(in.Forward/in.Strike) + (in.Vol*in.Vol/2)*in.TTenor) / volSqrtT
	dMinus = dPlus - volSqrtT
	return discount, dPlus, dMinus
}

// Black76Price returns the modeled option price.
func Black76Price(in Black76Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	discount, dPlus, dMinus := in.terms()

	if in.Type == Call {
		return discount * (in.Forward*NormCDF(dPlus) - in.Strike*NormCDF(dMinus)), nil
	}

	return discount * (in.Strike*NormCDF(-dMinus) - in.Forward*NormCDF(-dPlus)), nil
}

// Black76Greeks returns the option's sensitivities.
func Black76Greeks(in Black76Inputs) (Greeks, error) {
	if err := in.validate(); err != nil {
		return Greeks{}, err
	}

	discount, dPlus, dMinus := in.terms()
	sqrtT := math.Sqrt(in.TTenor)

	var g Greeks

	if in.Type == Call {
		g.Delta = discount * NormCDF(dPlus)
	} else {
		g.Delta = discount * (NormCDF(dPlus) - 1.0)
	}

	g.Gamma = (NormPDF(dPlus) * discount) / (in.Forward * in.Vol * sqrtT)
	g.Vega = in.Forward * sqrtT * NormPDF(dPlus) * discount

	decay := (in.Forward * NormPDF(dPlus) * in.Vol * discount) / (2.0 * sqrtT)
	if in.Type == Call {
		carryF := in.DomesticCC * in.Forward * NormCDF(dPlus) * discount
		carryK := in.DomesticCC * in.Strike * discount * NormCDF(dMinus)
		g.Theta = (-decay + carryF - carryK) / daycount.TradingDaysPerYear
	} else {
		carryF := in.DomesticCC * in.Forward * NormCDF(-dPlus) * discount
		carryK := in.DomesticCC * in.Strike * discount * NormCDF(-dMinus)
		g.Theta = (-decay - carryF + carryK) / daycount.TradingDaysPerYear
	}

	if in.Type == Call {
		g.Rho = in.Strike * in.RTenor * discount * NormCDF(dMinus)
		g.Epsilon = -in.RTenor * in.Forward * math.Exp(-in.ForeignCC*in.RTenor) * NormCDF(dPlus)
	} else {
		g.Rho = -in.Strike * in.RTenor * discount * NormCDF(-dMinus)
		g.Epsilon = in.RTenor * in.Forward * math.Exp(-in.ForeignCC*in.RTenor) * NormCDF(-dPlus)
	}

	return g, nil
}
