package pricing

import "math"

// priceRaw evaluates the Black-76 formula without input validation so the
// root-finder can probe freely. Out-of-domain probes produce NaN or infinite
// objective values, which the solver treats as non-convergence.
func priceRaw(in Black76Inputs) float64 {
	discount, dPlus, dMinus := in.terms()

	if in.Type == Call {
		return discount * (in.Forward*NormCDF(dPlus) - in.Strike*NormCDF(dMinus))
	}

	return discount * (in.Strike*NormCDF(-dMinus) - in.Forward*NormCDF(-dPlus))
}

// Black76ImpliedVol solves for the volatility that reprices target under
// Black-76, starting the secant search at seed.
func Black76ImpliedVol(otype OptionType, target, forward, strike, domesticCC, rTenor, tTenor, seed float64) (float64, error) {
	if err := otype.Validate(); err != nil {
		return 0, err
	}

	if forward <= 0 || strike <= 0 || tTenor <= 0 {
		return 0, DomainErr
	}

	objective := func(vol float64) (float64, error) {
		in := Black76Inputs{
			Type:       otype,
			Forward:    forward,
			Strike:     strike,
			Vol:        vol,
			DomesticCC: domesticCC,
			RTenor:     rTenor,
			TTenor:     tTenor,
		}

		return priceRaw(in) - target, nil
	}

	vol, err := Secant(objective, seed)
	if err != nil {
		return 0, err
	}

	if vol <= 0 || math.IsNaN(vol) || math.IsInf(vol, 0) {
		return 0, NoConvergenceErr
	}

	return vol, nil
}
