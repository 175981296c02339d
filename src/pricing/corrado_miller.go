package pricing

import "math"

// CorradoMillerVol approximates implied volatility in closed form from an
// observed option price. Puts are first mapped to calls through put-call
// parity, C = P + discount*(F - K), since the estimator is written for calls.
//
// Deep in- or out-of-the-money prices can push the estimator outside its
// domain (negative discriminant or a non-positive estimate); that is reported
// as DomainErr rather than clamped.
func CorradoMillerVol(otype OptionType, price, forward, strike, discount, tTenor float64) (float64, error) {
	if err := otype.Validate(); err != nil {
		return 0, err
	}

	if forward <= 0 || strike <= 0 || discount <= 0 || tTenor <= 0 {
		return 0, DomainErr
	}

	c := price
	if otype == Put {
		c = price + discount*(forward-strike)
	}

	fd := forward * discount
	kd := strike * discount

	ratio := (c - (fd-kd)/2) / (fd + kd)

	left := math.Sqrt(2*math.Pi) * ratio
	rightLeft := 2 * math.Pi * ratio * ratio
	rightRight := 1.85 * ((fd - kd) * (fd - kd) / (4 * math.Pi * (fd + kd) * math.Sqrt(kd*fd)))

	inner := rightLeft - rightRight
	if inner < 0 {
		return 0, DomainErr
	}

	estVol := (left + math.Sqrt(inner)) / math.Sqrt(tTenor)
	if estVol <= 0 || math.IsNaN(estVol) || math.IsInf(estVol, 0) {
		return 0, DomainErr
	}

	return estVol, nil
}
