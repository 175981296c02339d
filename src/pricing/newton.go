package pricing

import "math"

const (
	// secant defaults follow scipy.optimize.newton, which falls back to the
	// secant method when no analytic derivative is supplied.
	secantTol     = 1.48e-8
	secantMaxIter = 50
)

// Secant finds a root of f near x0. The objective may reject an argument by
// returning an error, which aborts the search. Exceeding the iteration cap or
// hitting a degenerate step returns NoConvergenceErr.
func Secant(f func(x float64) (float64, error), x0 float64) (float64, error) {
	eps := 1e-4
	x1 := x0*(1+eps) + eps
	if x0 < 0 {
		x1 = x0*(1+eps) - eps
	}

	f0, err := f(x0)
	if err != nil {
		return 0, err
	}

	f1, err := f(x1)
	if err != nil {
		return 0, err
	}

	if math.Abs(f1) < math.Abs(f0) {
		x0, x1 = x1, x0
		f0, f1 = f1, f0
	}

	for i := 0; i < secantMaxIter; i++ {
		if f1 == f0 {
			if x1 != x0 {
				// flat objective, degenerate step
				return 0, NoConvergenceErr
			}
			return x1, nil
		}

		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if math.IsNaN(x2) || math.IsInf(x2, 0) {
			return 0, NoConvergenceErr
		}

		if math.Abs(x2-x1) < secantTol {
			return x2, nil
		}

		x0, f0 = x1, f1
		x1 = x2

		f1, err = f(x1)
		if err != nil {
			return 0, err
		}
	}

	return 0, NoConvergenceErr
}
