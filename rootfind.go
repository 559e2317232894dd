package shaping

import (
	"errors"
	"math"
)

// Objective is a scalar function whose root is sought. An InfeasibleShapeError
// returned by the objective signals that the trial value cannot be evaluated
// and that the finder should try elsewhere; any other error is fatal.
type Objective func(x float64) (float64, error)

// RootConfig configures the bracketed root finder.
type RootConfig struct {
	Tolerance     float64 // residual tolerance on the objective value
	MaxIterations uint
}

// DefaultRootConfig returns the root finder settings used when none are provided.
func DefaultRootConfig() RootConfig {
	return RootConfig{Tolerance: 1e-6, MaxIterations: 100}
}

// Bisection finds x in [lower, upper] such that |f(x)| is within the configured
// tolerance. The initial guess is tried first, so an already-converged problem
// costs a single evaluation. Infeasible trial points are shifted within the
// bracket instead of aborting the whole search; exhausting the iteration budget
// returns a RootFindingNonconvergenceError carrying the best residual found.
func Bisection(f Objective, lower, upper, guess float64, cfg RootConfig) (float64, error) {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultRootConfig().Tolerance
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultRootConfig().MaxIterations
	}
	if upper <= lower {
		return 0, errors.New("root finder requires lower < upper")
	}
	best := math.Inf(1)

	// A feasible evaluation near x, shifting toward ref when the shape cannot
	// be evaluated at the trial point.
	eval := func(x, ref float64) (float64, float64, error) {
		for attempt := 0; attempt < 8; attempt++ {
			v, err := f(x)
			if err == nil {
				if math.Abs(v) < best {
					best = math.Abs(v)
				}
				return x, v, nil
			}
			var infeasible InfeasibleShapeError
			if !errors.As(err, &infeasible) {
				return x, 0, err
			}
			x = (x + ref) / 2
		}
		v, err := f(x)
		return x, v, err
	}

	if guess > lower && guess < upper {
		if _, v, err := eval(guess, (lower+upper)/2); err == nil && math.Abs(v) <= cfg.Tolerance {
			return guess, nil
		}
	}

	xLo, fLo, err := eval(lower, upper)
	if err != nil {
		return 0, err
	}
	if math.Abs(fLo) <= cfg.Tolerance {
		return xLo, nil
	}
	xHi, fHi, err := eval(upper, lower)
	if err != nil {
		return 0, err
	}
	if math.Abs(fHi) <= cfg.Tolerance {
		return xHi, nil
	}
	if sign(fLo) == sign(fHi) {
		return 0, RootFindingNonconvergenceError{Iterations: 0, BestResidual: best}
	}

	for iteration := uint(0); iteration < cfg.MaxIterations; iteration++ {
		mid := (xLo + xHi) / 2
		x, fMid, err := eval(mid, xHi)
		if err != nil {
			return 0, err
		}
		if math.Abs(fMid) <= cfg.Tolerance {
			return x, nil
		}
		if sign(fMid) == sign(fLo) {
			xLo, fLo = x, fMid
		} else {
			xHi = x
		}
	}
	return 0, RootFindingNonconvergenceError{Iterations: cfg.MaxIterations, BestResidual: best}
}
