package shaping

import (
	"github.com/gonum/integrate/quad"
)

const (
	// DefaultQuadratureOrder is the fixed number of Gauss-Legendre nodes used for
	// the time of flight and deltaV integrals.
	DefaultQuadratureOrder = 16
)

// Integrand is a scalar function of the azimuth angle. It returns an error when
// the shape is not evaluable at the sampled angle (e.g. infeasible curvature).
type Integrand func(θ float64) (float64, error)

// QuadratureEngine integrates scalar functions of the azimuth angle over
// [lower, upper] with a fixed-order Gauss-Legendre rule. The lower limit is
// fixed at construction so cumulative integrals from a common origin reuse the
// same engine; only a change of origin warrants a new engine.
type QuadratureEngine struct {
	lower float64
	order int
}

// NewQuadratureEngine returns an engine anchored at the provided lower limit.
// A non-positive order falls back to DefaultQuadratureOrder.
func NewQuadratureEngine(lower float64, order int) *QuadratureEngine {
	if order <= 0 {
		order = DefaultQuadratureOrder
	}
	return &QuadratureEngine{lower: lower, order: order}
}

// LowerLimit returns the fixed lower integration limit.
func (q *QuadratureEngine) LowerLimit() float64 {
	return q.lower
}

// Integrate evaluates the definite integral of f from the engine's lower limit
// to the provided upper limit. The first error reported by the integrand aborts
// the result: no partial value is returned in that case.
func (q *QuadratureEngine) Integrate(f Integrand, upper float64) (float64, error) {
	if upper == q.lower {
		return 0, nil
	}
	lo, hi, flip := q.lower, upper, 1.0
	if hi < lo {
		lo, hi, flip = hi, lo, -1.0
	}
	var ferr error
	wrapped := func(θ float64) float64 {
		if ferr != nil {
			return 0
		}
		v, err := f(θ)
		if err != nil {
			ferr = err
			return 0
		}
		return v
	}
	result := quad.Fixed(wrapped, lo, hi, q.order, quad.Legendre{}, 0)
	if ferr != nil {
		return 0, ferr
	}
	return flip * result, nil
}
