package shaping

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestQuadratureSine(t *testing.T) {
	q := NewQuadratureEngine(0, DefaultQuadratureOrder)
	val, err := q.Integrate(func(θ float64) (float64, error) { return math.Sin(θ), nil }, math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(val, 2, 1e-10) {
		t.Fatalf("∫sin over [0,π] = %f", val)
	}
}

func TestQuadratureReversedBounds(t *testing.T) {
	q := NewQuadratureEngine(math.Pi, 0)
	val, err := q.Integrate(func(θ float64) (float64, error) { return math.Sin(θ), nil }, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(val, -2, 1e-10) {
		t.Fatalf("reversed bounds must flip the sign, got %f", val)
	}
}

func TestQuadratureZeroSpan(t *testing.T) {
	q := NewQuadratureEngine(1.5, 0)
	val, err := q.Integrate(func(θ float64) (float64, error) { return 1, nil }, 1.5)
	if err != nil || val != 0 {
		t.Fatalf("empty interval must integrate to zero, got %f (%v)", val, err)
	}
}

func TestQuadratureErrorPropagation(t *testing.T) {
	q := NewQuadratureEngine(0, 0)
	boom := InfeasibleShapeError{Angle: 1, Value: -0.1}
	_, err := q.Integrate(func(θ float64) (float64, error) {
		if θ > 0.5 {
			return 0, boom
		}
		return 1, nil
	}, 1)
	var infeasible InfeasibleShapeError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected the integrand error to surface, got %v", err)
	}
}
