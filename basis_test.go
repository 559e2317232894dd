package shaping

import (
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// numDiff approximates the derivative of f at θ with central differences.
func numDiff(f func(float64) float64, θ, h float64) float64 {
	return (f(θ+h) - f(θ-h)) / (2 * h)
}

func TestRadialCompositeDerivatives(t *testing.T) {
	f := NewCompositeRadialFunction()
	coeffs := mat64.NewVector(7, []float64{0.9, 0.01, -0.002, 0.05, -0.01, 0.03, 0.007})
	f.ResetCoefficients(coeffs)
	h := 1e-5
	for _, θ := range []float64{0.1, 1.3, 2.9, 5.7, 9.2} {
		d1 := numDiff(f.Evaluate, θ, h)
		if !floats.EqualWithinAbs(f.FirstDerivative(θ), d1, 1e-6) {
			t.Fatalf("first derivative off at θ=%f: %g != %g", θ, f.FirstDerivative(θ), d1)
		}
		d2 := numDiff(f.FirstDerivative, θ, h)
		if !floats.EqualWithinAbs(f.SecondDerivative(θ), d2, 1e-5) {
			t.Fatalf("second derivative off at θ=%f: %g != %g", θ, f.SecondDerivative(θ), d2)
		}
		d3 := numDiff(f.SecondDerivative, θ, h)
		if !floats.EqualWithinAbs(f.ThirdDerivative(θ), d3, 1e-4) {
			t.Fatalf("third derivative off at θ=%f: %g != %g", θ, f.ThirdDerivative(θ), d3)
		}
	}
}

func TestElevationCompositeDerivatives(t *testing.T) {
	f := NewCompositeElevationFunction()
	coeffs := mat64.NewVector(4, []float64{0.02, -0.004, 0.015, 0.001})
	f.ResetCoefficients(coeffs)
	h := 1e-5
	for _, θ := range []float64{0.2, 1.7, 4.4, 8.1} {
		d1 := numDiff(f.Evaluate, θ, h)
		if !floats.EqualWithinAbs(f.FirstDerivative(θ), d1, 1e-8) {
			t.Fatalf("first derivative off at θ=%f", θ)
		}
		d2 := numDiff(f.FirstDerivative, θ, h)
		if !floats.EqualWithinAbs(f.SecondDerivative(θ), d2, 1e-7) {
			t.Fatalf("second derivative off at θ=%f", θ)
		}
		d3 := numDiff(f.SecondDerivative, θ, h)
		if !floats.EqualWithinAbs(f.ThirdDerivative(θ), d3, 1e-6) {
			t.Fatalf("third derivative off at θ=%f", θ)
		}
	}
}

func TestCompositeCoefficientHandling(t *testing.T) {
	f := NewCompositeRadialFunction()
	c := f.Coefficients()
	if c.Len() != 7 {
		t.Fatalf("expected seven radial coefficients, got %d", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if c.At(i, 0) != 1 {
			t.Fatal("fresh composite function must start with unit coefficients")
		}
	}
	// Mutating the copy must not touch the function.
	c.SetVec(0, 42)
	if f.Coefficients().At(0, 0) != 1 {
		t.Fatal("Coefficients must return a copy")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on wrong coefficient count")
		}
	}()
	f.ResetCoefficients(mat64.NewVector(3, nil))
}
