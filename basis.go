package shaping

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// baseFunction evaluates one of the shape base functions, or one of its first
// three derivatives, at the provided azimuth angle. The supported bases are
// those of the composite radial and elevation functions.
type baseFunction uint8

const (
	constantFunc baseFunction = iota
	linearFunc
	squaredFunc
	cosineFunc
	powerCosineFunc
	sineFunc
	powerSineFunc
)

func (b baseFunction) at(order int, θ float64) float64 {
	sθ, cθ := math.Sincos(θ)
	switch b {
	case constantFunc:
		if order == 0 {
			return 1
		}
		return 0
	case linearFunc:
		switch order {
		case 0:
			return θ
		case 1:
			return 1
		}
		return 0
	case squaredFunc:
		switch order {
		case 0:
			return θ * θ
		case 1:
			return 2 * θ
		case 2:
			return 2
		}
		return 0
	case cosineFunc:
		switch order {
		case 0:
			return cθ
		case 1:
			return -sθ
		case 2:
			return -cθ
		}
		return sθ
	case powerCosineFunc:
		switch order {
		case 0:
			return θ * cθ
		case 1:
			return cθ - θ*sθ
		case 2:
			return -2*sθ - θ*cθ
		}
		return -3*cθ + θ*sθ
	case sineFunc:
		switch order {
		case 0:
			return sθ
		case 1:
			return cθ
		case 2:
			return -sθ
		}
		return -cθ
	case powerSineFunc:
		switch order {
		case 0:
			return θ * sθ
		case 1:
			return sθ + θ*cθ
		case 2:
			return 2*cθ - θ*sθ
		}
		return -3*sθ - θ*cθ
	}
	panic("unknown base function")
}

var (
	radialBases    = []baseFunction{constantFunc, linearFunc, squaredFunc, cosineFunc, powerCosineFunc, sineFunc, powerSineFunc}
	elevationBases = []baseFunction{cosineFunc, powerCosineFunc, sineFunc, powerSineFunc}
)

// freeCoefficientIndex is the radial component left undetermined by the
// boundary conditions (the θ² term). It is the degree of freedom used to
// match the required time of flight.
const freeCoefficientIndex = 2

// CompositeRadialFunction represents the radial distance of the shape as the
// reciprocal of a linear combination of base functions, r(θ) = 1/Σ cᵢ·bᵢ(θ).
type CompositeRadialFunction struct {
	coeffs *mat64.Vector
}

// NewCompositeRadialFunction returns a radial composite function with all seven
// coefficients set to one.
func NewCompositeRadialFunction() *CompositeRadialFunction {
	c := mat64.NewVector(len(radialBases), nil)
	for i := 0; i < c.Len(); i++ {
		c.SetVec(i, 1)
	}
	return &CompositeRadialFunction{coeffs: c}
}

// ResetCoefficients replaces the full coefficient vector.
func (f *CompositeRadialFunction) ResetCoefficients(c *mat64.Vector) {
	if c.Len() != len(radialBases) {
		panic("radial composite function requires exactly seven coefficients")
	}
	f.coeffs.CopyVec(c)
}

// Coefficients returns a copy of the current coefficient vector.
func (f *CompositeRadialFunction) Coefficients() *mat64.Vector {
	c := mat64.NewVector(f.coeffs.Len(), nil)
	c.CopyVec(f.coeffs)
	return c
}

// ComponentAt returns bᵢ(θ) (or its order-th derivative) for component i,
// without the coefficient. Used when assembling the boundary condition matrix.
func (f *CompositeRadialFunction) ComponentAt(i, order int, θ float64) float64 {
	return radialBases[i].at(order, θ)
}

// sum evaluates Σ cᵢ·bᵢ(θ) at the requested derivative order.
func (f *CompositeRadialFunction) sum(order int, θ float64) float64 {
	var s float64
	for i := range radialBases {
		s += f.coeffs.At(i, 0) * radialBases[i].at(order, θ)
	}
	return s
}

// Evaluate returns r(θ).
func (f *CompositeRadialFunction) Evaluate(θ float64) float64 {
	return 1 / f.sum(0, θ)
}

// FirstDerivative returns dr/dθ.
func (f *CompositeRadialFunction) FirstDerivative(θ float64) float64 {
	b := f.sum(0, θ)
	return -f.sum(1, θ) / (b * b)
}

// SecondDerivative returns d²r/dθ².
func (f *CompositeRadialFunction) SecondDerivative(θ float64) float64 {
	b := f.sum(0, θ)
	b1 := f.sum(1, θ)
	return -f.sum(2, θ)/(b*b) + 2*b1*b1/(b*b*b)
}

// ThirdDerivative returns d³r/dθ³.
func (f *CompositeRadialFunction) ThirdDerivative(θ float64) float64 {
	b := f.sum(0, θ)
	b1 := f.sum(1, θ)
	b2 := f.sum(2, θ)
	return -f.sum(3, θ)/(b*b) + 6*b1*b2/(b*b*b) - 6*b1*b1*b1/(b*b*b*b)
}

// CompositeElevationFunction represents the elevation angle of the shape as a
// direct linear combination of base functions, φ(θ) = Σ dᵢ·bᵢ(θ).
type CompositeElevationFunction struct {
	coeffs *mat64.Vector
}

// NewCompositeElevationFunction returns an elevation composite function with
// all four coefficients set to one.
func NewCompositeElevationFunction() *CompositeElevationFunction {
	c := mat64.NewVector(len(elevationBases), nil)
	for i := 0; i < c.Len(); i++ {
		c.SetVec(i, 1)
	}
	return &CompositeElevationFunction{coeffs: c}
}

// ResetCoefficients replaces the full coefficient vector.
func (f *CompositeElevationFunction) ResetCoefficients(c *mat64.Vector) {
	if c.Len() != len(elevationBases) {
		panic("elevation composite function requires exactly four coefficients")
	}
	f.coeffs.CopyVec(c)
}

// Coefficients returns a copy of the current coefficient vector.
func (f *CompositeElevationFunction) Coefficients() *mat64.Vector {
	c := mat64.NewVector(f.coeffs.Len(), nil)
	c.CopyVec(f.coeffs)
	return c
}

// ComponentAt returns bᵢ(θ) (or its order-th derivative) for component i.
func (f *CompositeElevationFunction) ComponentAt(i, order int, θ float64) float64 {
	return elevationBases[i].at(order, θ)
}

func (f *CompositeElevationFunction) sum(order int, θ float64) float64 {
	var s float64
	for i := range elevationBases {
		s += f.coeffs.At(i, 0) * elevationBases[i].at(order, θ)
	}
	return s
}

// Evaluate returns φ(θ).
func (f *CompositeElevationFunction) Evaluate(θ float64) float64 {
	return f.sum(0, θ)
}

// FirstDerivative returns dφ/dθ.
func (f *CompositeElevationFunction) FirstDerivative(θ float64) float64 {
	return f.sum(1, θ)
}

// SecondDerivative returns d²φ/dθ².
func (f *CompositeElevationFunction) SecondDerivative(θ float64) float64 {
	return f.sum(2, θ)
}

// ThirdDerivative returns d³φ/dθ³.
func (f *CompositeElevationFunction) ThirdDerivative(θ float64) float64 {
	return f.sum(3, θ)
}
