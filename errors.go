package shaping

import "fmt"

// InfeasibleShapeError is returned when the scalar function of the time equation
// is negative at some azimuth angle, i.e. the shape does not curve toward the
// central body and cannot be flown with a gravity-plus-thrust trajectory.
type InfeasibleShapeError struct {
	Angle float64 // azimuth angle at which the infeasibility was detected (rad)
	Value float64 // value of the scalar function there
}

func (e InfeasibleShapeError) Error() string {
	return fmt.Sprintf("shape not curved toward the central body at θ=%.6f rad (S=%.6g)", e.Angle, e.Value)
}

// SingularBoundarySystemError is returned when the boundary condition matrix is
// not invertible, which only happens for degenerate boundary geometries.
type SingularBoundarySystemError struct {
	cause error
}

func (e SingularBoundarySystemError) Error() string {
	return fmt.Sprintf("boundary condition system is singular (degenerate boundary geometry): %s", e.cause)
}

// RootFindingNonconvergenceError is returned when the free parameter search
// exhausts its iteration budget without meeting the tolerance. BestResidual
// holds the smallest objective value encountered.
type RootFindingNonconvergenceError struct {
	Iterations   uint
	BestResidual float64
}

func (e RootFindingNonconvergenceError) Error() string {
	return fmt.Sprintf("root finder did not converge after %d iterations (best residual %.6g)", e.Iterations, e.BestResidual)
}

// InterpolationDomainError is returned when a time query falls outside the
// sampled range of a time to azimuth angle map.
type InterpolationDomainError struct {
	Time, Min, Max float64
}

func (e InterpolationDomainError) Error() string {
	return fmt.Sprintf("time %.6g s outside of interpolation domain [%.6g, %.6g]", e.Time, e.Min, e.Max)
}
