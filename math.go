package shaping

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]} // Cross product R x V.
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// Cartesian2SphericalState converts a 6x1 Cartesian state (position and velocity)
// to its spherical counterpart [r θ φ vR vθ vφ], where θ is the azimuth angle
// measured in the XY plane and φ the elevation angle above it. The last three
// components are the velocity expressed in the local (êr, êθ, êφ) basis.
func Cartesian2SphericalState(s []float64) []float64 {
	R := s[0:3]
	V := s[3:6]
	r := norm(R)
	if floats.EqualWithinAbs(r, 0, 1e-12) {
		return make([]float64, 6)
	}
	θ := math.Atan2(R[1], R[0])
	φ := math.Asin(R[2] / r)
	sθ, cθ := math.Sincos(θ)
	sφ, cφ := math.Sincos(φ)
	vR := dot(R, V) / r
	vθ := -V[0]*sθ + V[1]*cθ
	vφ := -V[0]*sφ*cθ - V[1]*sφ*sθ + V[2]*cφ
	return []float64{r, θ, φ, vR, vθ, vφ}
}

// Spherical2CartesianState converts a 6x1 spherical state [r θ φ vR vθ vφ] back
// to Cartesian. The last three components are rotated through the local basis,
// so the same conversion applies to (position, acceleration) pairs.
func Spherical2CartesianState(s []float64) []float64 {
	r, θ, φ := s[0], s[1], s[2]
	vR, vθ, vφ := s[3], s[4], s[5]
	sθ, cθ := math.Sincos(θ)
	sφ, cφ := math.Sincos(φ)
	out := make([]float64, 6)
	out[0] = r * cφ * cθ
	out[1] = r * cφ * sθ
	out[2] = r * sφ
	out[3] = vR*cφ*cθ - vθ*sθ - vφ*sφ*cθ
	out[4] = vR*cφ*sθ + vθ*cθ - vφ*sφ*sθ
	out[5] = vR*sφ + vφ*cφ
	return out
}
