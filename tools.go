package shaping

import (
	"math"
	"time"
)

// Hohmann computes the two-impulse transfer between two circular radii about
// the given body. It returns the departure and arrival impulse magnitudes and
// the transfer time. Distances in km, velocities in km/s.
func Hohmann(rI, rF float64, body CelestialObject) (ΔvDeparture, ΔvArrival float64, tof time.Duration) {
	aTransfer := 0.5 * (rI + rF)
	vCircI := math.Sqrt(body.GM() / rI)
	vCircF := math.Sqrt(body.GM() / rF)
	vDeparture := math.Sqrt((2 * body.GM() / rI) - (body.GM() / aTransfer))
	vArrival := math.Sqrt((2 * body.GM() / rF) - (body.GM() / aTransfer))
	ΔvDeparture = math.Abs(vDeparture - vCircI)
	ΔvArrival = math.Abs(vCircF - vArrival)
	tof = time.Duration(math.Pi*math.Sqrt(math.Pow(aTransfer, 3)/body.GM())) * time.Second
	return
}

// HohmannDeltaV returns the total two-impulse deltaV between two circular
// radii, a quick reference against which shaped transfers are compared.
func HohmannDeltaV(rI, rF float64, body CelestialObject) float64 {
	ΔvD, ΔvA, _ := Hohmann(rI, rF, body)
	return ΔvD + ΔvA
}

// CircularState returns a planar circular heliocentric Cartesian state (km,
// km/s) at the given radius and azimuth angle. It is handy to build boundary
// states for near-circular transfer studies.
func CircularState(r, θ float64, body CelestialObject) []float64 {
	v := math.Sqrt(body.GM() / r)
	sθ, cθ := math.Sincos(θ)
	return []float64{r * cθ, r * sθ, 0, -v * sθ, v * cθ, 0}
}
