package shaping

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestHohmannEarthMars(t *testing.T) {
	ΔvD, ΔvA, tof := Hohmann(Earth.SemiMajorAxis(), Mars.SemiMajorAxis(), Sun)
	total := ΔvD + ΔvA
	if total < 5.4 || total > 5.8 {
		t.Fatalf("Earth to Mars Hohmann Δv = %f km/s", total)
	}
	days := tof.Hours() / 24
	if days < 255 || days > 263 {
		t.Fatalf("Earth to Mars Hohmann transfer lasts %f days", days)
	}
	if !floats.EqualWithinAbs(HohmannDeltaV(Earth.SemiMajorAxis(), Mars.SemiMajorAxis(), Sun), total, 1e-12) {
		t.Fatal("HohmannDeltaV must match the sum of the impulses")
	}
}

func TestHohmannSymmetry(t *testing.T) {
	out, _, tofOut := Hohmann(Earth.SemiMajorAxis(), Mars.SemiMajorAxis(), Sun)
	_, in, tofIn := Hohmann(Mars.SemiMajorAxis(), Earth.SemiMajorAxis(), Sun)
	if !floats.EqualWithinAbs(out, in, 1e-9) {
		t.Fatal("outbound departure impulse must equal inbound arrival impulse")
	}
	if tofOut != tofIn {
		t.Fatal("transfer time must not depend on the direction")
	}
}

func TestCircularState(t *testing.T) {
	r := Earth.SemiMajorAxis()
	state := CircularState(r, Deg2rad(120), Sun)
	if !floats.EqualWithinAbs(norm(state[:3]), r, 1e-6) {
		t.Fatal("wrong radius")
	}
	vCirc := math.Sqrt(Sun.GM() / r)
	if !floats.EqualWithinAbs(norm(state[3:]), vCirc, 1e-9) {
		t.Fatal("wrong speed")
	}
	if !floats.EqualWithinAbs(dot(state[:3], state[3:]), 0, 1e-3) {
		t.Fatal("circular states have orthogonal position and velocity")
	}
}
