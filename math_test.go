package shaping

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestSphericalRoundTrip(t *testing.T) {
	state := []float64{1.2 * AU, -0.7 * AU, 0.15 * AU, 12.3, -25.1, 1.7}
	sph := Cartesian2SphericalState(state)
	back := Spherical2CartesianState(sph)
	for i := 0; i < 6; i++ {
		tol := 1e-6
		if i < 3 {
			tol = 1e-3 // km on AU scale positions
		}
		if !floats.EqualWithinAbs(back[i], state[i], tol) {
			t.Fatalf("component %d did not round trip: %f != %f", i, back[i], state[i])
		}
	}
}

func TestSphericalComponents(t *testing.T) {
	// A planar circular state has no radial nor elevation velocity.
	r := Earth.SemiMajorAxis()
	state := CircularState(r, Deg2rad(35), Sun)
	sph := Cartesian2SphericalState(state)
	if !floats.EqualWithinAbs(sph[0], r, 1e-6) {
		t.Fatalf("wrong radius: %f", sph[0])
	}
	if !floats.EqualWithinAbs(sph[2], 0, 1e-12) {
		t.Fatalf("non zero elevation: %f", sph[2])
	}
	if !floats.EqualWithinAbs(sph[3], 0, 1e-9) {
		t.Fatalf("non zero radial velocity: %f", sph[3])
	}
	vCirc := math.Sqrt(Sun.GM() / r)
	if !floats.EqualWithinAbs(sph[4], vCirc, 1e-9) {
		t.Fatalf("wrong azimuthal velocity: %f != %f", sph[4], vCirc)
	}
	if !floats.EqualWithinAbs(sph[5], 0, 1e-9) {
		t.Fatalf("non zero elevation velocity: %f", sph[5])
	}
}

func TestAngleConversions(t *testing.T) {
	if !floats.EqualWithinAbs(Deg2rad(180), math.Pi, 1e-12) {
		t.Fatal("Deg2rad(180) != π")
	}
	if !floats.EqualWithinAbs(Rad2deg(math.Pi), 180, 1e-12) {
		t.Fatal("Rad2deg(π) != 180")
	}
	if !floats.EqualWithinAbs(Deg2rad(-90), 3*math.Pi/2, 1e-12) {
		t.Fatal("negative degrees should wrap")
	}
}

func TestUnitAndSign(t *testing.T) {
	u := unit([]float64{3, 0, 4})
	if !floats.EqualWithinAbs(norm(u), 1, 1e-12) {
		t.Fatal("unit vector norm is not one")
	}
	if sign(-0.5) != -1 || sign(0.5) != 1 || sign(0) != 1 {
		t.Fatal("sign convention broken")
	}
	h := cross([]float64{1, 0, 0}, []float64{0, 1, 0})
	if h[0] != 0 || h[1] != 0 || h[2] != 1 {
		t.Fatalf("x cross y = %v", h)
	}
}
