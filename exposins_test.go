package shaping

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func earthMarsFamily(t *testing.T) *ExpoSinsFamily {
	family, err := NewExpoSinsFamily(Earth.SemiMajorAxis(), Mars.SemiMajorAxis(), math.Pi/2, 1, 0.25, Sun)
	if err != nil {
		t.Fatal(err)
	}
	return family
}

func TestExpoSinsGammaBounds(t *testing.T) {
	family := earthMarsFamily(t)
	γMin, γMax := family.GammaBounds()
	if γMin >= γMax {
		t.Fatalf("degenerate flight path angle window [%f, %f]", γMin, γMax)
	}
	if _, err := family.WithGamma(γMax + 0.1); err == nil {
		t.Fatal("angles outside the window must be rejected")
	}
}

func TestExpoSinsBoundaryRadii(t *testing.T) {
	family := earthMarsFamily(t)
	γMin, γMax := family.GammaBounds()
	shape, err := family.WithGamma((γMin + γMax) / 2)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(shape.RadiusAt(0), Earth.SemiMajorAxis(), 1) {
		t.Fatalf("departure radius %f", shape.RadiusAt(0))
	}
	if !floats.EqualWithinAbs(shape.RadiusAt(family.travelled), Mars.SemiMajorAxis(), 1) {
		t.Fatalf("arrival radius %f", shape.RadiusAt(family.travelled))
	}
	if !floats.EqualWithinAbs(shape.FlightPathAngleAt(0), shape.DepartureFlightPathAngle(), 1e-9) {
		t.Fatal("flight path angle at departure must match the selected γ")
	}
}

func TestExpoSinsTimeOfFlightSearch(t *testing.T) {
	family := earthMarsFamily(t)
	γMin, γMax := family.GammaBounds()
	reference, err := family.WithGamma((γMin + γMax) / 2)
	if err != nil {
		t.Fatal(err)
	}
	tof, err := reference.TimeOfFlight()
	if err != nil {
		t.Fatal(err)
	}
	if tof <= 0 {
		t.Fatalf("non positive time of flight %s", tof)
	}
	shape, err := NewExpoSins(family, tof, DefaultRootConfig())
	if err != nil {
		t.Fatal(err)
	}
	matched, err := shape.TimeOfFlight()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(matched.Seconds(), tof.Seconds(), 120) {
		t.Fatalf("matched %s, required %s", matched, tof)
	}
}

func TestExpoSinsDeltaV(t *testing.T) {
	family := earthMarsFamily(t)
	γMin, γMax := family.GammaBounds()
	shape, err := family.WithGamma((γMin + γMax) / 2)
	if err != nil {
		t.Fatal(err)
	}
	Δv, err := shape.DeltaV()
	if err != nil {
		t.Fatal(err)
	}
	if Δv <= 0 || math.IsNaN(Δv) || Δv > 100 {
		t.Fatalf("implausible Δv %f km/s", Δv)
	}
	rate, err := shape.AzimuthRateAt(family.travelled / 2)
	if err != nil {
		t.Fatal(err)
	}
	if rate <= 0 {
		t.Fatalf("azimuth rate must be positive, got %f", rate)
	}
}

func TestExpoSinsFamilyRejectsImpossibleGeometry(t *testing.T) {
	// A tiny winding parameter over a short arc cannot bridge a factor ~10 in radius.
	if _, err := NewExpoSinsFamily(Earth.SemiMajorAxis(), 10*Earth.SemiMajorAxis(), 0.1, 0, 0.05, Sun); err == nil {
		t.Fatal("expected the family to be empty")
	}
	if _, err := NewExpoSinsFamily(-1, Mars.SemiMajorAxis(), math.Pi, 0, 0.25, Sun); err == nil {
		t.Fatal("negative radii must be rejected")
	}
}
