package shaping

import (
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestRepropagationCircularCoast(t *testing.T) {
	shape := quarterArcShape(t, 0)
	result, err := NewRepropagation(shape, 6*time.Hour, nil).Run()
	if err != nil {
		t.Fatal(err)
	}
	// The propagated endpoints must land back on the shape's boundary states.
	depR, depV, err := shape.StateAt(shape.InitialAzimuthAngle())
	if err != nil {
		t.Fatal(err)
	}
	arrR, arrV, err := shape.StateAt(shape.FinalAzimuthAngle())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(result.Departure.R[i], depR[i], 500) {
			t.Fatalf("departure position component %d drifted by %f km", i, result.Departure.R[i]-depR[i])
		}
		if !floats.EqualWithinAbs(result.Departure.V[i], depV[i], 1e-3) {
			t.Fatalf("departure velocity component %d drifted", i)
		}
		if !floats.EqualWithinAbs(result.Arrival.R[i], arrR[i], 500) {
			t.Fatalf("arrival position component %d drifted by %f km", i, result.Arrival.R[i]-arrR[i])
		}
		if !floats.EqualWithinAbs(result.Arrival.V[i], arrV[i], 1e-3) {
			t.Fatalf("arrival velocity component %d drifted", i)
		}
	}
	if len(result.History) < 10 {
		t.Fatalf("expected a sampled history, got %d states", len(result.History))
	}
	for i := 1; i < len(result.History); i++ {
		if result.History[i].T < result.History[i-1].T {
			t.Fatal("history must be sorted by time")
		}
	}
}
