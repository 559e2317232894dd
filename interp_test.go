package shaping

import (
	"errors"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func linearMap(t *testing.T) *TimeAzimuthMap {
	times := make([]float64, 11)
	angles := make([]float64, 11)
	for i := range times {
		times[i] = float64(i) * 10
		angles[i] = 0.05 * times[i]
	}
	m, err := NewTimeAzimuthMap(times, angles, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), DefaultInterpolationOrder)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMapReproducesLinearData(t *testing.T) {
	m := linearMap(t)
	for _, tm := range []float64{0, 12.5, 37, 99.9, 100} {
		θ, err := m.AngleAtTime(tm)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbs(θ, 0.05*tm, 1e-9) {
			t.Fatalf("θ(%f) = %f", tm, θ)
		}
	}
}

func TestMapDomainError(t *testing.T) {
	m := linearMap(t)
	_, err := m.AngleAtTime(-5)
	var domain InterpolationDomainError
	if !errors.As(err, &domain) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if _, err := m.AngleAtTime(100.5); err == nil {
		t.Fatal("expected a domain error past the last sample")
	}
}

func TestMapEpochQueries(t *testing.T) {
	m := linearMap(t)
	θ, err := m.AngleAtEpoch(m.Epoch().Add(37 * time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(θ, 0.05*37, 1e-4) {
		t.Fatalf("θ at epoch+37s = %f", θ)
	}
}

func TestMapValidation(t *testing.T) {
	if _, err := NewTimeAzimuthMap([]float64{0}, []float64{0}, time.Now(), 8); err == nil {
		t.Fatal("a single sample must be rejected")
	}
	if _, err := NewTimeAzimuthMap([]float64{0, 1, 1}, []float64{0, 1, 2}, time.Now(), 8); err == nil {
		t.Fatal("non increasing times must be rejected")
	}
}
