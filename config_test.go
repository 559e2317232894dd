package shaping

import "testing"

func TestShapeConfigDefaults(t *testing.T) {
	cfg := ShapeConfig{}.normalized()
	def := DefaultShapeConfig()
	if cfg.FreeCoefficientLower != def.FreeCoefficientLower || cfg.FreeCoefficientUpper != def.FreeCoefficientUpper {
		t.Fatal("zero bounds must fall back to the default window")
	}
	if cfg.RootFinder.Tolerance != def.RootFinder.Tolerance || cfg.RootFinder.MaxIterations != def.RootFinder.MaxIterations {
		t.Fatal("zero root finder settings must fall back to the defaults")
	}
	if cfg.QuadratureOrder != DefaultQuadratureOrder || cfg.InterpolationOrder != DefaultInterpolationOrder {
		t.Fatal("zero orders must fall back to the defaults")
	}
	if cfg.InterpolationStep != 86400 {
		t.Fatalf("unexpected default map step %f", cfg.InterpolationStep)
	}
}

func TestShapeConfigPartialOverride(t *testing.T) {
	cfg := ShapeConfig{QuadratureOrder: 32}.normalized()
	if cfg.QuadratureOrder != 32 {
		t.Fatal("explicit settings must survive normalization")
	}
	if cfg.InterpolationOrder != DefaultInterpolationOrder {
		t.Fatal("unset settings must still be filled in")
	}
}
