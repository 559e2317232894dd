package shaping

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ExpoSinsFamily is the set of exponential sinusoid shapes
// r(θ) = k₀·exp(k₁·sin(k₂θ + φ)) connecting two heliocentric radii over a
// given travelled azimuth angle, for a fixed winding parameter k₂. Each member
// of the family is selected by the departure flight path angle γ, which must
// lie within the geometric bounds of the family.
type ExpoSinsFamily struct {
	r1, r2    float64 // normalized boundary radii
	travelled float64 // total swept azimuth angle, including revolutions
	k2        float64
	μ         float64
	logRatio  float64
	discr     float64
}

// NewExpoSinsFamily builds the shape family between the boundary radii (km),
// over the given number of revolutions plus the transfer angle ψ (rad), about
// the provided body. The family is empty when the winding parameter cannot
// connect the radii; this returns an error.
func NewExpoSinsFamily(r1, r2, ψ float64, revolutions int, k2 float64, body CelestialObject) (*ExpoSinsFamily, error) {
	if r1 <= 0 || r2 <= 0 {
		return nil, errors.New("boundary radii must be positive")
	}
	if revolutions < 0 {
		return nil, errors.New("number of revolutions must be non-negative")
	}
	if k2 <= 0 {
		return nil, errors.New("winding parameter must be positive")
	}
	f := &ExpoSinsFamily{
		r1:        r1 / AU,
		r2:        r2 / AU,
		travelled: ψ + 2*math.Pi*float64(revolutions),
		k2:        k2,
		μ:         body.GM() * JulianYear * JulianYear / (AU * AU * AU),
	}
	f.logRatio = math.Log(f.r1 / f.r2)
	f.discr = 2*(1-math.Cos(f.k2*f.travelled))/math.Pow(f.k2, 4) - f.logRatio*f.logRatio
	if f.discr < 0 {
		return nil, fmt.Errorf("no exponential sinusoid connects the radii for k2=%f over %f rad", k2, f.travelled)
	}
	return f, nil
}

// GammaBounds returns the admissible departure flight path angle window.
func (f *ExpoSinsFamily) GammaBounds() (γMin, γMax float64) {
	cot := math.Cos(f.k2*f.travelled/2) / math.Sin(f.k2*f.travelled/2)
	root := math.Sqrt(f.discr)
	γMin = math.Atan(f.k2 / 2 * (-f.logRatio*cot - root))
	γMax = math.Atan(f.k2 / 2 * (-f.logRatio*cot + root))
	return
}

// WithGamma selects the family member with the given departure flight path
// angle. Angles outside the bounds yield a shape that does not reach the
// arrival radius; this returns an error for them.
func (f *ExpoSinsFamily) WithGamma(γ float64) (*ExpoSins, error) {
	γMin, γMax := f.GammaBounds()
	if γ < γMin || γ > γMax {
		return nil, fmt.Errorf("flight path angle %f outside admissible window [%f, %f]", γ, γMin, γMax)
	}
	tanγ := math.Tan(γ)
	s := math.Sin(f.k2 * f.travelled)
	c := math.Cos(f.k2 * f.travelled)
	num := f.logRatio + tanγ/f.k2*s
	k1Sq := num*num/((1-c)*(1-c)) + tanγ*tanγ/(f.k2*f.k2)
	k1 := math.Sqrt(k1Sq)
	if num < 0 {
		k1 = -k1
	}
	φ := math.Acos(tanγ / (k1 * f.k2))
	k0 := f.r1 / math.Exp(k1*math.Sin(φ))
	return &ExpoSins{
		family: f,
		k0:     k0, k1: k1, φ: φ,
		γ1:         γ,
		quadrature: NewQuadratureEngine(0, DefaultQuadratureOrder),
	}, nil
}

// ExpoSins is a single exponential sinusoid shape. Azimuth angles are measured
// from departure, so θ runs from 0 to the travelled angle.
type ExpoSins struct {
	family     *ExpoSinsFamily
	k0, k1, φ  float64
	γ1         float64
	quadrature *QuadratureEngine
}

// NewExpoSins selects the family member whose time of flight matches the
// requirement, by a bracketed search of the departure flight path angle over
// the admissible window.
func NewExpoSins(family *ExpoSinsFamily, tof time.Duration, cfg RootConfig) (*ExpoSins, error) {
	required := tof.Seconds() / JulianYear
	γMin, γMax := family.GammaBounds()
	// Keep clear of the window edges, where the shape grazes the arrival
	// radius tangentially and the time integral degenerates.
	margin := 1e-6 * (γMax - γMin)
	γMin += margin
	γMax -= margin
	objective := func(γ float64) (float64, error) {
		shape, err := family.WithGamma(γ)
		if err != nil {
			return 0, err
		}
		computed, err := shape.NormalizedTimeOfFlight()
		if err != nil {
			return 0, err
		}
		return required - computed, nil
	}
	γ, err := Bisection(objective, γMin, γMax, (γMin+γMax)/2, cfg)
	if err != nil {
		return nil, fmt.Errorf("flight path angle search failed: %w", err)
	}
	return family.WithGamma(γ)
}

// DepartureFlightPathAngle returns the selected γ at departure.
func (e *ExpoSins) DepartureFlightPathAngle() float64 {
	return e.γ1
}

// DynamicRangeParameter returns k₁, which controls the radial excursion.
func (e *ExpoSins) DynamicRangeParameter() float64 {
	return e.k1
}

// NormalizedRadiusAt returns r(θ) in AU.
func (e *ExpoSins) NormalizedRadiusAt(θ float64) float64 {
	return e.k0 * math.Exp(e.k1*math.Sin(e.family.k2*θ+e.φ))
}

// RadiusAt returns r(θ) in km.
func (e *ExpoSins) RadiusAt(θ float64) float64 {
	return e.NormalizedRadiusAt(θ) * AU
}

// FlightPathAngleAt returns the flight path angle along the shape.
func (e *ExpoSins) FlightPathAngleAt(θ float64) float64 {
	return math.Atan(e.k1 * e.family.k2 * math.Cos(e.family.k2*θ+e.φ))
}

// timeRate is dt/dθ. The shape is infeasible where the required centripetal
// balance turns negative.
func (e *ExpoSins) timeRate(θ float64) (float64, error) {
	r := e.NormalizedRadiusAt(θ)
	tanγ := e.k1 * e.family.k2 * math.Cos(e.family.k2*θ+e.φ)
	s := math.Sin(e.family.k2*θ + e.φ)
	balance := tanγ*tanγ + e.k1*e.family.k2*e.family.k2*s + 1
	if balance <= 0 {
		return 0, InfeasibleShapeError{Angle: θ, Value: balance}
	}
	return math.Sqrt(r * r * r / e.family.μ * balance), nil
}

// AzimuthRateAt returns dθ/dt at θ, in rad per Julian year.
func (e *ExpoSins) AzimuthRateAt(θ float64) (float64, error) {
	rate, err := e.timeRate(θ)
	if err != nil {
		return 0, err
	}
	return 1 / rate, nil
}

// NormalizedTimeOfFlight integrates dt/dθ over the travelled angle, in Julian years.
func (e *ExpoSins) NormalizedTimeOfFlight() (float64, error) {
	return e.quadrature.Integrate(e.timeRate, e.family.travelled)
}

// TimeOfFlight returns the time of flight of this family member.
func (e *ExpoSins) TimeOfFlight() (time.Duration, error) {
	tof, err := e.NormalizedTimeOfFlight()
	if err != nil {
		return 0, err
	}
	return time.Duration(tof*JulianYear) * time.Second, nil
}

// ThrustAccelerationMagnitudeAt returns the tangential thrust acceleration
// needed to fly the shape at θ, in km/s².
func (e *ExpoSins) ThrustAccelerationMagnitudeAt(θ float64) (float64, error) {
	r := e.NormalizedRadiusAt(θ)
	γ := e.FlightPathAngleAt(θ)
	tanγ := math.Tan(γ)
	s := math.Sin(e.family.k2*θ + e.φ)
	balance := tanγ*tanγ + e.k1*e.family.k2*e.family.k2*s + 1
	if balance <= 0 {
		return 0, InfeasibleShapeError{Angle: θ, Value: balance}
	}
	local := e.family.μ / (r * r)
	accel := math.Abs(tanγ / (2 * math.Cos(γ)) *
		(1/balance - (e.family.k2*e.family.k2*(1-2*e.k1*s))/(balance*balance)))
	return accel * local * AU / (JulianYear * JulianYear), nil
}

// DeltaV integrates the thrust acceleration magnitude over the transfer, in km/s.
func (e *ExpoSins) DeltaV() (float64, error) {
	integrand := func(θ float64) (float64, error) {
		accel, err := e.ThrustAccelerationMagnitudeAt(θ)
		if err != nil {
			return 0, err
		}
		rate, err := e.timeRate(θ)
		if err != nil {
			return 0, err
		}
		// accel is dimensional, rate is normalized: convert at the end.
		return accel * rate, nil
	}
	Δv, err := e.quadrature.Integrate(integrand, e.family.travelled)
	if err != nil {
		return 0, err
	}
	return Δv * JulianYear, nil
}
