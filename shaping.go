package shaping

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
)

// SphericalShaping is an analytic low-thrust transfer shape between two fixed
// boundary states. The radial distance and the elevation angle are composite
// functions of the azimuth angle θ; their coefficients are solved from the
// boundary conditions except for one free radial coefficient, which is tuned
// until the time of flight matches its required value.
//
// All internal computation is non-dimensional: lengths are in AU and times in
// Julian years. Dimensional values (km, km/s, seconds) only appear at the
// exported boundary.
type SphericalShaping struct {
	body        CelestialObject
	μ           float64 // normalized gravitational parameter
	requiredTOF float64 // normalized required time of flight
	revolutions int
	epoch       time.Time
	cfg         ShapeConfig

	initialState []float64 // normalized Cartesian state at departure
	finalState   []float64 // normalized Cartesian state at arrival

	initialSpherical []float64 // [r θ φ vR vθ vφ]
	finalSpherical   []float64
	initialByθ       []float64 // same, but derivatives taken w.r.t. θ instead of time
	finalByθ         []float64

	θ0, θf float64

	radial          *CompositeRadialFunction
	elevation       *CompositeElevationFunction
	freeCoefficient float64

	invBoundary *mat64.Dense // cached inverse of the boundary condition matrix
	quadrature  *QuadratureEngine
	timeMap     *TimeAzimuthMap
}

// NewSphericalShaping shapes a transfer from the initial to the final Cartesian
// state (km and km/s, 6 components each) about the provided central body, in
// the given time of flight and number of full revolutions. The departure epoch
// anchors calendar queries on the resulting time to azimuth map.
//
// Construction fails with a SingularBoundarySystemError for degenerate boundary
// geometries, and with a RootFindingNonconvergenceError (or an
// InfeasibleShapeError) when no free coefficient within the configured bounds
// matches the required time of flight.
func NewSphericalShaping(initial, final []float64, tof time.Duration, revolutions int, body CelestialObject, epoch time.Time, cfg ShapeConfig) (*SphericalShaping, error) {
	if len(initial) != 6 || len(final) != 6 {
		return nil, errors.New("boundary states must have exactly six components")
	}
	if revolutions < 0 {
		return nil, errors.New("number of revolutions must be non-negative")
	}
	if tof <= 0 {
		return nil, errors.New("required time of flight must be positive")
	}
	cfg = cfg.normalized()

	s := &SphericalShaping{
		body:        body,
		μ:           body.GM() * JulianYear * JulianYear / (AU * AU * AU),
		requiredTOF: tof.Seconds() / JulianYear,
		revolutions: revolutions,
		epoch:       epoch,
		cfg:         cfg,
		radial:      NewCompositeRadialFunction(),
		elevation:   NewCompositeElevationFunction(),
	}

	s.initialState = normalizeState(initial)
	s.finalState = normalizeState(final)

	s.initialSpherical = Cartesian2SphericalState(s.initialState)
	s.finalSpherical = Cartesian2SphericalState(s.finalState)
	if s.initialSpherical[1] < 0 {
		s.initialSpherical[1] += 2 * math.Pi
	}
	if s.finalSpherical[1] < 0 {
		s.finalSpherical[1] += 2 * math.Pi
	}

	s.θ0 = s.initialSpherical[1]
	// The azimuth angle accumulates: the arrival angle always exceeds the
	// departure angle by the requested number of full turns.
	if s.finalSpherical[1]-s.initialSpherical[1] < 0 {
		s.θf = s.finalSpherical[1] + 2*math.Pi*float64(revolutions+1)
	} else {
		s.θf = s.finalSpherical[1] + 2*math.Pi*float64(revolutions)
	}

	s.initialByθ = parametrizeByAzimuth(s.initialSpherical)
	s.finalByθ = parametrizeByAzimuth(s.finalSpherical)

	if err := s.computeInverseBoundaryMatrix(); err != nil {
		return nil, err
	}
	s.quadrature = NewQuadratureEngine(s.θ0, cfg.QuadratureOrder)

	if err := s.iterateToMatchRequiredTimeOfFlight(); err != nil {
		return nil, err
	}
	if err := s.buildTimeAzimuthMap(); err != nil {
		return nil, err
	}
	return s, nil
}

// normalizeState converts a dimensional Cartesian state (km, km/s) to AU and
// AU per Julian year.
func normalizeState(state []float64) []float64 {
	out := make([]float64, 6)
	for i := 0; i < 3; i++ {
		out[i] = state[i] / AU
		out[i+3] = state[i+3] * JulianYear / AU
	}
	return out
}

// parametrizeByAzimuth divides the velocity components of a spherical state by
// dθ/dt, so that the last three entries are derivatives w.r.t. the azimuth
// angle instead of time.
func parametrizeByAzimuth(sph []float64) []float64 {
	θDot := sph[4] / (sph[0] * math.Cos(sph[2]))
	return []float64{sph[0], sph[1], sph[2], sph[3] / θDot, sph[4] / θDot, sph[5] / θDot}
}

// initialAlpha and finalAlpha are the elevation coupling factors of the
// curvature rows of the boundary condition matrix.
func alphaValue(p []float64) float64 {
	dφ := p[5] / p[0]
	cφ := math.Cos(p[2])
	return -(p[3] * p[5] / p[0]) / (dφ*dφ + cφ*cφ)
}

// boundaryConstant evaluates the curvature consistency constant at a boundary,
// from the θ-parametrized state and the spherical state.
func (s *SphericalShaping) boundaryConstant(p, sph []float64) float64 {
	r := p[0]
	φ := p[2]
	dr := p[3]
	dφ := p[5] / p[0]
	dtdθ := (p[0] * math.Cos(p[2])) / sph[4]
	sφ, cφ := math.Sincos(φ)
	return -s.μ*dtdθ*dtdθ/(r*r) +
		2*dr*dr/r +
		r*(dφ*dφ+cφ*cφ) -
		dr*dφ*(sφ*cφ)/(dφ*dφ+cφ*cφ)
}

// computeInverseBoundaryMatrix assembles the 10x10 boundary condition matrix
// and caches its inverse. The matrix only depends on the boundary azimuth
// angles and the basis structure, not on the free coefficient.
func (s *SphericalShaping) computeInverseBoundaryMatrix() error {
	m := mat64.NewDense(10, 10, nil)
	r0 := s.initialSpherical[0]
	rf := s.finalSpherical[0]
	for i := 0; i < 6; i++ {
		// Skip the free coefficient column.
		index := i
		if i >= freeCoefficientIndex {
			index = i + 1
		}
		m.Set(0, i, s.radial.ComponentAt(index, 0, s.θ0))
		m.Set(1, i, s.radial.ComponentAt(index, 0, s.θf))
		m.Set(2, i, s.radial.ComponentAt(index, 1, s.θ0))
		m.Set(3, i, s.radial.ComponentAt(index, 1, s.θf))
		m.Set(4, i, -r0*r0*s.radial.ComponentAt(index, 2, s.θ0))
		m.Set(5, i, -rf*rf*s.radial.ComponentAt(index, 2, s.θf))
	}
	α0 := alphaValue(s.initialByθ)
	αf := alphaValue(s.finalByθ)
	for i := 0; i < 4; i++ {
		m.Set(4, i+6, α0*s.elevation.ComponentAt(i, 2, s.θ0))
		m.Set(5, i+6, αf*s.elevation.ComponentAt(i, 2, s.θf))
		m.Set(6, i+6, s.elevation.ComponentAt(i, 0, s.θ0))
		m.Set(7, i+6, s.elevation.ComponentAt(i, 0, s.θf))
		m.Set(8, i+6, s.elevation.ComponentAt(i, 1, s.θ0))
		m.Set(9, i+6, s.elevation.ComponentAt(i, 1, s.θf))
	}
	var inv mat64.Dense
	if err := inv.Inverse(m); err != nil {
		return SingularBoundarySystemError{cause: err}
	}
	s.invBoundary = &inv
	return nil
}

// satisfyBoundaryConditions solves the boundary condition system for the given
// free coefficient value and resets both composite functions. It performs no
// bound checking: the search window is enforced by the root finder only.
func (s *SphericalShaping) satisfyBoundaryConditions(free float64) {
	p0 := s.initialByθ
	pf := s.finalByθ
	r0 := p0[0]
	rf := pf[0]

	b := mat64.NewVector(10, nil)
	b.SetVec(0, 1/r0)
	b.SetVec(1, 1/rf)
	b.SetVec(2, -p0[3]/(r0*r0))
	b.SetVec(3, -pf[3]/(rf*rf))
	b.SetVec(4, s.boundaryConstant(p0, s.initialSpherical)-2*p0[3]*p0[3]/r0)
	b.SetVec(5, s.boundaryConstant(pf, s.finalSpherical)-2*pf[3]*pf[3]/rf)
	b.SetVec(6, p0[2])
	b.SetVec(7, pf[2])
	b.SetVec(8, p0[5]/r0)
	b.SetVec(9, pf[5]/rf)

	// Contribution of the free (θ²) component, moved to the right hand side.
	contrib := mat64.NewVector(10, nil)
	contrib.SetVec(0, s.radial.ComponentAt(freeCoefficientIndex, 0, s.θ0))
	contrib.SetVec(1, s.radial.ComponentAt(freeCoefficientIndex, 0, s.θf))
	contrib.SetVec(2, s.radial.ComponentAt(freeCoefficientIndex, 1, s.θ0))
	contrib.SetVec(3, s.radial.ComponentAt(freeCoefficientIndex, 1, s.θf))
	contrib.SetVec(4, -r0*r0*s.radial.ComponentAt(freeCoefficientIndex, 2, s.θ0))
	contrib.SetVec(5, -rf*rf*s.radial.ComponentAt(freeCoefficientIndex, 2, s.θf))
	b.AddScaledVec(b, -free, contrib)

	var x mat64.Vector
	x.MulVec(s.invBoundary, b)

	radialCoeffs := mat64.NewVector(7, nil)
	for i := 0; i < 6; i++ {
		if i < freeCoefficientIndex {
			radialCoeffs.SetVec(i, x.At(i, 0))
		} else {
			radialCoeffs.SetVec(i+1, x.At(i, 0))
		}
	}
	radialCoeffs.SetVec(freeCoefficientIndex, free)
	elevationCoeffs := mat64.NewVector(4, nil)
	for i := 0; i < 4; i++ {
		elevationCoeffs.SetVec(i, x.At(i+6, 0))
	}

	s.radial.ResetCoefficients(radialCoeffs)
	s.elevation.ResetCoefficients(elevationCoeffs)
	s.freeCoefficient = free
}

// scalarFunctionTimeEquation evaluates S(θ), whose sign indicates whether the
// instantaneous curvature points toward the central body.
func (s *SphericalShaping) scalarFunctionTimeEquation(θ float64) float64 {
	r := s.radial.Evaluate(θ)
	dr := s.radial.FirstDerivative(θ)
	d2r := s.radial.SecondDerivative(θ)
	φ := s.elevation.Evaluate(θ)
	dφ := s.elevation.FirstDerivative(θ)
	d2φ := s.elevation.SecondDerivative(θ)
	sφ, cφ := math.Sincos(φ)
	return -d2r + 2*dr*dr/r +
		dr*dφ*(d2φ-sφ*cφ)/(dφ*dφ+cφ*cφ) +
		r*(dφ*dφ+cφ*cφ)
}

// derivativeScalarFunctionTimeEquation evaluates dS/dθ in closed form.
func (s *SphericalShaping) derivativeScalarFunctionTimeEquation(θ float64) float64 {
	r := s.radial.Evaluate(θ)
	dr := s.radial.FirstDerivative(θ)
	d2r := s.radial.SecondDerivative(θ)
	d3r := s.radial.ThirdDerivative(θ)
	φ := s.elevation.Evaluate(θ)
	dφ := s.elevation.FirstDerivative(θ)
	d2φ := s.elevation.SecondDerivative(θ)
	d3φ := s.elevation.ThirdDerivative(θ)

	cφ := math.Cos(φ)
	s2φ := math.Sin(2 * φ)
	c2φ := math.Cos(2 * φ)
	F1 := dφ*dφ + cφ*cφ
	F2 := d2φ - s2φ/2
	F3 := c2φ + 2*dφ*dφ + 1
	F4 := 2*d2φ - s2φ

	return F1*dr - d3r -
		2*dr*dr*dr/(r*r) +
		4*dr*d2r/r +
		F4*dφ*r +
		2*dφ*dr*(d3φ-dφ*c2φ)/F3 +
		F2*dφ*d2r/F1 +
		F2*dr*d2φ/F1 -
		4*F4*F2*dφ*dφ*dr/(F3*F3)
}

// timeRate is the integrand of the time of flight: dt/dθ = √(S·r²/μ).
// A negative S aborts with an InfeasibleShapeError.
func (s *SphericalShaping) timeRate(θ float64) (float64, error) {
	S := s.scalarFunctionTimeEquation(θ)
	if S < 0 {
		return 0, InfeasibleShapeError{Angle: θ, Value: S}
	}
	r := s.radial.Evaluate(θ)
	return math.Sqrt(S * r * r / s.μ), nil
}

// NormalizedTimeOfFlight integrates dt/dθ over the full azimuth range, in
// Julian years.
func (s *SphericalShaping) NormalizedTimeOfFlight() (float64, error) {
	return s.quadrature.Integrate(s.timeRate, s.θf)
}

// TimeOfFlight returns the time of flight of the current shape.
func (s *SphericalShaping) TimeOfFlight() (time.Duration, error) {
	tof, err := s.NormalizedTimeOfFlight()
	if err != nil {
		return 0, err
	}
	return time.Duration(tof*JulianYear) * time.Second, nil
}

// timeAtAzimuth returns the normalized elapsed time from departure to θ.
func (s *SphericalShaping) timeAtAzimuth(θ float64) (float64, error) {
	return s.quadrature.Integrate(s.timeRate, θ)
}

// iterateToMatchRequiredTimeOfFlight tunes the free coefficient until the
// computed time of flight matches the requirement.
func (s *SphericalShaping) iterateToMatchRequiredTimeOfFlight() error {
	objective := func(x float64) (float64, error) {
		s.satisfyBoundaryConditions(x)
		tof, err := s.NormalizedTimeOfFlight()
		if err != nil {
			return 0, err
		}
		return s.requiredTOF - tof, nil
	}
	root, err := Bisection(objective, s.cfg.FreeCoefficientLower, s.cfg.FreeCoefficientUpper, s.cfg.FreeCoefficientGuess, s.cfg.RootFinder)
	if err != nil {
		return fmt.Errorf("time of flight iteration failed: %w", err)
	}
	// Leave the shape solved at the converged value.
	s.satisfyBoundaryConditions(root)
	return nil
}

// buildTimeAzimuthMap samples the cumulative time integral over uniformly
// spaced azimuth angles and builds the time to angle interpolation table.
func (s *SphericalShaping) buildTimeAzimuthMap() error {
	tof, err := s.NormalizedTimeOfFlight()
	if err != nil {
		return err
	}
	n := int(math.Ceil(tof * JulianYear / s.cfg.InterpolationStep))
	if n < s.cfg.InterpolationOrder {
		n = s.cfg.InterpolationOrder
	}
	times := make([]float64, n+1)
	angles := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		θ := s.θ0 + (s.θf-s.θ0)*float64(i)/float64(n)
		t, err := s.timeAtAzimuth(θ)
		if err != nil {
			return err
		}
		times[i] = t * JulianYear
		angles[i] = θ
	}
	m, err := NewTimeAzimuthMap(times, angles, s.epoch, s.cfg.InterpolationOrder)
	if err != nil {
		return err
	}
	s.timeMap = m
	return nil
}

// Map returns the converged time to azimuth angle map.
func (s *SphericalShaping) Map() *TimeAzimuthMap {
	return s.timeMap
}

// InitialAzimuthAngle returns θ at departure.
func (s *SphericalShaping) InitialAzimuthAngle() float64 {
	return s.θ0
}

// FinalAzimuthAngle returns θ at arrival, accumulated across revolutions.
func (s *SphericalShaping) FinalAzimuthAngle() float64 {
	return s.θf
}

// TravelledAzimuthAngle returns the total swept azimuth angle.
func (s *SphericalShaping) TravelledAzimuthAngle() float64 {
	return s.θf - s.θ0
}

// FreeCoefficient returns the converged free radial coefficient.
func (s *SphericalShaping) FreeCoefficient() float64 {
	return s.freeCoefficient
}

// RadialCoefficients returns a copy of the radial composite coefficients.
func (s *SphericalShaping) RadialCoefficients() *mat64.Vector {
	return s.radial.Coefficients()
}

// firstDerivativeAzimuthAngle returns dθ/dt = √(μ/(S·r²)).
func (s *SphericalShaping) firstDerivativeAzimuthAngle(θ float64) (float64, error) {
	S := s.scalarFunctionTimeEquation(θ)
	if S < 0 {
		return 0, InfeasibleShapeError{Angle: θ, Value: S}
	}
	r := s.radial.Evaluate(θ)
	return math.Sqrt(s.μ / (S * r * r)), nil
}

// secondDerivativeAzimuthAngle returns d²θ/dt².
func (s *SphericalShaping) secondDerivativeAzimuthAngle(θ float64) (float64, error) {
	dθ, err := s.firstDerivativeAzimuthAngle(θ)
	if err != nil {
		return 0, err
	}
	S := s.scalarFunctionTimeEquation(θ)
	dS := s.derivativeScalarFunctionTimeEquation(θ)
	r := s.radial.Evaluate(θ)
	dr := s.radial.FirstDerivative(θ)
	return -dθ * dθ * (dS/(2*S) + dr/r), nil
}

// velocityByAzimuth is the velocity in the local spherical basis, component
// wise differentiated w.r.t. θ instead of time.
func (s *SphericalShaping) velocityByAzimuth(θ float64) []float64 {
	r := s.radial.Evaluate(θ)
	dr := s.radial.FirstDerivative(θ)
	φ := s.elevation.Evaluate(θ)
	dφ := s.elevation.FirstDerivative(θ)
	return []float64{dr, r * math.Cos(φ), r * dφ}
}

// accelerationByAzimuth is the acceleration in the local spherical basis,
// component wise differentiated w.r.t. θ instead of time.
func (s *SphericalShaping) accelerationByAzimuth(θ float64) []float64 {
	r := s.radial.Evaluate(θ)
	dr := s.radial.FirstDerivative(θ)
	d2r := s.radial.SecondDerivative(θ)
	φ := s.elevation.Evaluate(θ)
	dφ := s.elevation.FirstDerivative(θ)
	d2φ := s.elevation.SecondDerivative(θ)
	sφ, cφ := math.Sincos(φ)
	return []float64{
		d2r - r*(dφ*dφ+cφ*cφ),
		2*dr*cφ - 2*r*dφ*sφ,
		2*dr*dφ + r*(d2φ+sφ*cφ),
	}
}

// thrustAccelerationSpherical returns the thrust acceleration required to fly
// the shape, in the local spherical basis and normalized units:
// (dθ/dt)²·a_θ + (d²θ/dt²)·v_θ + (μ/r²)·êr.
func (s *SphericalShaping) thrustAccelerationSpherical(θ float64) ([]float64, error) {
	dθ, err := s.firstDerivativeAzimuthAngle(θ)
	if err != nil {
		return nil, err
	}
	d2θ, err := s.secondDerivativeAzimuthAngle(θ)
	if err != nil {
		return nil, err
	}
	r := s.radial.Evaluate(θ)
	v := s.velocityByAzimuth(θ)
	a := s.accelerationByAzimuth(θ)
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = dθ*dθ*a[i] + d2θ*v[i]
	}
	out[0] += s.μ / (r * r)
	return out, nil
}

// sphericalState returns the full spherical state [r θ φ vR vθ vφ] at θ, with
// true (time based) velocity components.
func (s *SphericalShaping) sphericalState(θ float64) ([]float64, error) {
	dθ, err := s.firstDerivativeAzimuthAngle(θ)
	if err != nil {
		return nil, err
	}
	v := s.velocityByAzimuth(θ)
	return []float64{
		s.radial.Evaluate(θ), θ, s.elevation.Evaluate(θ),
		dθ * v[0], dθ * v[1], dθ * v[2],
	}, nil
}

// NormalizedStateAt returns the Cartesian state at θ in AU and AU per Julian year.
func (s *SphericalShaping) NormalizedStateAt(θ float64) ([]float64, error) {
	sph, err := s.sphericalState(θ)
	if err != nil {
		return nil, err
	}
	return Spherical2CartesianState(sph), nil
}

// StateAt returns the dimensional Cartesian position (km) and velocity (km/s)
// at the provided azimuth angle.
func (s *SphericalShaping) StateAt(θ float64) (R, V []float64, err error) {
	state, err := s.NormalizedStateAt(θ)
	if err != nil {
		return nil, nil, err
	}
	R = make([]float64, 3)
	V = make([]float64, 3)
	for i := 0; i < 3; i++ {
		R[i] = state[i] * AU
		V[i] = state[i+3] * AU / JulianYear
	}
	return
}

// NormalizedThrustAccelerationAt returns the Cartesian thrust acceleration at θ
// in AU per Julian year squared.
func (s *SphericalShaping) NormalizedThrustAccelerationAt(θ float64) ([]float64, error) {
	thrust, err := s.thrustAccelerationSpherical(θ)
	if err != nil {
		return nil, err
	}
	sph := []float64{
		s.radial.Evaluate(θ), θ, s.elevation.Evaluate(θ),
		thrust[0], thrust[1], thrust[2],
	}
	return Spherical2CartesianState(sph)[3:6], nil
}

// ThrustAccelerationAt returns the Cartesian thrust acceleration at θ in km/s².
func (s *SphericalShaping) ThrustAccelerationAt(θ float64) ([]float64, error) {
	acc, err := s.NormalizedThrustAccelerationAt(θ)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = acc[i] * AU / (JulianYear * JulianYear)
	}
	return out, nil
}

// ThrustAccelerationMagnitudeAt returns the thrust acceleration magnitude at θ
// in km/s².
func (s *SphericalShaping) ThrustAccelerationMagnitudeAt(θ float64) (float64, error) {
	acc, err := s.ThrustAccelerationAt(θ)
	if err != nil {
		return 0, err
	}
	return norm(acc), nil
}

// ThrustDirectionAt returns the unit thrust direction at θ.
func (s *SphericalShaping) ThrustDirectionAt(θ float64) ([]float64, error) {
	acc, err := s.NormalizedThrustAccelerationAt(θ)
	if err != nil {
		return nil, err
	}
	return unit(acc), nil
}

// DeltaV integrates the thrust acceleration magnitude over the transfer and
// returns the total velocity increment in km/s.
func (s *SphericalShaping) DeltaV() (float64, error) {
	integrand := func(θ float64) (float64, error) {
		thrust, err := s.thrustAccelerationSpherical(θ)
		if err != nil {
			return 0, err
		}
		rate, err := s.timeRate(θ)
		if err != nil {
			return 0, err
		}
		return norm(thrust) * rate, nil
	}
	Δv, err := s.quadrature.Integrate(integrand, s.θf)
	if err != nil {
		return 0, err
	}
	return Δv * AU / JulianYear, nil
}

// AngleAtTime returns the azimuth angle t seconds after departure.
func (s *SphericalShaping) AngleAtTime(t float64) (float64, error) {
	return s.timeMap.AngleAtTime(t)
}

// StateAtTime returns the dimensional Cartesian state t seconds after departure.
func (s *SphericalShaping) StateAtTime(t float64) (R, V []float64, err error) {
	θ, err := s.timeMap.AngleAtTime(t)
	if err != nil {
		return nil, nil, err
	}
	return s.StateAt(θ)
}

// MidpointState returns the dimensional state and elapsed time (seconds) at
// half of the time of flight. It seeds the full numerical re-propagation.
func (s *SphericalShaping) MidpointState() (R, V []float64, t float64, err error) {
	tof, err := s.NormalizedTimeOfFlight()
	if err != nil {
		return nil, nil, 0, err
	}
	t = tof * JulianYear / 2
	R, V, err = s.StateAtTime(t)
	return
}
