package shaping

import (
	"math"
	"os"
	"sort"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

// PropagatedState is one sample of a numerically propagated trajectory.
type PropagatedState struct {
	T float64 // seconds since departure
	R []float64
	V []float64
}

// RepropResult holds the outcome of a full numerical re-propagation of a
// converged shape: the propagated endpoint states and the sampled history,
// sorted by time since departure.
type RepropResult struct {
	Departure PropagatedState
	Arrival   PropagatedState
	History   []PropagatedState
}

// Repropagation flies the true dynamics, central gravity plus the shaped
// thrust acceleration looked up through the time to azimuth map, from the
// midpoint state of a converged shape. Two legs are integrated: backward to
// departure and forward to arrival. Comparing the propagated endpoints with
// the shape's boundary states measures how well the analytic shape satisfies
// the equations of motion.
type Repropagation struct {
	shape  *SphericalShaping
	step   time.Duration
	logger kitlog.Logger
}

// NewRepropagation prepares a re-propagation of the given shape with the given
// integration step. A nil logger falls back to stdout.
func NewRepropagation(shape *SphericalShaping, step time.Duration, logger kitlog.Logger) *Repropagation {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
		logger = kitlog.With(logger, "subsys", "reprop")
	}
	if step <= 0 {
		step = time.Hour
	}
	return &Repropagation{shape: shape, step: step, logger: logger}
}

// Run integrates both legs and returns the combined result.
func (p *Repropagation) Run() (*RepropResult, error) {
	Rmid, Vmid, tMid, err := p.shape.MidpointState()
	if err != nil {
		return nil, err
	}
	tofNorm, err := p.shape.NormalizedTimeOfFlight()
	if err != nil {
		return nil, err
	}
	tof := tofNorm * JulianYear

	p.logger.Log("level", "info", "status", "starting", "tMid(s)", tMid, "tof(s)", tof)

	forward := newRepropLeg(p.shape, Rmid, Vmid, tMid, tof-tMid, +1, p.step.Seconds())
	ode.NewRK4(0, forward.step, forward).Solve()
	if forward.err != nil {
		return nil, forward.err
	}
	backward := newRepropLeg(p.shape, Rmid, Vmid, tMid, tMid, -1, p.step.Seconds())
	ode.NewRK4(0, backward.step, backward).Solve()
	if backward.err != nil {
		return nil, backward.err
	}

	result := &RepropResult{
		Departure: backward.endpoint(),
		Arrival:   forward.endpoint(),
	}
	result.History = append(result.History, backward.history...)
	result.History = append(result.History, forward.history...)
	sort.Slice(result.History, func(i, j int) bool {
		return result.History[i].T < result.History[j].T
	})

	p.logger.Log("level", "notice", "status", "finished",
		"departure r(km)", norm(result.Departure.R),
		"arrival r(km)", norm(result.Arrival.R))
	return result, nil
}

// repropLeg integrates one leg of the re-propagation. Backward legs integrate
// the time reversed dynamics: positions are unchanged, velocities flip sign,
// and the thrust is looked up at the mirrored physical time.
type repropLeg struct {
	shape    *SphericalShaping
	μ        float64 // dimensional gravitational parameter, km³/s²
	tStart   float64 // physical seconds since departure at the leg start
	duration float64
	dir      float64 // +1 forward, -1 backward
	step     float64
	elapsed  float64
	state    []float64
	history  []PropagatedState
	err      error
}

func newRepropLeg(shape *SphericalShaping, R, V []float64, tStart, duration, dir, step float64) *repropLeg {
	state := make([]float64, 6)
	for i := 0; i < 3; i++ {
		state[i] = R[i]
		state[i+3] = dir * V[i]
	}
	// The step must divide the leg duration so the last step lands exactly on
	// the boundary.
	if duration > 0 {
		step = duration / math.Ceil(duration/step)
	}
	return &repropLeg{
		shape:    shape,
		μ:        shape.body.GM(),
		tStart:   tStart,
		duration: duration,
		dir:      dir,
		step:     step,
		state:    state,
	}
}

// physicalTime maps the integrator clock to seconds since departure.
func (l *repropLeg) physicalTime(t float64) float64 {
	pt := l.tStart + l.dir*t
	lo, hi := l.shape.Map().Span()
	if pt < lo {
		pt = lo
	} else if pt > hi {
		pt = hi
	}
	return pt
}

func (l *repropLeg) GetState() []float64 {
	s := make([]float64, 6)
	copy(s, l.state)
	return s
}

func (l *repropLeg) SetState(t float64, s []float64) {
	copy(l.state, s)
	l.elapsed = t
	sample := l.endpoint()
	l.history = append(l.history, sample)
}

func (l *repropLeg) Stop(t float64) bool {
	return l.err != nil || t > l.duration-l.step/2
}

func (l *repropLeg) Func(t float64, f []float64) []float64 {
	fDot := make([]float64, 6)
	if l.err != nil {
		return fDot
	}
	R := []float64{f[0], f[1], f[2]}
	r := norm(R)
	thrust, err := l.thrustAt(l.physicalTime(t))
	if err != nil {
		l.err = err
		return fDot
	}
	for i := 0; i < 3; i++ {
		fDot[i] = f[i+3]
		fDot[i+3] = -l.μ/math.Pow(r, 3)*R[i] + thrust[i]
	}
	return fDot
}

func (l *repropLeg) thrustAt(t float64) ([]float64, error) {
	θ, err := l.shape.AngleAtTime(t)
	if err != nil {
		return nil, err
	}
	return l.shape.ThrustAccelerationAt(θ)
}

// endpoint returns the current physical state of the leg, undoing the time
// reversal of backward legs.
func (l *repropLeg) endpoint() PropagatedState {
	R := make([]float64, 3)
	V := make([]float64, 3)
	for i := 0; i < 3; i++ {
		R[i] = l.state[i]
		V[i] = l.dir * l.state[i+3]
	}
	return PropagatedState{T: l.tStart + l.dir*l.elapsed, R: R, V: V}
}
