package shaping

import (
	"errors"
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// DefaultInterpolationOrder is the number of stencil points of the Lagrange
	// interpolator used by the time to azimuth angle map.
	DefaultInterpolationOrder = 8
)

// TimeAzimuthMap converts physical time since departure into the azimuth angle
// of a converged shape. It is built once from quadrature samples and is
// read-only afterward.
type TimeAzimuthMap struct {
	times  []float64 // seconds since departure, strictly increasing
	angles []float64 // rad, matching times
	epoch  time.Time // departure epoch, for calendar queries
	order  int
}

// NewTimeAzimuthMap builds a map from parallel sample tables. Times must be
// strictly increasing and count at least two samples.
func NewTimeAzimuthMap(times, angles []float64, epoch time.Time, order int) (*TimeAzimuthMap, error) {
	if len(times) != len(angles) || len(times) < 2 {
		return nil, errors.New("time to azimuth map requires at least two paired samples")
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errors.New("time samples must be strictly increasing")
		}
	}
	if order < 2 {
		order = DefaultInterpolationOrder
	}
	if order > len(times) {
		order = len(times)
	}
	t := make([]float64, len(times))
	a := make([]float64, len(angles))
	copy(t, times)
	copy(a, angles)
	return &TimeAzimuthMap{times: t, angles: a, epoch: epoch, order: order}, nil
}

// Span returns the first and last sampled times, in seconds since departure.
func (m *TimeAzimuthMap) Span() (float64, float64) {
	return m.times[0], m.times[len(m.times)-1]
}

// AngleAtTime interpolates the azimuth angle at t seconds since departure with
// a Lagrange polynomial over the nearest stencil. Queries outside the sampled
// span, beyond a small edge tolerance, return an InterpolationDomainError.
func (m *TimeAzimuthMap) AngleAtTime(t float64) (float64, error) {
	lo, hi := m.Span()
	edgeTol := 1e-9 * (hi - lo)
	if t < lo-edgeTol || t > hi+edgeTol {
		return 0, InterpolationDomainError{Time: t, Min: lo, Max: hi}
	}
	if t < lo {
		t = lo
	} else if t > hi {
		t = hi
	}
	// Center the stencil around the insertion point.
	idx := sort.SearchFloat64s(m.times, t)
	start := idx - m.order/2
	if start < 0 {
		start = 0
	}
	if start+m.order > len(m.times) {
		start = len(m.times) - m.order
	}
	ts := m.times[start : start+m.order]
	as := m.angles[start : start+m.order]
	var result float64
	for i := range ts {
		term := as[i]
		for j := range ts {
			if i == j {
				continue
			}
			term *= (t - ts[j]) / (ts[i] - ts[j])
		}
		result += term
	}
	return result, nil
}

// AngleAtEpoch interpolates the azimuth angle at the given calendar date,
// anchored on the departure epoch through Julian dates.
func (m *TimeAzimuthMap) AngleAtEpoch(dt time.Time) (float64, error) {
	Δdays := julian.TimeToJD(dt.UTC()) - julian.TimeToJD(m.epoch.UTC())
	return m.AngleAtTime(Δdays * 86400)
}

// Epoch returns the departure epoch this map is anchored on.
func (m *TimeAzimuthMap) Epoch() time.Time {
	return m.epoch
}
