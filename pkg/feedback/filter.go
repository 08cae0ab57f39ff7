package feedback

import (
	"math"

	"github.com/matzehuels/snapguide/pkg/align"
)

// Default distances, in container units.
const (
	DefaultSnapDistance    = 6.0
	DefaultReleaseDistance = 12.0
)

// epsilon absorbs float error when checking whether an axis already sits on
// its reference (e.g. bounds.Width - w + w).
const epsilon = 1e-6

// Filter decides axis engagement with hysteresis. A free axis snaps once its
// default coordinate comes within SnapDistance of the reference. An axis
// that is already held on the reference stays engaged until the pointer
// pulls it more than ReleaseDistance away.
type Filter struct {
	SnapDistance    float64
	ReleaseDistance float64
}

// NewFilter returns a filter with the given distances. Non-positive values
// fall back to the defaults, and release never drops below snap.
func NewFilter(snap, release float64) *Filter {
	if snap <= 0 {
		snap = DefaultSnapDistance
	}
	if release <= 0 {
		release = DefaultReleaseDistance
	}
	if release < snap {
		release = snap
	}
	return &Filter{SnapDistance: snap, ReleaseDistance: release}
}

// Decide implements align.Decider.
func (f *Filter) Decide(axis align.Axis, previous, reference, def float64) (align.Token, bool) {
	held := math.Abs(previous-reference) <= epsilon
	limit := f.SnapDistance
	if held {
		limit = f.ReleaseDistance
	}
	if math.Abs(def-reference) > limit {
		return align.Token{}, false
	}
	return align.Token{
		Axis:      axis,
		Previous:  previous,
		Reference: reference,
		Default:   def,
		Crossed:   !held,
	}, true
}

var _ align.Decider = (*Filter)(nil)
