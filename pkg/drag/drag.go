// Package drag turns pointer events into alignment passes.
//
// A [Tracker] owns the displayed box. It hit-tests the press, keeps the
// pointer's offset into the box while dragging, clamps the box to the
// container and optionally rounds it to a grid, then asks the alignment
// engine for the corrected position. Alignment runs on every accepted
// event, release included, so a pointer that stops over a guide still
// snaps.
package drag

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapguide/pkg/align"
)

// DefaultGridStep is the grid spacing used when grid rounding is on and no
// step is configured.
const DefaultGridStep = 10.0

// Phase is the stage of a pointer gesture.
type Phase uint8

const (
	Begin Phase = iota
	Move
	End
	Cancel
)

var phaseNames = [...]string{Begin: "begin", Move: "move", End: "end", Cancel: "cancel"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("invalid phase %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if strings.EqualFold(string(b), name) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Event is one pointer sample in container coordinates.
type Event struct {
	Phase Phase   `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Frame is what a renderer needs to draw the current state.
type Frame struct {
	Box      align.Rect    `json:"box"`
	Snaps    align.AxisSet `json:"snaps"`
	CenterX  bool          `json:"center_x"`
	CenterY  bool          `json:"center_y"`
	Dragging bool          `json:"dragging"`
}

// Options configures a Tracker.
type Options struct {
	Bounds   align.Rect
	Box      align.Rect
	Grid     bool
	GridStep float64
	Logger   *log.Logger
}

// Tracker follows one box through drag gestures. It is not safe for
// concurrent use; feed it from a single input loop.
type Tracker struct {
	engine   *align.Engine
	logger   *log.Logger
	bounds   align.Rect
	gridStep float64

	frame   Frame
	offsetX float64
	offsetY float64
}

// New creates a tracker that aligns with engine.
func New(engine *align.Engine, opts Options) *Tracker {
	t := &Tracker{
		engine: engine,
		logger: opts.Logger,
		bounds: opts.Bounds,
		frame:  Frame{Box: opts.Box},
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	if opts.Grid {
		t.gridStep = opts.GridStep
		if t.gridStep <= 0 {
			t.gridStep = DefaultGridStep
		}
	}
	return t
}

// Frame returns the current state.
func (t *Tracker) Frame() Frame { return t.frame }

// Bounds returns the container rectangle.
func (t *Tracker) Bounds() align.Rect { return t.bounds }

// SetBounds changes the container and clamps the box into it.
func (t *Tracker) SetBounds(b align.Rect) {
	t.bounds = b
	t.frame.Box = ConstrainToBounds(t.frame.Box, b)
}

// Handle processes one event. It reports false when the event was ignored:
// a press outside the box, or movement while no drag is in progress.
func (t *Tracker) Handle(ev Event) (Frame, bool) {
	from := t.frame.Box

	switch ev.Phase {
	case Begin:
		t.offsetX = ev.X - from.X
		t.offsetY = ev.Y - from.Y
		if !from.Contains(ev.X, ev.Y) {
			return t.frame, false
		}
		t.frame.Dragging = true
		t.logger.Debug("drag started", "x", ev.X, "y", ev.Y, "box", from)

	case Move:
		if !t.frame.Dragging {
			return t.frame, false
		}
		to := from
		to.X = ev.X - t.offsetX
		to.Y = ev.Y - t.offsetY
		to = ConstrainToBounds(to, t.bounds)
		if t.gridStep > 0 {
			to.X = math.Round(to.X/t.gridStep) * t.gridStep
			to.Y = math.Round(to.Y/t.gridStep) * t.gridStep
		}
		t.frame.Box = to

	case End, Cancel:
		if !t.frame.Dragging {
			return t.frame, false
		}
		t.frame.Dragging = false
		t.logger.Debug("drag finished", "phase", ev.Phase, "box", from)

	default:
		return t.frame, false
	}

	res := t.engine.Align(from, t.frame.Box, t.bounds)
	t.frame.Box = res.Rect
	t.frame.Snaps = res.Snaps
	t.frame.CenterX = res.CenterX
	t.frame.CenterY = res.CenterY
	return t.frame, true
}

// ConstrainToBounds moves r so it does not leave b through the origin
// edges or the far edges. A box larger than b ends up pinned to the far
// edges.
func ConstrainToBounds(r, b align.Rect) align.Rect {
	out := r
	if r.X < 0 {
		out.X = 0
	}
	if r.Y < 0 {
		out.Y = 0
	}
	if r.MaxX() > b.Width {
		out.X = b.Width - r.Width
	}
	if r.MaxY() > b.Height {
		out.Y = b.Height - r.Height
	}
	return out
}
