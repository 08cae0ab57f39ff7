package align

import (
	"fmt"

	"github.com/matzehuels/snapguide/pkg/observability"
)

// Timing tells an [Issuer] when proposed feedback should play.
type Timing uint8

const (
	// Immediate plays feedback as soon as it is submitted.
	Immediate Timing = iota
	// AfterRedraw holds feedback until the host finishes drawing the
	// corrected rectangle.
	AfterRedraw
)

func (t Timing) String() string {
	if t == AfterRedraw {
		return "after-redraw"
	}
	return "immediate"
}

func (t Timing) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Timing) UnmarshalText(b []byte) error {
	switch string(b) {
	case "immediate":
		*t = Immediate
	case "after-redraw":
		*t = AfterRedraw
	default:
		return fmt.Errorf("unknown timing %q", b)
	}
	return nil
}

// Token is the handle a [Decider] returns when an axis engages. The engine
// never looks inside; it only forwards tokens to the [Issuer].
type Token struct {
	Axis      Axis    `json:"axis"`
	Previous  float64 `json:"previous"`
	Reference float64 `json:"reference"`
	Default   float64 `json:"default"`
	// Crossed is set when the previous coordinate was not already on the
	// reference, i.e. this sample moved the rectangle into alignment.
	Crossed bool `json:"crossed"`
}

// Decider decides whether movement along one axis should snap to a
// reference coordinate. previous is where the axis was last shown, def is
// where the pointer would put it without alignment.
type Decider interface {
	Decide(axis Axis, previous, reference, def float64) (Token, bool)
}

// DeciderFunc adapts a function to the [Decider] interface.
type DeciderFunc func(axis Axis, previous, reference, def float64) (Token, bool)

func (f DeciderFunc) Decide(axis Axis, previous, reference, def float64) (Token, bool) {
	return f(axis, previous, reference, def)
}

// Issuer receives the tokens collected during one alignment pass.
type Issuer interface {
	Perform(tokens []Token, timing Timing)
}

// Result is the outcome of one alignment pass.
type Result struct {
	Rect   Rect    `json:"rect"`
	Snaps  AxisSet `json:"snaps"`
	Tokens []Token `json:"tokens"`
	// CenterX and CenterY report whether the center check for that
	// direction engaged on this pass. Renderers use them to emphasize the
	// center guides.
	CenterX bool `json:"center_x"`
	CenterY bool `json:"center_y"`
}

// Engine aligns dragged rectangles. It holds no per-call state; the zero
// value with a Decider set is ready to use. A nil Issuer drops tokens after
// returning them in the Result.
type Engine struct {
	Decider Decider
	Issuer  Issuer
}

// Align snaps candidate to bounds and submits the collected feedback tokens.
//
// previous is the rectangle the user saw last, candidate is where the drag
// would place it unaligned. The returned rectangle always has the size of
// candidate.
func (e *Engine) Align(previous, candidate, bounds Rect) Result {
	var tokens []Token
	res := e.Compute(previous, candidate, bounds, &tokens)
	if len(tokens) > 0 && e.Issuer != nil {
		e.Issuer.Perform(tokens, AfterRedraw)
	}
	observability.Alignment().OnAlign(res.Snaps.String(), len(tokens))
	return res
}

// Compute runs the six checks without submitting feedback. Engaged tokens
// are appended to *tokens, which the caller later flushes to an Issuer.
// Passing the list in lets a caller gather tokens from several passes before
// a single flush.
func (e *Engine) Compute(previous, candidate, bounds Rect, tokens *[]Token) Result {
	res := Result{Rect: candidate}
	start := len(*tokens)

	for _, c := range checks(previous, candidate, bounds) {
		tok, ok := e.Decider.Decide(c.axis, c.previous, c.reference, c.def)
		switch c.axis {
		case CenterX:
			res.CenterX = ok
		case CenterY:
			res.CenterY = ok
		}
		if !ok {
			continue
		}
		if c.axis.Horizontal() {
			res.Rect.X = c.origin
		} else {
			res.Rect.Y = c.origin
		}
		res.Snaps = res.Snaps.Add(c.axis)
		*tokens = append(*tokens, tok)
	}

	res.Tokens = (*tokens)[start:len(*tokens):len(*tokens)]
	return res
}

// check is one axis test: the coordinates handed to the decider and the
// origin the rectangle takes when the axis engages.
type check struct {
	axis      Axis
	previous  float64
	reference float64
	def       float64
	origin    float64
}

// checks builds the six axis tests in evaluation order. References are
// measured in the container's own coordinate space, whose origin is 0.
func checks(previous, candidate, bounds Rect) [axisCount]check {
	w, h := candidate.Width, candidate.Height
	midX, midY := bounds.Width/2, bounds.Height/2
	return [axisCount]check{
		{Left, previous.MinX(), 0, candidate.MinX(), 0},
		{Right, previous.MaxX(), bounds.Width, candidate.MaxX(), bounds.Width - w},
		{Top, previous.MinY(), 0, candidate.MinY(), 0},
		{Bottom, previous.MaxY(), bounds.Height, candidate.MaxY(), bounds.Height - h},
		{CenterX, previous.MidX(), midX, candidate.MidX(), midX - w/2},
		{CenterY, previous.MidY(), midY, candidate.MidY(), midY - h/2},
	}
}
