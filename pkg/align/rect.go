package align

import (
	"fmt"
	"math"

	"github.com/matzehuels/snapguide/pkg/errors"
)

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a rectangle from origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.Height }
func (r Rect) MidX() float64 { return r.X + r.Width/2 }
func (r Rect) MidY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point lies inside r. Points on the min edges
// are inside, points on the max edges are not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX() && x < r.MaxX() && y >= r.MinY() && y < r.MaxY()
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// SameSize reports whether r and o have identical width and height.
func (r Rect) SameSize(o Rect) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// Validate rejects rectangles the engine is not defined for: negative sizes
// and non-finite values. Callers check input before calling [Engine.Align].
func (r Rect) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"x", r.X}, {"y", r.Y}, {"width", r.Width}, {"height", r.Height},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s is not a finite number", v.name)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative size %gx%g", r.Width, r.Height)
	}
	return nil
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
