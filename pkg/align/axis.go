package align

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Axis identifies one of the six alignment checks.
type Axis uint8

// Axes in evaluation order. The order is significant: a later check on the
// same direction overwrites the coordinate chosen by an earlier one.
const (
	Left Axis = iota
	Right
	Top
	Bottom
	CenterX
	CenterY

	axisCount
)

// Order lists every axis in the order the engine evaluates them.
var Order = [...]Axis{Left, Right, Top, Bottom, CenterX, CenterY}

var axisNames = [...]string{
	Left:    "left",
	Right:   "right",
	Top:     "top",
	Bottom:  "bottom",
	CenterX: "center-x",
	CenterY: "center-y",
}

func (a Axis) String() string {
	if a < axisCount {
		return axisNames[a]
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// Horizontal reports whether the axis moves the rectangle along x.
func (a Axis) Horizontal() bool {
	return a == Left || a == Right || a == CenterX
}

// Center reports whether the axis aligns centers rather than edges.
func (a Axis) Center() bool {
	return a == CenterX || a == CenterY
}

// ParseAxis converts a name produced by [Axis.String] back to an Axis.
func ParseAxis(s string) (Axis, error) {
	for i, name := range axisNames {
		if strings.EqualFold(s, name) {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

func (a Axis) MarshalText() ([]byte, error) {
	if a >= axisCount {
		return nil, fmt.Errorf("invalid axis %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// AxisSet is a set of axes.
type AxisSet uint8

// Add returns s with a included.
func (s AxisSet) Add(a Axis) AxisSet { return s | 1<<a }

// Has reports whether a is in s.
func (s AxisSet) Has(a Axis) bool { return s&(1<<a) != 0 }

// Empty reports whether no axis is in s.
func (s AxisSet) Empty() bool { return s == 0 }

// Axes returns the members of s in evaluation order.
func (s AxisSet) Axes() []Axis {
	var out []Axis
	for _, a := range Order {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AxisSet) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, axisCount)
	for _, a := range s.Axes() {
		names = append(names, a.String())
	}
	return strings.Join(names, ",")
}

// MarshalJSON encodes the set as an array of axis names.
func (s AxisSet) MarshalJSON() ([]byte, error) {
	axes := s.Axes()
	if axes == nil {
		axes = []Axis{}
	}
	return json.Marshal(axes)
}

func (s *AxisSet) UnmarshalJSON(b []byte) error {
	var axes []Axis
	if err := json.Unmarshal(b, &axes); err != nil {
		return err
	}
	var out AxisSet
	for _, a := range axes {
		out = out.Add(a)
	}
	*s = out
	return nil
}
