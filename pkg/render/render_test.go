package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
)

var bounds = align.NewRect(0, 0, 400, 300)

func TestCanvasLayout(t *testing.T) {
	frame := drag.Frame{Box: align.NewRect(0, 0, 100, 100)}
	c := NewCanvas(frame, bounds, 41, 31)

	if c.Cell(0, 0).Kind != Border || c.Cell(40, 30).Kind != Border {
		t.Error("corners should be border")
	}
	if got := c.Cell(20, 25).Kind; got != GuideV {
		t.Errorf("vertical guide cell = %v, want GuideV", got)
	}
	if got := c.Cell(30, 15).Kind; got != GuideH {
		t.Errorf("horizontal guide cell = %v, want GuideH", got)
	}
	// Box spans columns 0..10 and rows 0..10; its edge at column 10.
	if got := c.Cell(10, 5).Kind; got != BoxEdge {
		t.Errorf("box edge cell = %v, want BoxEdge", got)
	}
	if got := c.Cell(5, 5).Kind; got != Crosshair {
		t.Errorf("box center cell = %v, want Crosshair", got)
	}
	if got := c.Cell(3, 3).Kind; got != Box {
		t.Errorf("box interior cell = %v, want Box", got)
	}
	if got := c.Cell(99, 99); got != (Cell{}) {
		t.Errorf("out of range cell = %v, want empty", got)
	}
}

func TestCanvasHeldGuides(t *testing.T) {
	frame := drag.Frame{Box: align.NewRect(175, 10, 50, 50), CenterX: true}
	c := NewCanvas(frame, bounds, 41, 31)

	if cell := c.Cell(20, 25); cell.Kind != GuideV || !cell.Held {
		t.Errorf("vertical guide = %+v, want held", cell)
	}
	if cell := c.Cell(30, 15); cell.Held {
		t.Errorf("horizontal guide = %+v, want idle", cell)
	}
	text := c.String()
	if !strings.Contains(text, "#") || strings.Contains(text, "=") {
		t.Errorf("text should show a held vertical guide only:\n%s", text)
	}
	if lines := c.Lines(nil); len(lines) != 31 || len(lines[0]) != 41 {
		t.Errorf("Lines() = %d rows of %d", len(lines), len(lines[0]))
	}
}

func TestCanvasStyler(t *testing.T) {
	c := NewCanvas(drag.Frame{Box: align.NewRect(10, 10, 10, 10)}, bounds, 10, 5)
	lines := c.Lines(func(cell Cell, s string) string {
		if cell.Kind == Border {
			return "B"
		}
		return s
	})
	if lines[0] != strings.Repeat("B", 10) {
		t.Errorf("top line = %q", lines[0])
	}
}

func TestCanvasCoordinates(t *testing.T) {
	c := NewCanvas(drag.Frame{}, bounds, 41, 31)
	if got := c.ToCol(bounds, 200); got != 20 {
		t.Errorf("ToCol(200) = %d, want 20", got)
	}
	if got := c.ToRow(bounds, 300); got != 30 {
		t.Errorf("ToRow(300) = %d, want 30", got)
	}
	x, y := c.FromCell(bounds, 20, 15)
	if x != 200 || y != 150 {
		t.Errorf("FromCell(20,15) = (%v,%v), want (200,150)", x, y)
	}
	if got := c.ToCol(align.Rect{}, 50); got != 0 {
		t.Errorf("degenerate ToCol = %d, want 0", got)
	}
}

func TestRenderSVG(t *testing.T) {
	frame := drag.Frame{Box: align.NewRect(100, 50, 200, 200), CenterX: true}
	svg := string(RenderSVG(frame, bounds))

	for _, want := range []string{
		`viewBox="0 0 400.0 300.0"`,
		`class="guide-v held"`,
		`stroke-opacity="0.8"`,
		`class="guide-h" x1="0.0" y1="150.0"`,
		`<rect class="box" x="100.0" y="50.0" width="200.0" height="200.0"`,
		`M 100.0 150.0 L 300.0 150.0`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q\n%s", want, svg)
		}
	}
}
