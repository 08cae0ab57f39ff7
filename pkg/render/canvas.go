package render

import (
	"math"
	"strings"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
)

// Kind classifies a canvas cell. Later kinds are drawn over earlier ones.
type Kind uint8

const (
	Empty Kind = iota
	Border
	GuideH
	GuideV
	Box
	BoxEdge
	Crosshair
)

// Cell is one character of the canvas.
type Cell struct {
	Kind Kind
	// Held marks a guide drawn while the box is snapped to it.
	Held bool
}

// Styler decorates the rune chosen for a cell, e.g. with terminal colors.
type Styler func(c Cell, s string) string

// Canvas is a character raster of a frame.
type Canvas struct {
	Cols, Rows int
	Cells      [][]Cell
}

// NewCanvas rasterizes frame inside bounds onto cols x rows cells.
func NewCanvas(frame drag.Frame, bounds align.Rect, cols, rows int) *Canvas {
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	c := &Canvas{Cols: cols, Rows: rows, Cells: make([][]Cell, rows)}
	for y := range c.Cells {
		c.Cells[y] = make([]Cell, cols)
	}

	for x := 0; x < cols; x++ {
		c.set(x, 0, Cell{Kind: Border})
		c.set(x, rows-1, Cell{Kind: Border})
	}
	for y := 0; y < rows; y++ {
		c.set(0, y, Cell{Kind: Border})
		c.set(cols-1, y, Cell{Kind: Border})
	}

	gx, gy := c.col(bounds, bounds.Width/2), c.row(bounds, bounds.Height/2)
	for x := 1; x < cols-1; x++ {
		c.set(x, gy, Cell{Kind: GuideH, Held: frame.CenterY})
	}
	for y := 1; y < rows-1; y++ {
		c.set(gx, y, Cell{Kind: GuideV, Held: frame.CenterX})
	}

	b := frame.Box
	x0, x1 := c.col(bounds, b.MinX()), c.col(bounds, b.MaxX())
	y0, y1 := c.row(bounds, b.MinY()), c.row(bounds, b.MaxY())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			kind := Box
			if x == x0 || x == x1 || y == y0 || y == y1 {
				kind = BoxEdge
			}
			c.set(x, y, Cell{Kind: kind})
		}
	}
	cx, cy := c.col(bounds, b.MidX()), c.row(bounds, b.MidY())
	for x := x0 + 1; x < x1; x++ {
		c.set(x, cy, Cell{Kind: Crosshair})
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(cx, y, Cell{Kind: Crosshair})
	}
	return c
}

// Cell returns the cell at (x, y); out-of-range positions are Empty.
func (c *Canvas) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return Cell{}
	}
	return c.Cells[y][x]
}

// ToCol maps a container x coordinate to a column.
func (c *Canvas) ToCol(bounds align.Rect, x float64) int { return c.col(bounds, x) }

// ToRow maps a container y coordinate to a row.
func (c *Canvas) ToRow(bounds align.Rect, y float64) int { return c.row(bounds, y) }

// FromCell maps a cell back to the container coordinate at its center.
func (c *Canvas) FromCell(bounds align.Rect, col, row int) (float64, float64) {
	return scaleBack(col, c.Cols, bounds.Width), scaleBack(row, c.Rows, bounds.Height)
}

// Lines renders the canvas as text, one string per row.
func (c *Canvas) Lines(style Styler) []string {
	out := make([]string, c.Rows)
	var b strings.Builder
	for y := 0; y < c.Rows; y++ {
		b.Reset()
		for x := 0; x < c.Cols; x++ {
			cell := c.Cells[y][x]
			s := c.glyph(x, y, cell)
			if style != nil {
				s = style(cell, s)
			}
			b.WriteString(s)
		}
		out[y] = b.String()
	}
	return out
}

// String renders the canvas without styling.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(nil), "\n")
}

func (c *Canvas) glyph(x, y int, cell Cell) string {
	switch cell.Kind {
	case Border:
		switch {
		case (x == 0 || x == c.Cols-1) && (y == 0 || y == c.Rows-1):
			return "+"
		case y == 0 || y == c.Rows-1:
			return "-"
		default:
			return "|"
		}
	case GuideH:
		if cell.Held {
			return "="
		}
		return "."
	case GuideV:
		if cell.Held {
			return "#"
		}
		return ":"
	case Box:
		return " "
	case BoxEdge:
		return "@"
	case Crosshair:
		return "+"
	default:
		return " "
	}
}

func (c *Canvas) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return
	}
	// The border stays on top so the container outline is always visible.
	if c.Cells[y][x].Kind == Border {
		return
	}
	c.Cells[y][x] = cell
}

func (c *Canvas) col(bounds align.Rect, x float64) int { return scale(x, bounds.Width, c.Cols) }
func (c *Canvas) row(bounds align.Rect, y float64) int { return scale(y, bounds.Height, c.Rows) }

// scale maps v in [0, extent] onto [0, n-1].
func scale(v, extent float64, n int) int {
	if extent <= 0 {
		return 0
	}
	i := int(math.Round(v / extent * float64(n-1)))
	return max(0, min(n-1, i))
}

func scaleBack(i, n int, extent float64) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1) * extent
}
