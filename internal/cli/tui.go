package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
	"github.com/matzehuels/snapguide/pkg/feedback"
	"github.com/matzehuels/snapguide/pkg/render"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// Canvas styles
var (
	canvasBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
	canvasGuideStyle  = lipgloss.NewStyle().Foreground(colorDim)
	canvasHeldStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	canvasEdgeStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	canvasCrossStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	canvasDragStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// canvasTop is the terminal row the canvas starts on.
const canvasTop = 2

// flashFor is how long the last feedback stays in the status line.
const flashFor = 600 * time.Millisecond

// redrawnMsg is delivered once the frame produced by a pointer event has
// been handed to the renderer.
type redrawnMsg struct{}

// =============================================================================
// DragModel - Interactive drag session
// =============================================================================

// DragConfig configures an interactive drag session.
type DragConfig struct {
	Bounds   align.Rect
	Box      align.Rect
	Grid     bool
	GridStep float64
	Filter   *feedback.Filter
	Cooldown time.Duration
	// Sink receives played feedback in addition to the status line, e.g.
	// the terminal bell.
	Sink feedback.Sink
	// Capture records accepted events when set.
	Capture *trace.Capture
	Logger  *log.Logger
}

// DragModel is the bubbletea model for the interactive drag canvas.
type DragModel struct {
	tracker *drag.Tracker
	player  *feedback.Player
	capture *trace.Capture
	now     func() time.Time

	canvas *render.Canvas
	cols   int
	rows   int

	flash   []align.Axis
	flashAt time.Time
}

// NewDragModel creates the drag model and the alignment pipeline behind it.
func NewDragModel(cfg DragConfig) *DragModel {
	m := &DragModel{
		capture: cfg.Capture,
		now:     time.Now,
		cols:    64,
		rows:    21,
	}
	filter := cfg.Filter
	if filter == nil {
		filter = feedback.NewFilter(0, 0)
	}
	m.player = feedback.NewPlayer(
		feedback.Sinks(m.Sink, cfg.Sink),
		feedback.WithCooldown(cfg.Cooldown),
		feedback.WithClock(func() time.Time { return m.now() }),
	)
	eng := &align.Engine{Decider: filter, Issuer: m.player}
	m.tracker = drag.New(eng, drag.Options{
		Bounds:   cfg.Bounds,
		Box:      cfg.Box,
		Grid:     cfg.Grid,
		GridStep: cfg.GridStep,
		Logger:   cfg.Logger,
	})
	m.redraw()
	return m
}

// Sink records played feedback for the status line.
func (m *DragModel) Sink(tokens []align.Token) {
	m.flash = m.flash[:0]
	for _, t := range tokens {
		m.flash = append(m.flash, t.Axis)
	}
	m.flashAt = m.now()
}

// Frame returns the tracker's current frame.
func (m *DragModel) Frame() drag.Frame { return m.tracker.Frame() }

func (m *DragModel) Init() tea.Cmd {
	return nil
}

func (m *DragModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.cols = max(16, min(msg.Width-1, 120))
		m.rows = max(8, min(msg.Height-canvasTop-3, 40))
		m.redraw()
	case tea.MouseMsg:
		ev, ok := m.pointerEvent(msg)
		if !ok {
			return m, nil
		}
		return m, m.handle(ev)
	case redrawnMsg:
		m.player.DrawCompleted()
	}
	return m, nil
}

// pointerEvent converts a terminal mouse event into container coordinates.
func (m *DragModel) pointerEvent(msg tea.MouseMsg) (drag.Event, bool) {
	var phase drag.Phase
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		phase = drag.Begin
	case msg.Action == tea.MouseActionMotion:
		phase = drag.Move
	case msg.Action == tea.MouseActionRelease:
		phase = drag.End
	default:
		return drag.Event{}, false
	}
	col := max(0, min(m.cols-1, msg.X))
	row := max(0, min(m.rows-1, msg.Y-canvasTop))
	x, y := m.canvas.FromCell(m.tracker.Bounds(), col, row)
	return drag.Event{Phase: phase, X: x, Y: y}, true
}

// handle feeds ev to the tracker. Feedback queued by the pass is released
// once the new frame has been drawn.
func (m *DragModel) handle(ev drag.Event) tea.Cmd {
	if _, ok := m.tracker.Handle(ev); !ok {
		return nil
	}
	if m.capture != nil {
		m.capture.Add(ev)
	}
	m.redraw()
	if m.player.Pending() == 0 {
		return nil
	}
	return func() tea.Msg { return redrawnMsg{} }
}

func (m *DragModel) redraw() {
	m.canvas = render.NewCanvas(m.tracker.Frame(), m.tracker.Bounds(), m.cols, m.rows)
}

func (m *DragModel) View() string {
	var b strings.Builder
	frame := m.tracker.Frame()

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("drag the box with the mouse  q quit"))
	b.WriteString("\n\n")

	style := canvasStyler(frame.Dragging)
	for _, line := range m.canvas.Lines(style) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.status(frame))
	return b.String()
}

func (m *DragModel) status(frame drag.Frame) string {
	parts := []string{
		listDimStyle.Render("box ") + StyleValue.Render(formatRect(frame.Box)),
		listDimStyle.Render("snaps ") + StyleNumber.Render(frame.Snaps.String()),
	}
	if m.capture != nil {
		parts = append(parts, listDimStyle.Render("rec ")+StyleWarning.Render(fmt.Sprintf("%d", m.capture.Len())))
	}
	if len(m.flash) > 0 && m.now().Sub(m.flashAt) < flashFor {
		parts = append(parts, StyleSuccess.Render("snap "+formatAxes(m.flash)))
	}
	return strings.Join(parts, "   ")
}

// canvasStyler colors canvas cells; held guides stand out.
func canvasStyler(dragging bool) render.Styler {
	return func(c render.Cell, s string) string {
		switch c.Kind {
		case render.Border:
			return canvasBorderStyle.Render(s)
		case render.GuideH, render.GuideV:
			if c.Held {
				return canvasHeldStyle.Render(s)
			}
			return canvasGuideStyle.Render(s)
		case render.BoxEdge:
			if dragging {
				return canvasDragStyle.Render(s)
			}
			return canvasEdgeStyle.Render(s)
		case render.Crosshair:
			return canvasCrossStyle.Render(s)
		}
		return s
	}
}
