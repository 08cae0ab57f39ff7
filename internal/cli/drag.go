package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/feedback"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// dragOptions holds the flags of the drag command.
type dragOptions struct {
	record bool
	name   string
	grid   bool
	noBell bool
}

// dragCommand creates the interactive drag command.
func (c *CLI) dragCommand() *cobra.Command {
	opts := dragOptions{}

	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Drag a box around an interactive terminal canvas",
		Long: `Open an interactive canvas and drag the box with the mouse.

The box snaps to the canvas edges and center. Center guides light up while
the box is held on them, and the terminal bell rings when it snaps.
With --record the session is saved as a trace that can be replayed later.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDrag(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.record, "record", false, "record the session as a trace")
	cmd.Flags().StringVar(&opts.name, "name", "", "name for the recorded trace")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "round the box to the configured grid")
	cmd.Flags().BoolVar(&opts.noBell, "no-bell", false, "do not ring the terminal bell on snap")

	return cmd
}

func (c *CLI) runDrag(cmd *cobra.Command, opts dragOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var capture *trace.Capture
	if opts.record {
		tmpl := trace.Trace{
			Name:            opts.name,
			Bounds:          cfg.Bounds(),
			Box:             cfg.BoxRect(),
			Grid:            opts.grid || cfg.Drag.Grid,
			GridStep:        cfg.Drag.GridStep,
			SnapDistance:    cfg.Snap.Distance,
			ReleaseDistance: cfg.Snap.Release,
		}
		tmpl.SetCooldown(cfg.Snap.Cooldown.Duration)
		capture = trace.NewCapture(tmpl)
	}

	var sink feedback.Sink
	if cfg.Snap.Bell && !opts.noBell {
		sink = feedback.Bell(os.Stdout)
	}

	// The canvas owns the terminal; log lines would tear it.
	c.Logger.SetOutput(io.Discard)
	model := NewDragModel(DragConfig{
		Bounds:   cfg.Bounds(),
		Box:      cfg.BoxRect(),
		Grid:     opts.grid || cfg.Drag.Grid,
		GridStep: cfg.Drag.GridStep,
		Filter:   cfg.Filter(),
		Cooldown: cfg.Snap.Cooldown.Duration,
		Sink:     sink,
		Capture:  capture,
		Logger:   c.Logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	c.Logger.SetOutput(c.logOut)
	if err != nil {
		return fmt.Errorf("drag session: %w", err)
	}

	frame := model.Frame()
	printInfo("Final box %s (snaps: %s)", formatRect(frame.Box), frame.Snaps)

	if capture == nil {
		return nil
	}
	if capture.Len() == 0 {
		printWarning("Nothing recorded")
		return nil
	}

	store, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	t := capture.Trace()
	if err := store.Save(cmd.Context(), t); err != nil {
		return err
	}
	printSuccess("Recorded %d samples", capture.Len())
	printDetail("Trace: %s", t.ID)
	printNextStep("Replay it", "snapguide replay "+t.ID[:8])
	return nil
}
