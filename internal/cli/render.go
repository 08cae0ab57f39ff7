package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/render"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	format string
	output string
	cols   int
	rows   int
	step   int
}

// renderCommand creates the render command for drawing a replayed frame.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOptions{format: "svg", cols: 64, rows: 21, step: -1}

	cmd := &cobra.Command{
		Use:   "render <trace-id|file.json>",
		Short: "Draw a frame of a trace as SVG or text",
		Long: `Replay a trace and draw one of its frames.

By default the final frame is drawn. Use --step to pick an earlier sample.
SVG output shows the container, the center guides (opaque when the box is
held on them) and the box with its center mark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg or text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "text canvas width in characters")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "text canvas height in characters")
	cmd.Flags().IntVar(&opts.step, "step", opts.step, "sample index to draw (default: final frame)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, ref string, opts renderOptions) error {
	t, err := c.loadTrace(cmd.Context(), ref)
	if err != nil {
		return err
	}
	rep, err := trace.Run(t, loggerFromContext(cmd.Context()))
	if err != nil {
		return err
	}

	frame := rep.Final
	if opts.step >= 0 {
		if opts.step >= len(rep.Steps) {
			return fmt.Errorf("step %d out of range (trace has %d samples)", opts.step, len(rep.Steps))
		}
		frame = rep.Steps[opts.step].Frame
	}

	var data []byte
	switch opts.format {
	case "svg":
		data = render.RenderSVG(frame, t.Bounds)
	case "text", "txt":
		data = []byte(render.NewCanvas(frame, t.Bounds, opts.cols, opts.rows).String() + "\n")
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want svg or text)", opts.format)
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", opts.format)
	printFile(opts.output)
	return nil
}
