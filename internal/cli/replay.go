package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/api"
	"github.com/matzehuels/snapguide/pkg/render"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// replayOptions holds the flags of the replay command.
type replayOptions struct {
	json   bool
	svg    string
	remote string
}

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	opts := replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <trace-id|file>",
		Short: "Replay a recorded trace through the alignment engine",
		Long: `Replay a recorded drag session and show every alignment pass.

The argument is a stored trace ID (any unique prefix works) or the path of a
trace file (.json, or .yaml/.yml). Feedback is replayed with the recorded timing, so the
cooldown behaves as it did during recording.`,
		Example: `  snapguide replay 3f2a
  snapguide replay session.json --svg final.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the replay as JSON")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "also write the final frame as SVG to this file")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "replay on a snapguide server at this URL")

	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, ref string, opts replayOptions) error {
	t, err := c.loadTrace(cmd.Context(), ref)
	if err != nil {
		return err
	}

	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)
	var rep *trace.Replay
	if opts.remote != "" {
		rep, err = api.NewClient(opts.remote).Replay(cmd.Context(), t)
	} else {
		rep, err = trace.Run(t, logger)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d samples", len(rep.Steps)))

	if opts.svg != "" {
		if err := os.WriteFile(opts.svg, render.RenderSVG(rep.Final, t.Bounds), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintln(out, replayTable(rep))
	printKeyValue("Trace", t.String())
	printKeyValue("Final", formatRect(rep.Final.Box))
	printKeyValue("Feedback", strconv.Itoa(rep.Played))
	if opts.svg != "" {
		printFile(opts.svg)
	}
	return nil
}

// loadTrace reads ref as a file when one exists at that path, otherwise it
// resolves ref against the configured store.
func (c *CLI) loadTrace(ctx context.Context, ref string) (*trace.Trace, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		c.Logger.Debug("reading trace file", "path", ref)
		switch strings.ToLower(filepath.Ext(ref)) {
		case ".yaml", ".yml":
			return trace.ReadYAML(f)
		}
		return trace.Read(f)
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return trace.Resolve(ctx, store, ref)
}

// replayTable renders one row per replayed sample.
func replayTable(rep *trace.Replay) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(rep.Steps))
	for i, s := range rep.Steps {
		accepted := ""
		if s.Accepted {
			accepted = "✓"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.FormatInt(s.Sample.AtMillis, 10),
			s.Sample.Phase.String(),
			fmt.Sprintf("%g,%g", s.Sample.X, s.Sample.Y),
			accepted,
			formatRect(s.Frame.Box),
			strings.ReplaceAll(s.Frame.Snaps.String(), ",", ", "),
			formatAxes(s.Feedback),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ms", "Phase", "Pointer", "", "Box", "Snaps", "Feedback").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(rep.Steps) {
				return lipgloss.NewStyle()
			}
			step := rep.Steps[row]
			switch {
			case col == 7 && len(step.Feedback) > 0:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case !step.Accepted:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 0 || col == 1:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
