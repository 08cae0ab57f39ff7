package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/config"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// tracesCommand creates the trace management command.
func (c *CLI) tracesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "traces",
		Aliases: []string{"trace"},
		Short:   "Manage recorded drag traces",
	}

	cmd.AddCommand(c.tracesListCommand())
	cmd.AddCommand(c.tracesShowCommand())
	cmd.AddCommand(c.tracesExportCommand())
	cmd.AddCommand(c.tracesDeleteCommand())
	cmd.AddCommand(c.tracesClearCommand())
	cmd.AddCommand(c.tracesPathCommand())

	return cmd
}

// tracesListCommand creates the "traces list" subcommand.
func (c *CLI) tracesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored traces, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(all) == 0 {
				printInfo("No traces recorded yet")
				printNextStep("Record one", "snapguide drag --record")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryTable(all, time.Now()))
			return nil
		},
	}
}

// tracesShowCommand creates the "traces show" subcommand.
func (c *CLI) tracesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <trace-id>",
		Short: "Show the settings of a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTrace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKeyValue("ID", t.ID)
			if t.Name != "" {
				printKeyValue("Name", t.Name)
			}
			printKeyValue("Created", t.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("Bounds", formatRect(t.Bounds))
			printKeyValue("Box", formatRect(t.Box))
			if t.Grid {
				printKeyValue("Grid", fmt.Sprintf("%g", t.GridStep))
			}
			printKeyValue("Snap", fmt.Sprintf("%g / release %g", t.SnapDistance, t.ReleaseDistance))
			printKeyValue("Samples", strconv.Itoa(len(t.Samples)))
			printKeyValue("Duration", t.Duration().String())
			return nil
		},
	}
}

// tracesExportCommand creates the "traces export" subcommand.
func (c *CLI) tracesExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <trace-id>",
		Short: "Write a stored trace to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTrace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return trace.Write(cmd.OutOrStdout(), t)
			case "yaml", "yml":
				return trace.WriteYAML(cmd.OutOrStdout(), t)
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	return cmd
}

// tracesDeleteCommand creates the "traces delete" subcommand.
func (c *CLI) tracesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <trace-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored trace",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := trace.Resolve(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			printSuccess("Deleted %s", t.ID)
			return nil
		},
	}
}

// tracesClearCommand creates the "traces clear" subcommand.
func (c *CLI) tracesClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("No traces to clear")
				return nil
			}
			printSuccess("Cleared %d traces", n)
			return nil
		},
	}
}

// tracesPathCommand creates the "traces path" subcommand.
func (c *CLI) tracesPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the trace directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend == config.BackendRedis {
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d\n", cfg.Store.RedisAddr, cfg.Store.RedisDB)
				return nil
			}
			dir, err := cfg.TraceDir()
			if err != nil {
				return fmt.Errorf("get trace dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// summaryTable renders trace summaries with their age relative to now.
func summaryTable(all []trace.Summary, now time.Time) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(all))
	for i, s := range all {
		name := s.Name
		if name == "" {
			name = "—"
		}
		rows[i] = []string{s.ID[:8], name, strconv.Itoa(s.Samples), formatAge(now.Sub(s.CreatedAt), s.CreatedAt)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Samples", "Recorded").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// formatAge renders a recording age the way humans read it.
func formatAge(diff time.Duration, at time.Time) string {
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return at.Local().Format("Jan 2, 2006")
	}
}
