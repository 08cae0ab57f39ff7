// Package cli implements the snapguide command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/buildinfo"
	"github.com/matzehuels/snapguide/pkg/config"
	"github.com/matzehuels/snapguide/pkg/observability"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "snapguide"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	logOut     io.Writer
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Snapguide snaps dragged boxes to alignment guides",
		Long:          `Snapguide aligns a dragged rectangle to the edges and center of its container, proposes haptic-style feedback when it snaps, and records drag sessions as replayable traces.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetAlignmentHooks(&logHooks{logger: c.Logger})
			observability.SetTraceHooks(&logHooks{logger: c.Logger})
			observability.SetHTTPHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/snapguide/config.toml)")

	// Register all subcommands
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tracesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Resources
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// openStore opens the configured trace store.
func (c *CLI) openStore(ctx context.Context) (trace.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Store.Backend == config.BackendRedis {
		spin := newSpinnerWithContext(ctx, "Connecting to Redis...")
		spin.Start()
		s, err := trace.NewRedisStore(ctx, trace.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			TTL:      cfg.Store.RedisTTL.Duration,
		})
		spin.Stop()
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	dir, err := cfg.TraceDir()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("using file store", "dir", dir)
	s, err := trace.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
