package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/api"
)

// shutdownGrace bounds how long in-flight requests may run after an
// interrupt.
const shutdownGrace = 5 * time.Second

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the alignment engine over HTTP",
		Long: `Serve the alignment engine as a JSON API.

Endpoints:
  GET  /healthz     liveness and version
  POST /v1/align    one alignment pass
  POST /v1/replay   replay a trace document`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.New(cfg.Filter(), loggerFromContext(cmd.Context())).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return c.serve(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: configured)")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
