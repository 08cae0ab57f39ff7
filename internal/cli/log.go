package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Replayed 42 samples (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks forwards observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnAlign(snaps string, tokens int) {
	if tokens > 0 {
		h.logger.Debug("aligned", "snaps", snaps, "tokens", tokens)
	}
}

func (h *logHooks) OnFeedback(axis string, played bool) {
	h.logger.Debug("feedback decision", "axis", axis, "played", played)
}

func (h *logHooks) OnTraceSave(_ context.Context, backend, id string, events int, err error) {
	if err != nil {
		h.logger.Warn("trace save failed", "backend", backend, "id", id, "err", err)
		return
	}
	h.logger.Debug("trace saved", "backend", backend, "id", id, "samples", events)
}

func (h *logHooks) OnTraceLoad(_ context.Context, backend, id string, err error) {
	h.logger.Debug("trace load", "backend", backend, "id", id, "err", err)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}
