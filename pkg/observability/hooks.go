// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. Libraries emit events
// through the registered hooks; main decides what to do with them (log
// them, export metrics, or nothing).
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps the
// alignment engine free of any observability dependency.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAlignmentHooks(&myAlignmentHooks{})
//	    observability.SetTraceHooks(&myTraceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Alignment().OnAlign(snaps.String(), len(tokens))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Alignment Hooks
// =============================================================================

// AlignmentHooks receives events from the alignment engine and feedback
// issuers. These run on the input path, so implementations must be cheap.
type AlignmentHooks interface {
	// OnAlign records one alignment pass: the engaged axes and how many
	// feedback tokens were proposed.
	OnAlign(snaps string, tokens int)

	// OnFeedback records an issuer's decision for one token.
	OnFeedback(axis string, played bool)
}

// =============================================================================
// Trace Hooks
// =============================================================================

// TraceHooks receives events from trace stores.
type TraceHooks interface {
	OnTraceSave(ctx context.Context, backend, id string, events int, err error)
	OnTraceLoad(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAlignmentHooks is a no-op implementation of AlignmentHooks.
type NoopAlignmentHooks struct{}

func (NoopAlignmentHooks) OnAlign(string, int)     {}
func (NoopAlignmentHooks) OnFeedback(string, bool) {}

// NoopTraceHooks is a no-op implementation of TraceHooks.
type NoopTraceHooks struct{}

func (NoopTraceHooks) OnTraceSave(context.Context, string, string, int, error) {}
func (NoopTraceHooks) OnTraceLoad(context.Context, string, string, error)      {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	alignmentHooks AlignmentHooks = NoopAlignmentHooks{}
	traceHooks     TraceHooks     = NoopTraceHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetAlignmentHooks registers custom alignment hooks.
// This should be called once at application startup before any dragging.
func SetAlignmentHooks(h AlignmentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		alignmentHooks = h
	}
}

// SetTraceHooks registers custom trace store hooks.
func SetTraceHooks(h TraceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traceHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Alignment returns the registered alignment hooks.
func Alignment() AlignmentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return alignmentHooks
}

// Trace returns the registered trace hooks.
func Trace() TraceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traceHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	alignmentHooks = NoopAlignmentHooks{}
	traceHooks = NoopTraceHooks{}
	httpHooks = NoopHTTPHooks{}
}
