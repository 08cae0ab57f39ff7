package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	a := NoopAlignmentHooks{}
	a.OnAlign("left,center-x", 2)
	a.OnFeedback("left", true)

	tr := NoopTraceHooks{}
	tr.OnTraceSave(ctx, "file", "id", 10, nil)
	tr.OnTraceLoad(ctx, "redis", "id", nil)

	h := NoopHTTPHooks{}
	h.OnResponse(ctx, "POST", "/v1/align", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Alignment().(NoopAlignmentHooks); !ok {
		t.Error("Alignment() should return NoopAlignmentHooks by default")
	}
	if _, ok := Trace().(NoopTraceHooks); !ok {
		t.Error("Trace() should return NoopTraceHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &testAlignmentHooks{}
	SetAlignmentHooks(custom)
	if Alignment() != custom {
		t.Error("SetAlignmentHooks should set custom hooks")
	}

	Alignment().OnAlign("left", 1)
	if custom.passes != 1 || custom.tokens != 1 {
		t.Errorf("custom hooks got passes=%d tokens=%d, want 1/1", custom.passes, custom.tokens)
	}

	// nil leaves the current hooks in place
	SetAlignmentHooks(nil)
	if Alignment() != custom {
		t.Error("SetAlignmentHooks(nil) should not replace hooks")
	}

	Reset()
	if _, ok := Alignment().(NoopAlignmentHooks); !ok {
		t.Error("Reset() should restore NoopAlignmentHooks")
	}
}

type testAlignmentHooks struct {
	NoopAlignmentHooks
	passes, tokens int
}

func (h *testAlignmentHooks) OnAlign(_ string, tokens int) {
	h.passes++
	h.tokens += tokens
}
