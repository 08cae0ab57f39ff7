package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/trace"
)

func TestClientAlign(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/")

	res, err := c.Align(context.Background(), AlignRequest{
		Previous:  align.NewRect(120, 40, 200, 200),
		Candidate: align.NewRect(101, 40, 200, 200),
		Bounds:    align.NewRect(0, 0, 400, 300),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Rect.X != 100 || !res.CenterX || !res.Snaps.Has(align.CenterX) {
		t.Errorf("result = %+v", res)
	}
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestClientReplay(t *testing.T) {
	capture := trace.NewCapture(trace.Trace{
		Bounds: align.NewRect(0, 0, 400, 300),
		Box:    align.NewRect(100, 100, 50, 50),
	})
	capture.Add(drag.Event{Phase: drag.Begin, X: 110, Y: 110})
	capture.Add(drag.Event{Phase: drag.Move, X: 12, Y: 110})

	c := NewClient(newTestServer(t).URL)
	rep, err := c.Replay(context.Background(), capture.Trace())
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Steps) != 2 || rep.Final.Box.X != 0 {
		t.Errorf("replay = %+v", rep)
	}
}

func TestClientKeepsErrorCode(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: errors.ErrCodeInvalidInput, Message: "bounds: negative size"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	_, err := c.Align(context.Background(), AlignRequest{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("client errors must not be retried, got %d calls", n)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestClientGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(2, time.Millisecond))
	err := c.Health(context.Background())
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("err = %v, want INTERNAL_ERROR", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestClientHonorsCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(srv.URL, WithRetry(5, time.Hour))
	if err := c.Health(ctx); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
