package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/buildinfo"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// Default retry policy: three attempts, starting at 200ms and doubling.
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 200 * time.Millisecond
)

// Client calls a remote snapguide server.
type Client struct {
	base     string
	http     *http.Client
	attempts int
	delay    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets how often a request is attempted and the initial delay
// between attempts. The delay doubles after each failure.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://127.0.0.1:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: DefaultAttempts,
		delay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Align runs one alignment pass on the server.
func (c *Client) Align(ctx context.Context, req AlignRequest) (align.Result, error) {
	var resp AlignResponse
	if err := c.do(ctx, http.MethodPost, "/v1/align", req, &resp); err != nil {
		return align.Result{}, err
	}
	return resp.Result, nil
}

// Replay replays t on the server.
func (c *Client) Replay(ctx context.Context, t *trace.Trace) (*trace.Replay, error) {
	var rep trace.Replay
	if err := c.do(ctx, http.MethodPost, "/v1/replay", t, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// do sends the request, retrying transport failures and 5xx responses.
// Client errors are returned at once with the server's error code.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
		}
	}

	delay := c.delay
	var lastErr error
	for i := range c.attempts {
		retry, err := c.attempt(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || i == c.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte, out any) (retry bool, err error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, errors.Wrap(errors.ErrCodeInternal, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode >= 500, decodeError(resp)
	}
	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s response", path)
	}
	return false, nil
}

// decodeError turns an error response back into a coded error.
func decodeError(resp *http.Response) error {
	var e ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Code == "" {
		return errors.New(errors.ErrCodeInternal, "server returned %s", resp.Status)
	}
	return errors.New(e.Code, "server: %s", e.Message)
}
