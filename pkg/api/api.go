// Package api exposes the alignment engine over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe
//	POST /v1/align    one alignment pass
//	POST /v1/replay   replay a posted trace and return every frame
//
// Requests are validated before reaching the engine; malformed geometry
// gets a 400 with a coded error body.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/buildinfo"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/feedback"
	"github.com/matzehuels/snapguide/pkg/observability"
	"github.com/matzehuels/snapguide/pkg/trace"
)

// maxBody caps request bodies; traces are the largest payload.
const maxBody = 4 << 20

// AlignRequest is the body of POST /v1/align.
type AlignRequest struct {
	Previous        align.Rect `json:"previous"`
	Candidate       align.Rect `json:"candidate"`
	Bounds          align.Rect `json:"bounds"`
	SnapDistance    float64    `json:"snap_distance,omitempty"`
	ReleaseDistance float64    `json:"release_distance,omitempty"`
}

// AlignResponse is the body returned by POST /v1/align.
type AlignResponse struct {
	align.Result
}

// ErrorResponse is the body of any failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Server serves the HTTP API.
type Server struct {
	logger *log.Logger
	filter *feedback.Filter
}

// New creates a server whose default snap distances come from filter.
func New(filter *feedback.Filter, logger *log.Logger) *Server {
	if filter == nil {
		filter = feedback.NewFilter(0, 0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{logger: logger, filter: filter}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/align", s.handleAlign)
		r.Post("/replay", s.handleReplay)
	})
	return r
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req AlignRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	for _, in := range []struct {
		name string
		rect align.Rect
	}{
		{"previous", req.Previous}, {"candidate", req.Candidate}, {"bounds", req.Bounds},
	} {
		if err := in.rect.Validate(); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "%s: %s", in.name, errors.UserMessage(err)))
			return
		}
	}

	filter := s.filter
	if req.SnapDistance > 0 || req.ReleaseDistance > 0 {
		filter = feedback.NewFilter(req.SnapDistance, req.ReleaseDistance)
	}
	// Feedback is the client's business; the tokens are returned instead.
	eng := align.Engine{Decider: filter}
	res := eng.Align(req.Previous, req.Candidate, req.Bounds)
	if res.Tokens == nil {
		res.Tokens = []align.Token{}
	}
	writeJSON(w, http.StatusOK, AlignResponse{Result: res})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var t trace.Trace
	if err := decode(w, r, &t); err != nil {
		s.writeError(w, err)
		return
	}
	rep, err := trace.Run(&t, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(ww, r)
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", d, "id", middleware.GetReqID(r.Context()))
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
