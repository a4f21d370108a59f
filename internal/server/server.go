// Package server exposes cardpath's graph checks and queue building
// over HTTP. The vault is rescanned per request (scan results are
// memoized by the scanner's cache), so edits to notes are picked up
// without restarting.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cardpath/cardpath/pkg/buildinfo"
	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/queue"
)

// Server handles the cardpath HTTP API.
type Server struct {
	// Source provides card records; typically a vault.Scanner.
	Source graph.RecordSource

	// Logger receives request logs. Defaults to [log.Default].
	Logger *log.Logger
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/graph/check", s.handleGraphCheck)
	r.Post("/api/queue", s.handleQueue)

	return r
}

func (s *Server) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGraphCheck(w http.ResponseWriter, r *http.Request) {
	g, err := s.buildGraph(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.Health(g))
}

// queueRequest is the POST /api/queue body.
type queueRequest struct {
	Due            []string                   `json:"due"`
	Depth          int                        `json:"depth,omitempty"`
	MaxNodes       int                        `json:"max_nodes,omitempty"`
	IncludeRelated bool                       `json:"include_related,omitempty"`
	Criteria       *queue.WeakCriteria        `json:"criteria,omitempty"`
	Stats          map[string]queue.CardStats `json:"stats,omitempty"`
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if len(req.Due) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "due must list at least one card id"))
		return
	}

	g, err := s.buildGraph(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	builder := &queue.Builder{Logger: s.logger()}
	result, err := builder.BuildGraph(r.Context(), g, req.Due, queue.Options{
		Depth:          req.Depth,
		MaxNodes:       req.MaxNodes,
		IncludeRelated: req.IncludeRelated,
		Criteria:       req.Criteria,
	}, req.Stats)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) buildGraph(ctx context.Context) (*graph.DependencyGraph, error) {
	builder := &graph.Builder{Logger: s.logger()}
	return builder.BuildFrom(ctx, s.Source)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCardID, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeCardNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidVault, errors.ErrCodeInvalidFrontmatter:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
