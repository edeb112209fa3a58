// Package server exposes the engine over HTTP.
//
// Routes:
//
//	POST /generate                         run a request, record a version
//	POST /generate/preview                 run a request without recording
//	GET  /generate/versions                list the history
//	GET  /generate/versions/{id}           one version
//	POST /generate/versions/{id}/restore   make an old version current
//	GET  /generate/versions/{id}/code      markup of a version (text/plain)
//	GET  /generate/code                    markup of the current version
//	GET  /health                           liveness
//
// Errors are RFC 7807 problem documents.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danieljhkim/uiforge/internal/clock"
	"github.com/danieljhkim/uiforge/internal/config"
	"github.com/danieljhkim/uiforge/internal/engine"
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to an Engine.
type Server struct {
	engine  *engine.Engine
	clock   clock.Clock
	logger  *slog.Logger
	cfg     config.ServerConfig
	limiter *RateLimiter
	handler http.Handler
}

// New creates a Server. A zero RateLimit disables rate limiting.
func New(eng *engine.Engine, cfg config.ServerConfig, clk clock.Clock, logger *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/preview", s.handlePreview)
	mux.HandleFunc("GET /generate/versions", s.handleVersions)
	mux.HandleFunc("GET /generate/versions/{id}", s.handleVersion)
	mux.HandleFunc("POST /generate/versions/{id}/restore", s.handleRestore)
	mux.HandleFunc("GET /generate/versions/{id}/code", s.handleCode)
	mux.HandleFunc("GET /generate/code", s.handleCode)
	mux.HandleFunc("GET /health", s.handleHealth)

	var h http.Handler = mux
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.Burst)
		h = s.limiter.Middleware(h)
	}
	h = allowCORS(h)
	s.handler = logRequests(logger, h)
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// generateBody is the body of POST /generate and POST /generate/preview.
type generateBody struct {
	UserText string `json:"userText"`
}

// previewResponse is the body returned by POST /generate/preview.
type previewResponse struct {
	Plan        *planner.Plan `json:"plan"`
	Tree        *tree.Node    `json:"tree"`
	Explanation string        `json:"explanation"`
	UserText    string        `json:"userText"`
	Fingerprint string        `json:"fingerprint"`
	BaseID      *int64        `json:"baseId,omitempty"`
	Unchanged   bool          `json:"unchanged"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeGenerate(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Generate(r.Context(), &engine.GenerateRequest{UserText: body.UserText})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Version)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeGenerate(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Preview(r.Context(), body.UserText)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	out := previewResponse{
		Plan:        res.Plan,
		Tree:        res.Tree,
		Explanation: res.Explanation,
		UserText:    res.UserText,
		Fingerprint: res.Fingerprint,
		Unchanged:   res.Unchanged,
	}
	if res.Base != nil {
		id := res.Base.ID
		out.BaseID = &id
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.engine.Versions(r.Context())
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if versions == nil {
		versions = []*stores.Version{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := s.engine.Version(r.Context(), id)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := s.engine.Restore(r.Context(), &engine.RestoreRequest{ID: id})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	req := &engine.CodeRequest{}
	if r.PathValue("id") != "" {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		req.ID = &id
	}
	res, err := s.engine.Code(r.Context(), req)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintln(w, res.Code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) decodeGenerate(w http.ResponseWriter, r *http.Request) (*generateBody, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body generateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		WriteError(w, r, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if body.UserText == "" {
		WriteError(w, r, http.StatusBadRequest, engine.ErrEmptyRequest.Error())
		return nil, false
	}
	return &body, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid version id %q", raw))
		return 0, false
	}
	return id, true
}

// writeEngineError maps engine errors to problem responses. Storage failures
// are logged and reported without detail.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrEmptyRequest):
		WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, stores.ErrVersionNotFound):
		WriteError(w, r, http.StatusNotFound, "Version not found")
	case engine.IsPipelineError(err):
		problem := NewProblem(r, http.StatusUnprocessableEntity, err.Error())
		if kind, ok := registry.InvalidKind(err); ok {
			problem.Component = string(kind)
		}
		WriteProblem(w, problem)
	default:
		s.logger.Error("internal server error", "path", r.URL.Path, "error", err)
		WriteError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
