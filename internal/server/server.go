// Package server provides the thin HTTP surface over the pipeline,
// comparison engine, and record store. Handlers only map requests and
// responses; all behavior lives in the components they call.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agentops/agentops/internal/comparison"
	"github.com/agentops/agentops/internal/pipeline"
	"github.com/agentops/agentops/internal/store"
)

// Server wires the HTTP routes to the evaluation components.
type Server struct {
	executor *pipeline.Executor
	engine   *comparison.Engine
	records  store.RecordStore
	logger   *slog.Logger
}

// New builds the server.
func New(executor *pipeline.Executor, engine *comparison.Engine, records store.RecordStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{executor: executor, engine: engine, records: records, logger: logger}
}

// Router builds the chi router with request logging.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/test-model", s.handleCompare)
		r.Get("/conversations", s.handleListConversations)
		r.Get("/conversations/{id}", s.handleGetConversation)
	})
	return r
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
