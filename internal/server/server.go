// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                   liveness and build version
//	POST /api/v1/describe           tree document in, JSON description out
//	POST /api/v1/render?format=svg  tree document in, rendered artifact out
//	GET  /metrics                   Prometheus metrics, when enabled
//
// Request bodies are data-tree documents. Their encoding comes from the
// input query parameter (json, toml, yaml) or else from the Content-Type
// header, defaulting to JSON. Errors are JSON objects carrying the error
// code, a message and the request id.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// DefaultMaxRequestSize caps request bodies.
const DefaultMaxRequestSize int64 = 4 << 20

const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults seed every request's pipeline options. Query parameters
	// override font, rank direction, engine and refresh.
	Defaults pipeline.Options

	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler

	// MaxRequestSize defaults to DefaultMaxRequestSize.
	MaxRequestSize int64
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	router   chi.Router
}

// New builds the router. A nil runner gets a cache-less runner and a nil
// logger discards output.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxRequestSize,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxRequestSize
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/describe", s.handleDescribe)
		r.Post("/render", s.handleRender)
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method "+r.Method+" not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
