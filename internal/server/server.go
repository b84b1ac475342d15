// Package server exposes the mind map pipeline over HTTP.
//
// The API is versioned under /v1 and speaks JSON:
//
//	POST   /v1/maps            generate a mind map and archive it
//	GET    /v1/maps            list archived maps (newest first)
//	GET    /v1/maps/{id}       fetch archive metadata
//	GET    /v1/maps/{id}/file  fetch the rendered artifact
//	DELETE /v1/maps/{id}       remove an archived map
//	GET    /healthz            liveness probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindtower/pkg/archive"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// RequestTimeout bounds a single pipeline run (default 60s).
	RequestTimeout time.Duration
}

// Server wires the pipeline runner and archive store into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	store  archive.Store
	logger *log.Logger
	cfg    Config
	http   *http.Server
}

// New creates a server. The runner and store must be non-nil.
func New(runner *pipeline.Runner, store archive.Store, logger *log.Logger, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/maps", s.handleCreateMap)
		r.Get("/maps", s.handleListMaps)
		r.Get("/maps/{id}", s.handleGetMap)
		r.Get("/maps/{id}/file", s.handleGetMapFile)
		r.Delete("/maps/{id}", s.handleDeleteMap)
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler returns the router, exported for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// logRequests logs one line per request with latency and status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
