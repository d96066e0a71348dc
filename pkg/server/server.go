// Package server exposes the displacement map pipeline over HTTP.
//
// Every handler goes through one shared [pipeline.Runner], so a cache
// configured on the runner (in-memory or Redis) memoizes generation across
// requests and clients.
//
// # Routes
//
//	GET  /healthz                build information
//	GET  /v1/presets             every preset with its configuration
//	GET  /v1/presets/{name}      one preset
//	POST /v1/displacement        {"preset": ..., "overrides": {...}} → result JSON
//	GET  /v1/displacement.svg    the texture, configured by query parameters
//	GET  /v1/filter.svg          the filter chain, configured by query parameters
//
// Query parameters are "preset" plus any override field name ("width",
// "scale", "x", "blend", ...). The filter route also reads "id" and
// "preview". Generation routes report memoization in the X-Cache header.
//
// Errors are JSON objects of the form {"code": ..., "message": ...}.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// DefaultShutdownTimeout bounds how long ListenAndServe waits for in-flight
// requests once its context is cancelled.
const DefaultShutdownTimeout = 10 * time.Second

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// Server serves the pipeline API.
type Server struct {
	Runner          *pipeline.Runner
	Logger          *log.Logger
	ShutdownTimeout time.Duration
}

// New creates a server around runner. A nil logger uses the runner's.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{
		Runner:          runner,
		Logger:          logger,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Handler returns the routed API with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.accessLog, s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not supported on " + r.URL.Path,
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Get("/presets/{name}", s.handlePreset)
		r.Post("/displacement", s.handleDisplacement)
		r.Get("/displacement.svg", s.handleTexture)
		r.Get("/filter.svg", s.handleFilter)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
