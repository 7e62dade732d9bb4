// Package server exposes the layout pipeline over HTTP.
//
// The server is the remote half of the http engine transport: clients POST
// abstract graph documents and receive either the positioned graph or the
// finished scene tree, so an elkscene process configured with an http engine
// can delegate layout to another elkscene process running serve.
//
// # Endpoints
//
//	POST /api/v1/layout    graph in, positioned graph out
//	POST /api/v1/scene     graph in, scene tree out
//	GET  /healthz          liveness and engine reachability
//	GET  /api/v1/runs      recent archived runs
//	GET  /api/v1/runs/{id} one archived run
//
// Errors are JSON objects carrying the pkg/errors code:
//
//	{"code": "INVALID_GRAPH", "error": "node is missing an id"}
//
// Structural defects map to 422 so callers can tell a broken document from
// a broken engine (502) or a rejected layout (400).
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/pipeline"
)

// Defaults for the HTTP listener.
const (
	DefaultAddr         = ":8080"
	DefaultProbeTimeout = 5 * time.Second

	// shutdownGrace bounds how long in-flight requests may finish after the
	// serve context is canceled.
	shutdownGrace = 10 * time.Second

	// maxGraphBytes caps request bodies. Graphs beyond this are rejected
	// before parsing.
	maxGraphBytes = 10 << 20
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// Engine is the layout engine every request runs against.
	Engine engine.Config

	// ProbeTimeout bounds the healthz engine probe.
	// Defaults to DefaultProbeTimeout.
	ProbeTimeout time.Duration
}

// Server handles layout requests against one configured engine.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. The runner supplies caching and the run archive;
// a nil runner gets a default one (no cache, no archive).
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if err := cfg.Engine.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}, nil
}

// Handler builds the chi router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/scene", s.handleScene)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
	})

	return r
}

// Start runs the HTTP listener until ctx is canceled, then drains in-flight
// requests within shutdownGrace.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr, "engine", s.cfg.Engine.Kind)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
