// Package server exposes a loaded curriculum over HTTP.
//
// Every client creates a session and drives it with the interaction triggers
// (select, reset, edge visibility, filter); the server answers with the
// network and summary views computed from the shared, read-only dataset.
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
	"github.com/go-chi/cors"

	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/session"
	"github.com/fhgr/curnav/pkg/view"
)

// Config holds server configuration.
type Config struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SessionTTL   time.Duration
	Palette      view.Palette
	Metrics      *Metrics // nil disables /metrics
	Logger       *log.Logger
}

// Server serves one dataset to many sessions.
type Server struct {
	cfg      Config
	ds       *dataset.Dataset
	sessions session.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router

	httpServer *http.Server
}

// New creates a server. A nil runner renders without caching.
func New(cfg Config, ds *dataset.Dataset, sessions session.Store, runner *pipeline.Runner) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Palette == nil {
		cfg.Palette = view.DefaultPalette()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		cfg:      cfg,
		ds:       ds,
		sessions: sessions,
		runner:   runner,
		logger:   cfg.Logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.Metrics != nil {
		r.Use(s.cfg.Metrics.Middleware)
	}

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/modules", s.handleModules)
		r.Get("/modules/{id}", s.handleModule)
		r.Get("/options", s.handleOptions)
		r.Get("/diagnostics", s.handleDiagnostics)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/network", s.handleNetwork)
			r.Get("/summary", s.handleSummary)
			r.Get("/network.svg", s.handleRender(pipeline.FormatSVG))
			r.Get("/network.png", s.handleRender(pipeline.FormatPNG))
			r.Get("/network.pdf", s.handleRender(pipeline.FormatPDF))
			r.Get("/network.dot", s.handleRender(pipeline.FormatDOT))
			r.Post("/select/{id}", s.handleSelect)
			r.Post("/reset", s.handleReset)
			r.Put("/edges", s.handleEdges)
			r.Put("/filter", s.handleFilter)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Expired sessions are purged periodically while serving.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go s.cleanupLoop(ctx, time.Hour)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "dataset", s.ds.Name, "modules", len(s.ds.Modules))
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
