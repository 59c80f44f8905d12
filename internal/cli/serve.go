package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/internal/config"
	"github.com/fhgr/curnav/internal/server"
	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/session"
)

type serveOpts struct {
	datasetFlags
	addr      string
	sessions  string
	noMetrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the HTTP API for interactive front ends",
		Long: `Serve loads one curriculum and exposes it over HTTP: module lookup, filter
options, per-client sessions with select/reset/edge/filter triggers, network
and summary views, rendered plots and Prometheus metrics on /metrics.

Sessions live in memory by default; use --sessions file or redis (or the
sessions.backend setting) to keep them across restarts.`,
		Example: `  curnav serve data/Module_Data.xlsx
  curnav serve --addr :8080 --sessions redis`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, opts)
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.sessions, "sessions", "", "session backend: memory, file or redis")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, opts serveOpts) error {
	cfg := c.cfg
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.sessions != "" {
		cfg.Sessions.Backend = opts.sessions
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var metrics *server.Metrics
	if cfg.Server.Metrics && !opts.noMetrics {
		metrics = server.NewMetrics(appName)
		metrics.Install()
	}

	ds, runner, err := c.loadDataset(ctx, args, opts.datasetFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	sessions, closeSessions, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeSessions()

	c.warmLayout(ds)

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		SessionTTL:   cfg.Sessions.TTL,
		Palette:      cfg.ColorPalette(),
		Metrics:      metrics,
		Logger:       c.Logger,
	}, ds, sessions, runner)

	c.printSuccess("Serving %s on http://%s", ds.Name, cfg.Server.Addr)
	c.printDetail("sessions: %s", cfg.Sessions.Backend)
	return srv.ListenAndServe(ctx)
}

// warmLayout computes the shared layout before the first request arrives.
func (c *CLI) warmLayout(ds *dataset.Dataset) {
	if err := ds.LayoutErr(); err != nil {
		c.Logger.Warn("cached layout unavailable, computed in process", "error", err)
	}
}

// newSessionStore opens the configured session backend. The returned func
// releases it.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, func(), error) {
	switch c.cfg.Sessions.Backend {
	case config.SessionsFile:
		dir := c.cfg.Sessions.Dir
		if dir == "" {
			base, err := c.cacheDir()
			if err != nil {
				return nil, nil, fmt.Errorf("session dir: %w", err)
			}
			dir = filepath.Join(base, "sessions")
		}
		st, err := session.NewFileStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil

	case config.SessionsRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		st := session.NewRedisStore(rc.Client(), c.cfg.Redis.Prefix+"session:")
		return st, func() {
			st.Close()
			rc.Close()
		}, nil

	default:
		st := session.NewMemoryStore()
		return st, func() { st.Close() }, nil
	}
}
