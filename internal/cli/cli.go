package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/internal/config"
	"github.com/fhgr/curnav/pkg/buildinfo"
	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "curnav"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output (tables, paths, summaries).
	Out io.Writer

	// Err receives transient progress output such as spinners.
	Err io.Writer

	configPath string
	cfg        *config.Config

	// newStore overrides the MongoDB dataset store, e.g. in tests.
	newStore func(ctx context.Context) (store.Store, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
		cfg:    config.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "curnav explores curriculum module dependencies",
		Long: `curnav loads a curriculum table (modules with hard and soft prerequisites),
builds the prerequisite graph and lets you explore it: reachability from a
module, credit summaries per module group, rendered network plots and an
HTTP API for interactive front ends.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir/curnav/config.yaml)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.reachCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment overrides. The configured
// log level applies unless --verbose already lowered it to debug.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.Logger.GetLevel() > log.DebugLevel {
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.Logger.SetLevel(lvl)
		}
	}
	c.Logger.Debug("configuration loaded", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.cfg.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.cfg.Redis)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore connects to the configured MongoDB dataset store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if c.newStore != nil {
		return c.newStore(ctx)
	}
	if c.cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("no MongoDB URI configured (set mongo.uri or %sMONGO__URI)", config.EnvPrefix)
	}
	return store.NewMongoStore(ctx, c.cfg.Mongo)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Dataset Loading
// =============================================================================

// datasetFlags are shared by every command that reads a curriculum.
type datasetFlags struct {
	refresh   bool
	noCache   bool
	fromStore string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-read the dataset file instead of using the cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.fromStore, "from-store", "", "load a named dataset from the MongoDB store instead of a file")
}

// pipelineOptions builds load options from the configuration, with an
// optional file argument taking precedence over the configured path.
func (c *CLI) pipelineOptions(args []string, flags datasetFlags) pipeline.Options {
	opts := pipeline.Options{
		Source:     c.cfg.Dataset.Path,
		Dir:        c.cfg.Dataset.Dir,
		Candidates: c.cfg.Dataset.Candidates,
		Name:       c.cfg.Dataset.Name,
		Refresh:    flags.refresh,
		Layout:     c.cfg.Layout.Options(),
		Palette:    c.cfg.ColorPalette(),
		Logger:     c.Logger,
	}
	if len(args) > 0 && args[0] != "" {
		opts.Source = args[0]
	}
	return opts
}

// loadDataset loads the curriculum named by args, the configuration or the
// --from-store flag. The returned runner must be closed by the caller.
func (c *CLI) loadDataset(ctx context.Context, args []string, flags datasetFlags) (*dataset.Dataset, *pipeline.Runner, error) {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, nil, err
	}

	if flags.fromStore != "" {
		ds, err := c.loadFromStore(ctx, runner, flags.fromStore)
		if err != nil {
			runner.Close()
			return nil, nil, err
		}
		return ds, runner, nil
	}

	prog := newProgress(c.Logger)
	ds, hit, err := runner.LoadWithCacheInfo(ctx, c.pipelineOptions(args, flags))
	if err != nil {
		runner.Close()
		return nil, nil, err
	}
	c.Logger.Debug("dataset loaded", "name", ds.Name, "cached", hit)
	prog.done(fmt.Sprintf("Loaded %s (%d modules)", ds.Name, len(ds.Modules)))
	return ds, runner, nil
}

func (c *CLI) loadFromStore(ctx context.Context, runner *pipeline.Runner, name string) (*dataset.Dataset, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entry, err := st.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("loaded dataset from store", "name", entry.Name, "source", entry.Source, "modules", len(entry.Modules))
	return runner.NewDataset(ctx, entry.Name, entry.Modules, nil, c.cfg.Layout.Options()), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
