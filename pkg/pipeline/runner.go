package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/depgraph"
	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/graph"
	dataio "github.com/fhgr/curnav/pkg/io"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/observability"
	"github.com/fhgr/curnav/pkg/records"
	"github.com/fhgr/curnav/pkg/render"
	"github.com/fhgr/curnav/pkg/render/nodelink"
	"github.com/fhgr/curnav/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a null cache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetLoadDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	loaded, hit, err := r.load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.DatasetHit = hit

	// Stage 2: Layout. Computed eagerly so the cache hit can be reported.
	layoutStart := time.Now()
	g, _ := depgraph.Build(loaded.Modules)
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.GraphHash = l.GraphHash

	positions := l.Positions()
	ds := dataset.New(loaded.Name, loaded.Modules, loaded.Diagnostics,
		dataset.WithLayoutOptions(opts.Layout),
		dataset.WithLayoutFunc(func(*depgraph.Graph, layout.Options) (layout.Positions, error) {
			return positions, nil
		}))
	result.Dataset = ds
	result.Stats.ModuleCount = ds.Graph.NodeCount()
	result.Stats.EdgeCount = ds.Graph.EdgeCount()
	result.Stats.IssueCount = len(ds.Diagnostics)
	r.logDiagnostics(opts.Logger, ds)

	opts.Logger.Info("loaded dataset",
		"name", ds.Name,
		"modules", result.Stats.ModuleCount,
		"edges", result.Stats.EdgeCount,
		"issues", result.Stats.IssueCount,
		"duration", result.Stats.LoadTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// loaded is the cacheable part of a dataset: normalized modules and the
// diagnostics of normalization. The graph is rebuilt from the modules.
type loaded struct {
	Name        string              `json:"name"`
	Source      string              `json:"source"`
	Modules     []records.Module    `json:"modules"`
	Diagnostics records.Diagnostics `json:"diagnostics,omitempty"`
}

// ResolveSource returns opts.Source or, when empty, the first existing
// candidate file.
func ResolveSource(opts Options) (string, error) {
	if opts.Source != "" {
		return opts.Source, nil
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	cands := opts.Candidates
	if len(cands) == 0 {
		cands = DefaultCandidates
	}
	path, err := dataio.Discover(dir, cands)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "no dataset found in %s", dir)
	}
	return path, nil
}

// LoadWithCacheInfo imports, normalizes and builds a dataset, reporting
// whether the normalized modules came from cache. The layout is computed
// lazily on first use through the layout cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*dataset.Dataset, bool, error) {
	r.applyLogger(&opts)
	opts.SetLoadDefaults()

	l, hit, err := r.load(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	ds := r.NewDataset(ctx, l.Name, l.Modules, l.Diagnostics, opts.Layout)
	r.logDiagnostics(opts.Logger, ds)
	return ds, hit, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	ds, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, err
}

// NewDataset builds a dataset from already normalized modules, for example
// ones pulled from a store, with layouts served through the runner's cache.
func (r *Runner) NewDataset(ctx context.Context, name string, mods []records.Module, diags records.Diagnostics, opts layout.Options) *dataset.Dataset {
	return dataset.New(name, mods, diags,
		dataset.WithLayoutOptions(opts),
		dataset.WithLayoutFunc(r.CachedLayout(ctx)))
}

func (r *Runner) load(ctx context.Context, opts Options) (l *loaded, hit bool, err error) {
	path, err := ResolveSource(opts)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	defer func() {
		var mods, issues int
		if l != nil {
			mods, issues = len(l.Modules), len(l.Diagnostics)
		}
		hooks.OnLoadComplete(ctx, path, mods, issues, time.Since(start), err)
	}()

	format, err := dataio.DetectFormat(path)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "load %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
	}

	name := opts.Name
	if name == "" {
		name = DatasetName(path)
	}

	key := r.Keyer.DatasetKey(cache.Hash(data))
	if !opts.Refresh {
		if cached, ok := r.cacheGet(ctx, key); ok {
			var c loaded
			if err := json.Unmarshal(cached, &c); err == nil {
				c.Name, c.Source = name, path
				opts.Logger.Debug("dataset cache hit", "source", path)
				return &c, true, nil
			}
		}
	}

	rows, err := dataio.ReadRows(bytes.NewReader(data), format)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "import %s", path)
	}
	res := records.Normalize(rows)
	l = &loaded{Name: name, Source: path, Modules: res.Modules, Diagnostics: res.Diagnostics}
	opts.Logger.Debug("imported rows", "source", path, "format", format, "rows", len(rows), "modules", len(res.Modules))

	if enc, err := json.Marshal(l); err == nil {
		r.cacheSet(ctx, key, enc, cache.TTLDataset)
	}
	return l, false, nil
}

// logDiagnostics reports every data-quality issue as a warning.
func (r *Runner) logDiagnostics(logger *log.Logger, ds *dataset.Dataset) {
	for _, issue := range ds.Diagnostics {
		kv := []any{"kind", issue.Kind, "row", issue.Row}
		if issue.ModuleID != "" {
			kv = append(kv, "module", issue.ModuleID)
		}
		logger.Warn(issue.Detail, kv...)
	}
}

// =============================================================================
// Layout
// =============================================================================

// LayoutWithCacheInfo computes the layout of g with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *depgraph.Graph, opts layout.Options) (graph.Layout, bool, error) {
	opts.SetDefaults()

	graphHash, err := graph.Hash(g)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash graph: %w", err)
	}
	key := r.Keyer.LayoutKey(graphHash, LayoutKeyOpts(opts))

	if data, ok := r.cacheGet(ctx, key); ok {
		cached, err := graph.UnmarshalLayout(data)
		if err == nil && cached.Validate() == nil && len(cached.Nodes) == g.NodeCount() {
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()
	l := graph.NewLayout(graphHash, opts, layout.Spring(g, opts))
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := graph.MarshalLayout(l); err == nil {
		r.cacheSet(ctx, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *depgraph.Graph, opts layout.Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// CachedLayout returns a [dataset.LayoutFunc] that serves layouts through
// the runner's cache.
func (r *Runner) CachedLayout(ctx context.Context) dataset.LayoutFunc {
	return func(g *depgraph.Graph, opts layout.Options) (layout.Positions, error) {
		l, err := r.Layout(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		return l.Positions(), nil
	}
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo draws the network view of ds in every requested format
// and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ds *dataset.Dataset, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	graphHash, err := graph.Hash(ds.Graph)
	if err != nil {
		return nil, false, fmt.Errorf("hash graph: %w", err)
	}
	layoutData, err := graph.MarshalLayout(graph.NewLayout(graphHash, ds.LayoutOptions(), ds.Layout()))
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.cacheGet(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	net, err := view.BuildNetwork(ds, opts.State, opts.Palette)
	if err != nil {
		return nil, false, err
	}
	rendered, err := RenderNetwork(ctx, net, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.cacheSet(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ds *dataset.Dataset, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ds, opts)
	return artifacts, err
}

// RenderNetwork draws an already computed network view without caching.
func RenderNetwork(ctx context.Context, net view.Network, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(net, opts.NodelinkOptions())
	hooks := observability.Pipeline()

	out := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	svgFor := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = json.MarshalIndent(net, "", "  ")
		case FormatSVG:
			data, err = svgFor()
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		case FormatPDF:
			if data, err = svgFor(); err == nil {
				data, err = render.ToPDF(data)
			}
		}

		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out[format] = data
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	return out, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache get failed", "key", key, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
