// Package pipeline provides the load → layout → render pipeline for curnav.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// logging and observability behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Import a module file (XLSX, CSV, JSON, YAML, TOML), normalize its
//     rows and build the dependency graph
//  2. Layout: Compute the fixed node positions of the network view
//  3. Render: Draw the network view for a given interaction state
//
// Normalized module sets are cached by source content hash, layouts by graph
// hash and layout options, and rendered artifacts by layout hash and view state.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "data/Module_Data.xlsx",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ds, err := runner.Load(ctx, opts)
//	artifacts, err := runner.Render(ctx, ds, opts)
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/render/nodelink"
	"github.com/fhgr/curnav/pkg/view"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultCandidates are the dataset files tried, in order, when no source is
// given. Paths are relative to Options.Dir.
var DefaultCandidates = []string{
	"data/2.6_Datensatz Visualisierung_V15.xlsx",
	"data/Module_Data.xlsx",
	"data/Module_Data.csv",
	"data/Module_Data.json",
	"data/Module_Data.yaml",
	"data/Module_Data.toml",
}

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	Source     string   `json:"source,omitempty"`     // dataset file; empty means discover
	Dir        string   `json:"dir,omitempty"`        // base for Candidates
	Candidates []string `json:"candidates,omitempty"` // discovery list
	Name       string   `json:"name,omitempty"`       // dataset name; defaults to the file name
	Refresh    bool     `json:"refresh,omitempty"`    // bypass the dataset cache

	// Layout options
	Layout layout.Options `json:"layout"`

	// Render options
	Formats    []string     `json:"formats,omitempty"`
	State      view.State   `json:"state"`
	Palette    view.Palette `json:"palette,omitempty"`
	Scale      float64      `json:"scale,omitempty"`
	ShowHidden bool         `json:"show_hidden,omitempty"`
	Legend     bool         `json:"legend,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded curriculum with its layout.
	Dataset *dataset.Dataset

	// GraphHash is the content hash of the dependency graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModuleCount int
	EdgeCount   int
	IssueCount  int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the normalized modules came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLoadDefaults fills in discovery and logger defaults.
func (o *Options) SetLoadDefaults() {
	if len(o.Candidates) == 0 {
		o.Candidates = DefaultCandidates
	}
	if o.Dir == "" {
		o.Dir = "."
	}
	o.Layout.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == nil {
		o.Palette = view.DefaultPalette()
	}
	if o.Scale <= 0 {
		o.Scale = nodelink.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func LayoutKeyOpts(opts layout.Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		K:          opts.K,
		Iterations: opts.Iterations,
		Seed:       opts.Seed,
		Scale:      opts.Scale,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	extra := []string{
		fmt.Sprintf("scale=%g", o.Scale),
		fmt.Sprintf("hidden=%t", o.ShowHidden),
		fmt.Sprintf("legend=%t", o.Legend),
	}
	for _, g := range slices.Sorted(maps.Keys(o.Palette)) {
		extra = append(extra, g+"="+o.Palette[g])
	}
	return cache.ArtifactKeyOpts{
		Format: format,
		Focus:  o.State.Focus,
		Hard:   o.State.Edges.Hard,
		Soft:   o.State.Edges.Soft,
		Extra:  extra,
	}
}

// NodelinkOptions returns the DOT generation options.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{Scale: o.Scale, ShowHidden: o.ShowHidden, Legend: o.Legend}
}

// DatasetName derives a dataset name from a file path.
func DatasetName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
