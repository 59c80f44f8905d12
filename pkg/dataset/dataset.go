// Package dataset bundles one loaded curriculum: the normalized modules, the
// dependency graph built from them, the diagnostics collected on the way and
// the layout.
//
// A Dataset is immutable once created and safe for concurrent readers. The
// layout is computed lazily on first use and exactly once; later calls return
// the same positions so nodes never move during a session.
package dataset

import (
	"sync"

	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/records"
)

// LayoutFunc computes positions for a graph. Implementations may consult a
// cache; an error makes the dataset fall back to [layout.Spring].
type LayoutFunc func(g *depgraph.Graph, opts layout.Options) (layout.Positions, error)

// Dataset is one loaded curriculum.
type Dataset struct {
	Name        string
	Modules     []records.Module
	Graph       *depgraph.Graph
	Diagnostics records.Diagnostics

	index      map[string]int
	layoutOpts layout.Options
	layoutFn   LayoutFunc

	once      sync.Once
	positions layout.Positions
	layoutErr error
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLayoutOptions sets the layout parameters.
func WithLayoutOptions(opts layout.Options) Option {
	return func(d *Dataset) { d.layoutOpts = opts }
}

// WithLayoutFunc replaces the layout computation, e.g. with a cached one.
func WithLayoutFunc(fn LayoutFunc) Option {
	return func(d *Dataset) { d.layoutFn = fn }
}

// New builds the graph for mods. Diagnostics from normalization are kept and
// the graph builder's diagnostics are appended.
func New(name string, mods []records.Module, diags records.Diagnostics, opts ...Option) *Dataset {
	g, buildDiags := depgraph.Build(mods)
	d := &Dataset{
		Name:        name,
		Modules:     mods,
		Graph:       g,
		Diagnostics: append(append(records.Diagnostics(nil), diags...), buildDiags...),
		index:       records.Index(mods),
		layoutOpts:  layout.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.layoutOpts.SetDefaults()
	return d
}

// FromRows normalizes raw rows and builds a dataset from them.
func FromRows(name string, rows []records.Row, opts ...Option) *Dataset {
	res := records.Normalize(rows)
	return New(name, res.Modules, res.Diagnostics, opts...)
}

// Module looks up a module by ID.
func (d *Dataset) Module(id string) (records.Module, bool) {
	i, ok := d.index[id]
	if !ok {
		return records.Module{}, false
	}
	return d.Modules[i], true
}

// Names maps module IDs to display names.
func (d *Dataset) Names() map[string]string {
	m := make(map[string]string, len(d.Modules))
	for _, mod := range d.Modules {
		m[mod.ID] = mod.Name
	}
	return m
}

// LayoutOptions returns the options the layout is computed with.
func (d *Dataset) LayoutOptions() layout.Options { return d.layoutOpts }

// Layout returns the node positions, computing them on first call.
func (d *Dataset) Layout() layout.Positions {
	d.once.Do(func() {
		if d.layoutFn != nil {
			d.positions, d.layoutErr = d.layoutFn(d.Graph, d.layoutOpts)
			if d.layoutErr == nil {
				return
			}
		}
		d.positions = layout.Spring(d.Graph, d.layoutOpts)
	})
	return d.positions
}

// LayoutErr returns the error of a custom [LayoutFunc], if it failed and the
// default layout was used instead.
func (d *Dataset) LayoutErr() error {
	d.Layout()
	return d.layoutErr
}
