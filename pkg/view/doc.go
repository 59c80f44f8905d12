// Package view turns a dataset and the interaction state of one client into
// render-ready geometry.
//
// [BuildNetwork] produces the network view: one [EdgeGeometry] per graph edge
// and the nodes grouped by module group, each carrying position, hover text
// and emphasis. With a focus module, only edges inside the focus's
// reachability closure are drawn and nodes outside it are faded. Without a
// focus, the enabled edge kinds are drawn at their baseline opacity.
//
// [BuildSummary] produces the group -> module credit hierarchy for a filter,
// or an explicit empty marker when nothing matches.
//
// Views are plain values. Renderers (the Graphviz exporter, the terminal UI,
// the HTTP API) consume them without touching the graph.
package view
