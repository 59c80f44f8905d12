// Package depgraph provides the curriculum dependency graph: modules as
// nodes, prerequisite relations as directed edges.
//
// # Overview
//
// Edges point from the prerequisite toward the dependent module and carry a
// [Kind]: [KindHard] for mandatory prerequisites, [KindSoft] for recommended
// entry competences. At most one edge of each kind exists per ordered pair.
//
// Unlike a layered DAG, curriculum data is not guaranteed to be acyclic.
// Nothing in this package rejects cycles, and every traversal guards against
// revisiting nodes.
//
// # Building
//
// [Build] constructs a graph from normalized records in two passes: nodes
// first, then edges. Prerequisite tokens that do not name a known module are
// dropped and reported as diagnostics:
//
//	res := records.Normalize(rows)
//	g, issues := depgraph.Build(res.Modules)
//
// # Reachability
//
// [Graph.Reachable] answers "what does this module depend on, and what depends
// on it" as a [Highlight]: the focus node plus all ancestors and descendants.
// Edge kinds are ignored for reachability; only rendering distinguishes them.
//
//	h, err := g.Reachable("INF2")
//	for _, e := range g.Edges() {
//	    if h.EdgeActive(e) { ... }
//	}
//
// # Concurrency
//
// A Graph is built once and then only read. Concurrent readers are safe as
// long as no goroutine calls [Graph.AddNode] or [Graph.AddEdge].
package depgraph
