package depgraph

import (
	"maps"
	"slices"

	apperrors "github.com/fhgr/curnav/pkg/errors"
)

// Highlight is the reachability closure of a focus node: the focus itself
// plus all of its ancestors and descendants.
type Highlight struct {
	Focus string
	nodes map[string]struct{}
}

// Contains reports whether id is part of the highlight set.
func (h Highlight) Contains(id string) bool {
	_, ok := h.nodes[id]
	return ok
}

// EdgeActive reports whether both endpoints of e are highlighted. An edge with
// only one highlighted endpoint is never active.
func (h Highlight) EdgeActive(e Edge) bool {
	return h.Contains(e.From) && h.Contains(e.To)
}

// Len returns the number of highlighted nodes.
func (h Highlight) Len() int { return len(h.nodes) }

// IDs returns the highlighted node IDs in sorted order.
func (h Highlight) IDs() []string { return slices.Sorted(maps.Keys(h.nodes)) }

// Reachable returns the highlight set of id. Querying a node that is not in
// the graph returns a MODULE_NOT_FOUND error wrapping [ErrUnknownNode].
//
// Runs in O(V+E); cycles are handled by the visited sets.
func (g *Graph) Reachable(id string) (Highlight, error) {
	if !g.HasNode(id) {
		return Highlight{}, apperrors.Wrap(apperrors.ErrCodeModuleNotFound, ErrUnknownNode, "module %q is not part of the curriculum", id)
	}
	nodes := map[string]struct{}{id: {}}
	for n := range g.walk(id, g.incoming) {
		nodes[n] = struct{}{}
	}
	for n := range g.walk(id, g.outgoing) {
		nodes[n] = struct{}{}
	}
	return Highlight{Focus: id, nodes: nodes}, nil
}

// Ancestors returns all modules with a directed path to id, in sorted order.
// The result excludes id unless id lies on a cycle.
func (g *Graph) Ancestors(id string) ([]string, error) {
	if !g.HasNode(id) {
		return nil, apperrors.Wrap(apperrors.ErrCodeModuleNotFound, ErrUnknownNode, "module %q is not part of the curriculum", id)
	}
	return slices.Sorted(maps.Keys(g.walk(id, g.incoming))), nil
}

// Descendants returns all modules reachable from id, in sorted order.
// The result excludes id unless id lies on a cycle.
func (g *Graph) Descendants(id string) ([]string, error) {
	if !g.HasNode(id) {
		return nil, apperrors.Wrap(apperrors.ErrCodeModuleNotFound, ErrUnknownNode, "module %q is not part of the curriculum", id)
	}
	return slices.Sorted(maps.Keys(g.walk(id, g.outgoing))), nil
}

// walk runs a breadth-first search from start over adj and returns every node
// reached through at least one edge.
func (g *Graph) walk(start string, adj map[string][]string) map[string]struct{} {
	reached := make(map[string]struct{})
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if _, seen := reached[next]; seen {
				continue
			}
			reached[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return reached
}
