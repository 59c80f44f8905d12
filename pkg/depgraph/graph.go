package depgraph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeKind is returned by [Graph.AddEdge] for kinds other than
	// hard and soft.
	ErrInvalidEdgeKind = errors.New("invalid edge kind")

	// ErrUnknownNode is returned by reachability queries for IDs that are
	// not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Kind distinguishes mandatory from recommended prerequisites.
type Kind string

const (
	KindHard Kind = "hard"
	KindSoft Kind = "soft"
)

// Valid reports whether k is one of the known edge kinds.
func (k Kind) Valid() bool { return k == KindHard || k == KindSoft }

// Node is a module vertex carrying the attributes needed for display.
type Node struct {
	ID            string
	Name          string
	Group         string
	Semester      string
	Credits       float64
	Description   string
	LearningGoals string
	Responsible   string
}

// Label returns the module name, or the ID when the name is empty.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a directed prerequisite relation: From must (hard) or should (soft)
// be completed before To.
type Edge struct {
	From string
	To   string
	Kind Kind
}

type edgeKey struct {
	from, to string
	kind     Kind
}

// Graph is a directed graph over module IDs with typed edges.
//
// The zero value is not usable; use [New] or [Build].
type Graph struct {
	nodes    map[string]*Node
	order    []string // insertion order of node IDs
	edges    []Edge
	edgeSet  map[edgeKey]struct{}
	outgoing map[string][]string // nodeID -> dependent IDs
	incoming map[string][]string // nodeID -> prerequisite IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[edgeKey]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding an edge that
// already exists with the same kind is a no-op and reports false.
//
// Adjacency lists stay duplicate-free even when a hard and a soft edge
// connect the same pair.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if !e.Kind.Valid() {
		return false, ErrInvalidEdgeKind
	}
	if _, ok := g.nodes[e.From]; !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return false, ErrUnknownTargetNode
	}
	if g.HasEdge(e.From, e.To, e.Kind) {
		return false, nil
	}
	g.edgeSet[edgeKey{e.From, e.To, e.Kind}] = struct{}{}
	g.edges = append(g.edges, e)
	if !slices.Contains(g.outgoing[e.From], e.To) {
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
	}
	return true, nil
}

// HasEdge reports whether an edge of the given kind connects from to to.
func (g *Graph) HasEdge(from, to string, kind Kind) bool {
	_, ok := g.edgeSet[edgeKey{from, to, kind}]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting hard and soft separately.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgeCountByKind returns the number of edges of the given kind.
func (g *Graph) EdgeCountByKind(kind Kind) int {
	n := 0
	for _, e := range g.edges {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Dependents returns the IDs of modules that directly require id.
// The returned slice must not be modified.
func (g *Graph) Dependents(id string) []string { return g.outgoing[id] }

// Prerequisites returns the IDs of modules id directly requires.
// The returned slice must not be modified.
func (g *Graph) Prerequisites(id string) []string { return g.incoming[id] }

// Groups returns the distinct groups of all nodes in sorted order.
func (g *Graph) Groups() []string {
	set := make(map[string]struct{})
	for _, n := range g.nodes {
		set[n.Group] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// NodesInGroup returns the nodes of a group in sorted ID order.
func (g *Graph) NodesInGroup(group string) []Node {
	var out []Node
	for _, id := range g.NodeIDs() {
		if n := g.nodes[id]; n.Group == group {
			out = append(out, *n)
		}
	}
	return out
}

// Validate checks that every edge references existing nodes.
// Built graphs always pass; the check guards graphs decoded from storage.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return ErrUnknownSourceNode
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrUnknownTargetNode
		}
	}
	return nil
}
