package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/fhgr/curnav/pkg/depgraph"
)

// Graph is the canonical serialization format for curriculum graphs.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a serialized module vertex.
type Node struct {
	ID            string  `json:"id" bson:"id"`
	Name          string  `json:"name,omitempty" bson:"name,omitempty"`
	Group         string  `json:"group,omitempty" bson:"group,omitempty"`
	Semester      string  `json:"semester,omitempty" bson:"semester,omitempty"`
	Credits       float64 `json:"credits,omitempty" bson:"credits,omitempty"`
	Description   string  `json:"description,omitempty" bson:"description,omitempty"`
	LearningGoals string  `json:"learning_goals,omitempty" bson:"learning_goals,omitempty"`
	Responsible   string  `json:"responsible,omitempty" bson:"responsible,omitempty"`
}

// Edge is a serialized prerequisite edge.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// FromGraph converts g to its serialization format in canonical order.
func FromGraph(g *depgraph.Graph) Graph {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b depgraph.Node) int { return cmp.Compare(a.ID, b.ID) })

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:            n.ID,
			Name:          n.Name,
			Group:         n.Group,
			Semester:      n.Semester,
			Credits:       n.Credits,
			Description:   n.Description,
			LearningGoals: n.LearningGoals,
			Responsible:   n.Responsible,
		}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Kind: string(e.Kind)})
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To), cmp.Compare(a.Kind, b.Kind))
	})
	return out
}

// ToGraph rebuilds a graph. Unlike [depgraph.Build] it rejects dangling
// edges and unknown kinds: a serialized graph is expected to be consistent.
func ToGraph(data Graph) (*depgraph.Graph, error) {
	g := depgraph.New()
	for _, n := range data.Nodes {
		err := g.AddNode(depgraph.Node{
			ID:            n.ID,
			Name:          n.Name,
			Group:         n.Group,
			Semester:      n.Semester,
			Credits:       n.Credits,
			Description:   n.Description,
			LearningGoals: n.LearningGoals,
			Responsible:   n.Responsible,
		})
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if _, err := g.AddEdge(depgraph.Edge{From: e.From, To: e.To, Kind: depgraph.Kind(e.Kind)}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}
