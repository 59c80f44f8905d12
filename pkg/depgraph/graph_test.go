package depgraph

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "A"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "A"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty AddNode error = %v, want ErrInvalidNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "A"})
	g.AddNode(Node{ID: "B"})

	tests := []struct {
		name    string
		edge    Edge
		added   bool
		wantErr error
	}{
		{"Hard", Edge{From: "A", To: "B", Kind: KindHard}, true, nil},
		{"DuplicateHard", Edge{From: "A", To: "B", Kind: KindHard}, false, nil},
		{"SoftSamePair", Edge{From: "A", To: "B", Kind: KindSoft}, true, nil},
		{"UnknownSource", Edge{From: "X", To: "B", Kind: KindHard}, false, ErrUnknownSourceNode},
		{"UnknownTarget", Edge{From: "A", To: "X", Kind: KindHard}, false, ErrUnknownTargetNode},
		{"BadKind", Edge{From: "A", To: "B", Kind: "maybe"}, false, ErrInvalidEdgeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge error = %v, want %v", err, tt.wantErr)
			}
			if added != tt.added {
				t.Errorf("AddEdge added = %v, want %v", added, tt.added)
			}
		})
	}

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if got := g.Dependents("A"); !slices.Equal(got, []string{"B"}) {
		t.Errorf("Dependents(A) = %v, want [B] without duplicates", got)
	}
	if got := g.Prerequisites("B"); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Prerequisites(B) = %v, want [A]", got)
	}
	if !g.HasEdge("A", "B", KindSoft) || g.HasEdge("B", "A", KindHard) {
		t.Error("HasEdge mismatch")
	}
}

func TestNodesAndGroups(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "C", Group: "Methodik"})
	g.AddNode(Node{ID: "A", Group: "Informatik", Name: "Algorithmen"})
	g.AddNode(Node{ID: "B", Group: "Informatik"})

	if got := g.NodeIDs(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("NodeIDs() = %v", got)
	}
	nodes := g.Nodes()
	if nodes[0].ID != "C" {
		t.Errorf("Nodes() should keep insertion order, got first %s", nodes[0].ID)
	}
	if got := g.Groups(); !slices.Equal(got, []string{"Informatik", "Methodik"}) {
		t.Errorf("Groups() = %v", got)
	}
	inf := g.NodesInGroup("Informatik")
	if len(inf) != 2 || inf[0].ID != "A" || inf[1].ID != "B" {
		t.Errorf("NodesInGroup(Informatik) = %v", inf)
	}
	if n, _ := g.Node("A"); n.Label() != "Algorithmen" {
		t.Errorf("Label() = %q", n.Label())
	}
	if n, _ := g.Node("B"); n.Label() != "B" {
		t.Errorf("Label() fallback = %q, want B", n.Label())
	}
}

func TestValidate(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "A"})
	g.AddNode(Node{ID: "B"})
	g.AddEdge(Edge{From: "A", To: "B", Kind: KindHard})
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
