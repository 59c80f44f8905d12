package depgraph

import (
	"testing"

	"github.com/fhgr/curnav/pkg/records"
)

func TestBuildChain(t *testing.T) {
	mods := []records.Module{
		{ID: "A"},
		{ID: "B", HardPrereqs: []string{"A"}},
		{ID: "C", HardPrereqs: []string{"B"}},
	}
	g, diags := Build(mods)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("got %d nodes / %d edges, want 3 / 2", g.NodeCount(), g.EdgeCount())
	}
	if !g.HasEdge("A", "B", KindHard) || !g.HasEdge("B", "C", KindHard) {
		t.Errorf("missing chain edges: %v", g.Edges())
	}
}

func TestBuildEdgeKinds(t *testing.T) {
	mods := []records.Module{
		{ID: "A"},
		{ID: "B", HardPrereqs: []string{"A", "A"}, SoftPrereqs: []string{"A"}},
	}
	g, _ := Build(mods)
	if g.EdgeCountByKind(KindHard) != 1 {
		t.Errorf("hard edges = %d, want 1 (duplicates collapse)", g.EdgeCountByKind(KindHard))
	}
	if g.EdgeCountByKind(KindSoft) != 1 {
		t.Errorf("soft edges = %d, want 1", g.EdgeCountByKind(KindSoft))
	}
}

func TestBuildDanglingReferences(t *testing.T) {
	mods := []records.Module{
		{ID: "A", HardPrereqs: []string{"LEGACY1"}, SoftPrereqs: []string{"LEGACY2", "B"}},
		{ID: "B"},
	}
	g, diags := Build(mods)
	if g.EdgeCount() != 1 || !g.HasEdge("B", "A", KindSoft) {
		t.Errorf("edges = %v, want only B->A soft", g.Edges())
	}
	if got := diags.Count(records.IssueDanglingPrereq); got != 2 {
		t.Errorf("dangling diagnostics = %d, want 2", got)
	}
}

func TestBuildEndpointsAreNodes(t *testing.T) {
	mods := []records.Module{
		{ID: "A", HardPrereqs: []string{"C", "Z"}},
		{ID: "B", SoftPrereqs: []string{"A", "Y"}},
		{ID: "C", HardPrereqs: []string{"B"}, SoftPrereqs: []string{"X"}},
	}
	g, _ := Build(mods)
	for _, e := range g.Edges() {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			t.Errorf("edge %v has endpoint outside node set", e)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuildDuplicateModules(t *testing.T) {
	mods := []records.Module{{ID: "A", Name: "first"}, {ID: "A", Name: "second"}}
	g, diags := Build(mods)
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	if n, _ := g.Node("A"); n.Name != "first" {
		t.Errorf("Name = %q, want first", n.Name)
	}
	if diags.Count(records.IssueDuplicateID) != 1 {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestBuildEmpty(t *testing.T) {
	g, diags := Build(nil)
	if g.NodeCount() != 0 || g.EdgeCount() != 0 || len(diags) != 0 {
		t.Errorf("empty build: %d nodes, %d edges, %v", g.NodeCount(), g.EdgeCount(), diags)
	}
}
