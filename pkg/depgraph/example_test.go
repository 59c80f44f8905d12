package depgraph_test

import (
	"fmt"

	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/records"
)

func ExampleBuild() {
	mods := []records.Module{
		{ID: "PROG1"},
		{ID: "PROG2", HardPrereqs: []string{"PROG1"}},
		{ID: "WEB", SoftPrereqs: []string{"PROG2", "OLD-MODULE"}},
	}
	g, issues := depgraph.Build(mods)

	fmt.Println("nodes:", g.NodeCount())
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s (%s)\n", e.From, e.To, e.Kind)
	}
	fmt.Println("issues:", len(issues))
	// Output:
	// nodes: 3
	// PROG1 -> PROG2 (hard)
	// PROG2 -> WEB (soft)
	// issues: 1
}

func ExampleGraph_Reachable() {
	g, _ := depgraph.Build([]records.Module{
		{ID: "A"},
		{ID: "B", HardPrereqs: []string{"A"}},
		{ID: "C", HardPrereqs: []string{"B"}},
	})

	h, _ := g.Reachable("A")
	fmt.Println(h.IDs())
	// Output:
	// [A B C]
}
