package depgraph

import (
	"fmt"

	"github.com/fhgr/curnav/pkg/records"
)

// Build constructs the dependency graph from normalized modules.
//
// The first pass adds one node per module. The second pass adds a hard edge
// for every HardPrereqs token and a soft edge for every SoftPrereqs token that
// names a known module. Unknown tokens are dropped and reported as
// [records.IssueDanglingPrereq]. Build never fails: modules with duplicate IDs
// (which [records.Normalize] already filters) are skipped with a diagnostic.
func Build(mods []records.Module) (*Graph, records.Diagnostics) {
	g := New()
	var diags records.Diagnostics

	for i, m := range mods {
		err := g.AddNode(Node{
			ID:            m.ID,
			Name:          m.Name,
			Group:         m.Group,
			Semester:      m.Semester,
			Credits:       m.Credits,
			Description:   m.Description,
			LearningGoals: m.LearningGoals,
			Responsible:   m.Responsible,
		})
		if err != nil {
			kind := records.IssueDuplicateID
			if err == ErrInvalidNodeID {
				kind = records.IssueEmptyID
			}
			diags = append(diags, records.Issue{
				Kind: kind, Row: i, ModuleID: m.ID,
				Detail: fmt.Sprintf("module skipped: %v", err),
			})
		}
	}

	for i, m := range mods {
		diags = append(diags, addPrereqEdges(g, i, m.ID, m.HardPrereqs, KindHard)...)
		diags = append(diags, addPrereqEdges(g, i, m.ID, m.SoftPrereqs, KindSoft)...)
	}

	return g, diags
}

func addPrereqEdges(g *Graph, row int, target string, prereqs []string, kind Kind) records.Diagnostics {
	var diags records.Diagnostics
	if !g.HasNode(target) {
		return nil
	}
	for _, src := range prereqs {
		if !g.HasNode(src) {
			diags = append(diags, records.Issue{
				Kind:     records.IssueDanglingPrereq,
				Row:      row,
				ModuleID: target,
				Detail:   fmt.Sprintf("%s prerequisite %q is not a known module", kind, src),
			})
			continue
		}
		// Both endpoints exist and the kind is valid, so AddEdge cannot fail.
		_, _ = g.AddEdge(Edge{From: src, To: target, Kind: kind})
	}
	return diags
}
