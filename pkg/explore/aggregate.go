package explore

import (
	"cmp"
	"slices"

	"github.com/fhgr/curnav/pkg/records"
)

// Leaf is one module's contribution to its group.
type Leaf struct {
	ID      string  `json:"id" bson:"id"`
	Name    string  `json:"name" bson:"name"`
	Credits float64 `json:"credits" bson:"credits"`
}

// GroupTotal aggregates the surviving modules of one group.
type GroupTotal struct {
	Group        string  `json:"group" bson:"group"`
	TotalCredits float64 `json:"total_credits" bson:"total_credits"`
	Modules      []Leaf  `json:"modules" bson:"modules"`
}

// Summary is the group -> module credit hierarchy of a filter result.
type Summary struct {
	Groups       []GroupTotal `json:"groups" bson:"groups"`
	ModuleIDs    []string     `json:"module_ids" bson:"module_ids"`
	TotalCredits float64      `json:"total_credits" bson:"total_credits"`
}

// Group returns the totals for group name.
func (s *Summary) Group(name string) (GroupTotal, bool) {
	if s == nil {
		return GroupTotal{}, false
	}
	i, ok := slices.BinarySearchFunc(s.Groups, name, func(g GroupTotal, n string) int {
		return cmp.Compare(g.Group, n)
	})
	if !ok {
		return GroupTotal{}, false
	}
	return s.Groups[i], true
}

// Result is the outcome of [Apply].
type Result struct {
	Modules []records.Module `json:"modules"`
	Summary *Summary         `json:"summary"`
}

// Empty reports whether no module survived the filter.
func (r Result) Empty() bool { return r.Summary == nil }

// Apply filters mods with f and aggregates the survivors. Surviving modules
// keep their input order; groups are sorted by name.
func Apply(mods []records.Module, f FilterSpec) Result {
	var kept []records.Module
	for _, m := range mods {
		if f.Match(m) {
			kept = append(kept, m)
		}
	}
	return Result{Modules: kept, Summary: Aggregate(kept)}
}

// Aggregate sums credits per group. It returns nil for an empty input.
func Aggregate(mods []records.Module) *Summary {
	if len(mods) == 0 {
		return nil
	}
	byGroup := make(map[string]*GroupTotal)
	s := &Summary{ModuleIDs: make([]string, 0, len(mods))}
	for _, m := range mods {
		g, ok := byGroup[m.Group]
		if !ok {
			g = &GroupTotal{Group: m.Group}
			byGroup[m.Group] = g
		}
		g.Modules = append(g.Modules, Leaf{ID: m.ID, Name: m.Name, Credits: m.Credits})
		g.TotalCredits += m.Credits
		s.ModuleIDs = append(s.ModuleIDs, m.ID)
		s.TotalCredits += m.Credits
	}
	s.Groups = make([]GroupTotal, 0, len(byGroup))
	for _, g := range byGroup {
		s.Groups = append(s.Groups, *g)
	}
	slices.SortFunc(s.Groups, func(a, b GroupTotal) int { return cmp.Compare(a.Group, b.Group) })
	return s
}
