package view

import (
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/explore"
)

// SummaryGroup is one group of the credit hierarchy.
type SummaryGroup struct {
	explore.GroupTotal
	Color string `json:"color"`
}

// Summary is the credit hierarchy of a filter. Empty is set, and Groups is
// nil, when no module matched.
type Summary struct {
	Empty        bool                `json:"empty"`
	Filter       explore.FilterSpec  `json:"filter"`
	Groups       []SummaryGroup      `json:"groups,omitempty"`
	ModuleIDs    []string            `json:"module_ids,omitempty"`
	TotalCredits float64             `json:"total_credits"`
	Unknown      *UnknownFilterValue `json:"unknown,omitempty"`
}

// UnknownFilterValue lists requested tags and groups that no module carries.
type UnknownFilterValue struct {
	Tags   []string `json:"tags,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// BuildSummary applies f to the modules of d.
func BuildSummary(d *dataset.Dataset, f explore.FilterSpec, pal Palette) Summary {
	res := explore.Apply(d.Modules, f)
	out := Summary{Empty: res.Empty(), Filter: f}
	if tags, groups := explore.Unknown(f, d.Modules); len(tags)+len(groups) > 0 {
		out.Unknown = &UnknownFilterValue{Tags: tags, Groups: groups}
	}
	if res.Empty() {
		return out
	}
	out.ModuleIDs = res.Summary.ModuleIDs
	out.TotalCredits = res.Summary.TotalCredits
	for _, g := range res.Summary.Groups {
		out.Groups = append(out.Groups, SummaryGroup{GroupTotal: g, Color: pal.Color(g.Group)})
	}
	return out
}
