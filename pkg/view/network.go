package view

import (
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/layout"
)

// EdgeVisibility selects which edge kinds are drawn without a focus.
type EdgeVisibility struct {
	Hard bool `json:"hard" bson:"hard"`
	Soft bool `json:"soft" bson:"soft"`
}

// AllEdges shows both kinds.
func AllEdges() EdgeVisibility { return EdgeVisibility{Hard: true, Soft: true} }

// Shows reports whether edges of kind k are enabled.
func (v EdgeVisibility) Shows(k depgraph.Kind) bool {
	switch k {
	case depgraph.KindHard:
		return v.Hard
	case depgraph.KindSoft:
		return v.Soft
	}
	return false
}

// State is the per-client input of a network view.
type State struct {
	Focus string         `json:"focus,omitempty"`
	Edges EdgeVisibility `json:"edges"`
}

// EdgeGeometry is one drawn (or hidden) prerequisite edge.
type EdgeGeometry struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	FromPos layout.Position `json:"from_pos"`
	ToPos   layout.Position `json:"to_pos"`
	Kind    depgraph.Kind   `json:"kind"`
	Active  bool            `json:"active"`
	Visible bool            `json:"visible"`
	Opacity float64         `json:"opacity"`
	Color   string          `json:"color"`
	Width   float64         `json:"width"`
}

// NodeGeometry is one module marker.
type NodeGeometry struct {
	ID          string          `json:"id"`
	Pos         layout.Position `json:"pos"`
	DisplayText string          `json:"display_text"`
	HoverText   string          `json:"hover_text"`
	Highlighted bool            `json:"highlighted"`
	Opacity     float64         `json:"opacity"`
	Size        float64         `json:"size"`
}

// NodeGroup holds the markers of one module group.
type NodeGroup struct {
	Group string         `json:"group"`
	Color string         `json:"color"`
	Nodes []NodeGeometry `json:"nodes"`
}

// Network is the complete network view.
type Network struct {
	Focus       string         `json:"focus,omitempty"`
	Highlighted []string       `json:"highlighted,omitempty"`
	Edges       []EdgeGeometry `json:"edges"`
	Groups      []NodeGroup    `json:"groups"`
}

// BuildNetwork computes the network view of d for st. An unknown focus
// returns the reachability error unchanged and no view.
func BuildNetwork(d *dataset.Dataset, st State, pal Palette) (Network, error) {
	g := d.Graph
	pos := d.Layout()

	var hl depgraph.Highlight
	focused := st.Focus != ""
	if focused {
		var err error
		if hl, err = g.Reachable(st.Focus); err != nil {
			return Network{}, err
		}
	}

	net := Network{Focus: st.Focus}
	if focused {
		net.Highlighted = hl.IDs()
	}

	for _, e := range g.Edges() {
		eg := EdgeGeometry{
			From:    e.From,
			To:      e.To,
			FromPos: pos[e.From],
			ToPos:   pos[e.To],
			Kind:    e.Kind,
			Opacity: OpacityHidden,
		}
		if focused {
			eg.Active = hl.EdgeActive(e)
			if eg.Active {
				eg.Visible = true
				eg.Opacity = OpacityActive
			}
		} else if st.Edges.Shows(e.Kind) {
			eg.Visible = true
			eg.Opacity = OpacitySoft
			if e.Kind == depgraph.KindHard {
				eg.Opacity = OpacityHard
			}
		}
		if eg.Visible {
			eg.Color = EdgeColor(e.Kind)
			eg.Width = WidthShown
		} else {
			eg.Color = ColorHidden
			eg.Width = WidthHidden
		}
		net.Edges = append(net.Edges, eg)
	}

	for _, group := range g.Groups() {
		ng := NodeGroup{Group: group, Color: pal.Color(group)}
		for _, n := range g.NodesInGroup(group) {
			geo := NodeGeometry{
				ID:          n.ID,
				Pos:         pos[n.ID],
				DisplayText: n.ID,
				HoverText:   HoverText(n),
				Opacity:     OpacityVisible,
				Size:        SizeNormal,
			}
			if focused {
				geo.Highlighted = hl.Contains(n.ID)
				if !geo.Highlighted {
					geo.Opacity = OpacityFaded
					geo.Size = SizeFaded
				}
			}
			ng.Nodes = append(ng.Nodes, geo)
		}
		net.Groups = append(net.Groups, ng)
	}
	return net, nil
}

// Group returns the node group named name.
func (n Network) Group(name string) (NodeGroup, bool) {
	for _, g := range n.Groups {
		if g.Group == name {
			return g, true
		}
	}
	return NodeGroup{}, false
}

// Node returns the geometry of node id.
func (n Network) Node(id string) (NodeGeometry, bool) {
	for _, g := range n.Groups {
		for _, node := range g.Nodes {
			if node.ID == id {
				return node, true
			}
		}
	}
	return NodeGeometry{}, false
}

// VisibleEdges returns the number of drawn edges.
func (n Network) VisibleEdges() int {
	c := 0
	for _, e := range n.Edges {
		if e.Visible {
			c++
		}
	}
	return c
}
