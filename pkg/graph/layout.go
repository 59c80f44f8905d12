package graph

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/fhgr/curnav/pkg/layout"
)

// Layout is the serialized form of a computed layout.
type Layout struct {
	GraphHash string         `json:"graph_hash,omitempty" bson:"graph_hash,omitempty"`
	Options   layout.Options `json:"options" bson:"options"`
	Nodes     []NodePosition `json:"nodes" bson:"nodes"`
}

// NodePosition is one node's coordinates.
type NodePosition struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// NewLayout builds a serialized layout with nodes sorted by ID.
func NewLayout(graphHash string, opts layout.Options, pos layout.Positions) Layout {
	l := Layout{GraphHash: graphHash, Options: opts, Nodes: make([]NodePosition, 0, len(pos))}
	for id, p := range pos {
		l.Nodes = append(l.Nodes, NodePosition{ID: id, X: p.X, Y: p.Y})
	}
	slices.SortFunc(l.Nodes, func(a, b NodePosition) int { return cmp.Compare(a.ID, b.ID) })
	return l
}

// Positions converts the layout back to a position map.
func (l Layout) Positions() layout.Positions {
	out := make(layout.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = layout.Position{X: n.X, Y: n.Y}
	}
	return out
}

// Validate checks for empty or duplicate IDs and non-finite coordinates.
func (l Layout) Validate() error {
	seen := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("layout node with empty id")
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("duplicate layout node %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			return fmt.Errorf("layout node %q has non-finite position", n.ID)
		}
	}
	return nil
}

// MarshalLayout serializes l to indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes and validates a layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes l to path.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
