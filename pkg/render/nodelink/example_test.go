package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/render/nodelink"
	"github.com/fhgr/curnav/pkg/view"
)

func ExampleToDOT() {
	net := view.Network{
		Groups: []view.NodeGroup{{
			Group: "Informatik",
			Color: "#1f77b4",
			Nodes: []view.NodeGeometry{
				{ID: "P1", Pos: layout.Position{X: 0, Y: 0}, DisplayText: "Prog 1", Opacity: 1, Size: 30},
				{ID: "P2", Pos: layout.Position{X: 1, Y: 0}, DisplayText: "Prog 2", Opacity: 1, Size: 30},
			},
		}},
		Edges: []view.EdgeGeometry{
			{From: "P1", To: "P2", Visible: true, Opacity: 0.6, Color: view.ColorHard, Width: view.WidthShown},
		},
	}

	dot := nodelink.ToDOT(net, nodelink.Options{Scale: 1})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "P1" -> "P2" [color="#2c3e5099", penwidth=2];
}
