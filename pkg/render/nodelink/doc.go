// Package nodelink draws a curriculum network view as a Graphviz diagram.
//
// [ToDOT] emits DOT source for the neato engine with every node pinned to its
// layout position (pos="x,y!"), so the diagram matches the interactive view
// exactly. Nodes are filled with their group colour, faded nodes carry a
// translucent fill, and hover text becomes the SVG tooltip. Hidden edges are
// omitted unless [Options.ShowHidden] is set.
//
//	net, _ := view.BuildNetwork(ds, state, view.DefaultPalette())
//	dot := nodelink.ToDOT(net, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
