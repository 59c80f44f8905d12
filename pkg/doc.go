// Package pkg provides the core libraries of curnav, the curriculum
// dependency navigator.
//
// # Overview
//
// curnav turns a curriculum table (one row per module, with hard and soft
// prerequisite columns) into a prerequisite graph that can be queried and
// drawn. The pkg directory is organized into four areas:
//
//  1. Domain: records, depgraph, explore, layout, view
//  2. Data: io (table import/export), graph (JSON serialization),
//     dataset (one loaded curriculum)
//  3. Infrastructure: cache, store, session, observability, errors
//  4. Orchestration: pipeline (load → layout → render), render
//
// # Architecture
//
// The typical data flow:
//
//	Workbook / CSV / JSON / YAML / TOML
//	         ↓
//	    io package (raw rows)
//	         ↓
//	    records package (normalized modules + diagnostics)
//	         ↓
//	    depgraph package (prerequisite graph, reachability)
//	         ↓
//	    layout package (spring positions)
//	         ↓
//	    view package (network and summary views per session state)
//	         ↓
//	    render/nodelink package (DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	rows, _ := io.ImportFile("data/Module_Data.xlsx")
//	ds := dataset.FromRows("bsc", rows)
//
//	h, _ := ds.Graph.Reachable("DB")
//	fmt.Println(h.IDs())
//
//	net, _ := view.BuildNetwork(ds, view.State{Focus: "DB", Edges: view.AllEdges()}, view.DefaultPalette())
//	svg, _ := nodelink.RenderSVG(ctx, nodelink.ToDOT(net, nodelink.Options{}))
package pkg
