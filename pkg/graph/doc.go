// Package graph provides the serialization format for curriculum graphs and
// layouts.
//
// It sits at the boundary between the in-memory [depgraph.Graph] and
// [layout.Positions] and everything that leaves the process: JSON files
// written by the CLI, API responses, cache entries and stored documents.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format with nodes sorted by ID and edges sorted
// by (from, to, kind), so equal graphs serialize to equal bytes and can be
// hashed for cache keys:
//
//	{
//	  "nodes": [{"id": "DB", "name": "Datenbanken", "group": "Informatik"}],
//	  "edges": [{"from": "PROG1", "to": "DB", "kind": "hard"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("curriculum.json") // file -> *depgraph.Graph
//	graph.WriteGraphFile(g, "out.json")            // *depgraph.Graph -> file
//	data, _ := graph.MarshalGraph(g)               // *depgraph.Graph -> []byte
//
// # Layout Serialization
//
// A [Layout] records the options it was computed with, the hash of the graph
// it belongs to and one position per node:
//
//	l := graph.NewLayout(graphHash, opts, positions)
//	data, _ := graph.MarshalLayout(l)
//	back, _ := graph.UnmarshalLayout(data)
//	positions = back.Positions()
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph
