package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/depgraph"
)

// MarshalGraph converts g to indented JSON in canonical order.
func MarshalGraph(g *depgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a graph.
func UnmarshalGraph(data []byte) (*depgraph.Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g *depgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*depgraph.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(data)
}

// WriteGraphFile writes g to path.
func WriteGraphFile(g *depgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// Hash returns a stable content hash of g, used to key cached layouts.
func Hash(g *depgraph.Graph) (string, error) {
	data, err := json.Marshal(FromGraph(g))
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
