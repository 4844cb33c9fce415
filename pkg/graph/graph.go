package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts an architecture graph to indented JSON bytes.
func MarshalGraph(g arch.ArchitectureGraph) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(normalizeGraph(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into an architecture graph.
func UnmarshalGraph(data []byte) (arch.ArchitectureGraph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// WriteGraph writes an architecture graph as JSON to an io.Writer.
func WriteGraph(g arch.ArchitectureGraph, w io.Writer) error {
	return encode(normalizeGraph(g), w)
}

// WriteGraphFile writes an architecture graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g arch.ArchitectureGraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(normalizeGraph(g), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Components without an id are rejected; everything else the merge engine
// tolerates, such as dangling connections, is accepted.
func ReadGraph(r io.Reader) (arch.ArchitectureGraph, error) {
	return readGraphFrom(r)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (arch.ArchitectureGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return arch.ArchitectureGraph{}, errors.New(errors.ErrCodeFileNotFound, "graph file %s does not exist", path)
		}
		return arch.ArchitectureGraph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (arch.ArchitectureGraph, error) {
	var g arch.ArchitectureGraph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return arch.ArchitectureGraph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	for i, n := range g.Nodes {
		if n.ID == "" {
			return arch.ArchitectureGraph{}, errors.New(errors.ErrCodeInvalidGraph, "node %d has no id", i)
		}
	}
	for i, e := range g.Edges {
		if e.From == "" || e.To == "" {
			return arch.ArchitectureGraph{}, errors.New(errors.ErrCodeInvalidGraph, "edge %d (%s) is missing an endpoint", i, e.ID)
		}
	}
	return normalizeGraph(g), nil
}

// normalizeGraph replaces nil lists with empty ones so the JSON form always
// carries arrays.
func normalizeGraph(g arch.ArchitectureGraph) arch.ArchitectureGraph {
	if g.Nodes == nil {
		g.Nodes = []arch.Component{}
	}
	if g.Edges == nil {
		g.Edges = []arch.Connection{}
	}
	if g.Groups == nil {
		g.Groups = []arch.LogicalGroup{}
	}
	if g.Metadata.TechStack == nil {
		g.Metadata.TechStack = []string{}
	}
	if g.Metadata.SourceFiles == nil {
		g.Metadata.SourceFiles = []string{}
	}
	return g
}
