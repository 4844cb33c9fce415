package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a layout to pretty-printed JSON bytes.
func MarshalLayout(l layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(normalizeLayout(l), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes into a layout.
// It checks the invariants renderers rely on: ids are set, dimensions are
// not negative, and every edge has at least two points.
func UnmarshalLayout(data []byte) (layout.Result, error) {
	return readLayoutFrom(bytes.NewReader(data))
}

// WriteLayout writes a layout as JSON to an io.Writer.
func WriteLayout(l layout.Result, w io.Writer) error {
	return encode(normalizeLayout(l), w)
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l layout.Result, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (layout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Result{}, errors.New(errors.ErrCodeFileNotFound, "layout file %s does not exist", path)
		}
		return layout.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

func readLayoutFrom(r io.Reader) (layout.Result, error) {
	var l layout.Result
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if l.Width < 0 || l.Height < 0 {
		return layout.Result{}, errors.New(errors.ErrCodeInvalidGraph, "layout has negative dimensions %vx%v", l.Width, l.Height)
	}
	for i, n := range l.Nodes {
		if n.ID == "" {
			return layout.Result{}, errors.New(errors.ErrCodeInvalidGraph, "positioned node %d has no id", i)
		}
	}
	for _, e := range l.Edges {
		if len(e.Points) < 2 {
			return layout.Result{}, errors.New(errors.ErrCodeInvalidGraph, "edge %s has %d points, need at least 2", e.ID, len(e.Points))
		}
	}
	return normalizeLayout(l), nil
}

func normalizeLayout(l layout.Result) layout.Result {
	if l.Nodes == nil {
		l.Nodes = []layout.PositionedNode{}
	}
	if l.Edges == nil {
		l.Edges = []layout.PositionedEdge{}
	}
	return l
}
