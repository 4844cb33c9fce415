package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/render/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the component type, service and metadata to labels.
	// When false, only the name is shown.
	Detailed bool
	// NoClusters draws every component at the top level and ignores groups.
	NoClusters bool
}

// ToDOT converts an architecture graph to Graphviz DOT.
//
// Components become rounded boxes filled with the light tone of their type.
// Connections are labelled with their type, or their label when set.
// Groups become cluster subgraphs, nested along Parent links; a component
// listed by several groups is drawn in the first one. Connections with
// unknown endpoints are skipped so Graphviz does not invent nodes for them.
func ToDOT(g arch.ArchitectureGraph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	w := dotWriter{buf: &buf, graph: g, opts: opts, placed: make(map[string]bool)}
	if !opts.NoClusters {
		w.clusters()
	}
	for _, n := range g.Nodes {
		if !w.placed[n.ID] {
			w.node(n, "  ")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if _, ok := g.Node(e.From); !ok {
			continue
		}
		if _, ok := g.Node(e.To); !ok {
			continue
		}
		label := e.Label
		if label == "" {
			label = string(e.Type)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%q];\n", e.From, e.To, label, styles.ConnectionColor)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf    *bytes.Buffer
	graph  arch.ArchitectureGraph
	opts   Options
	placed map[string]bool
}

func (w *dotWriter) clusters() {
	byID := make(map[string]arch.LogicalGroup, len(w.graph.Groups))
	for _, grp := range w.graph.Groups {
		if _, dup := byID[grp.ID]; !dup {
			byID[grp.ID] = grp
		}
	}
	visited := make(map[string]bool)
	for _, grp := range w.graph.Groups {
		if _, hasParent := byID[grp.Parent]; grp.Parent == "" || !hasParent {
			w.cluster(grp, byID, visited, "  ")
		}
	}
}

func (w *dotWriter) cluster(grp arch.LogicalGroup, byID map[string]arch.LogicalGroup, visited map[string]bool, indent string) {
	if visited[grp.ID] {
		return
	}
	visited[grp.ID] = true

	fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, "cluster_"+grp.ID)
	inner := indent + "  "
	fmt.Fprintf(w.buf, "%slabel=%q;\n", inner, groupLabel(grp))
	fmt.Fprintf(w.buf, "%sstyle=\"rounded,dashed\";\n", inner)
	fmt.Fprintf(w.buf, "%scolor=%q;\n", inner, styles.Neutral.Primary)

	for _, child := range grp.Children {
		if sub, ok := byID[child]; ok {
			w.cluster(sub, byID, visited, inner)
			continue
		}
		if w.placed[child] {
			continue
		}
		if n, ok := w.graph.Node(child); ok {
			w.node(n, inner)
		}
	}
	fmt.Fprintf(w.buf, "%s}\n", indent)
}

func (w *dotWriter) node(n arch.Component, indent string) {
	w.placed[n.ID] = true
	s := styles.For(n.Type)
	fmt.Fprintf(w.buf, "%s%q [label=%q, fillcolor=%q, color=%q, fontcolor=%q];\n",
		indent, n.ID, fmtLabel(n, w.opts.Detailed), s.Light, s.Primary, s.Dark)
}

func groupLabel(g arch.LogicalGroup) string {
	name := g.Name
	if name == "" {
		name = g.ID
	}
	if g.Type == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, g.Type)
}

func fmtLabel(n arch.Component, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed {
		return name
	}

	parts := []string{fmt.Sprintf("type: %s", n.Type)}
	if n.Service != "" {
		parts = append(parts, fmt.Sprintf("service: %s", n.Service))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Metadata)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Metadata[k]))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element, which carries point
// units and a transform-dependent origin, with a plain viewBox at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
