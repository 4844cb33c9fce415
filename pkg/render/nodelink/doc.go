// Package nodelink renders architecture graphs as Graphviz node-link
// diagrams.
//
// # Overview
//
// Where the svg package draws with the built-in layered layout, this
// package hands the graph to Graphviz. Its main value is groups: VPCs,
// subnets and plugin packages are drawn as nested clusters, which the
// layered layout does not show.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
