// Package render turns positioned architecture graphs into documents.
//
// # Overview
//
// The renderers live in subpackages:
//
//   - [svg]: the animated architecture diagram drawn from a layout
//   - [nodelink]: a Graphviz rendition with groups drawn as clusters
//   - [styles]: the color palette and text helpers both share
//
// # Format Conversion
//
// [Convert] turns any SVG into PDF or PNG using the external rsvg-convert
// tool (from librsvg):
//
//	doc := svg.Render(l)
//	png, err := render.Convert(ctx, doc, render.FormatPNG, 2.0) // 2x scale
//
// [svg]: github.com/matzehuels/archgraph/pkg/render/svg
// [nodelink]: github.com/matzehuels/archgraph/pkg/render/nodelink
// [styles]: github.com/matzehuels/archgraph/pkg/render/styles
package render
