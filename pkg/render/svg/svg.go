package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/render/styles"
)

// Defaults for [Options].
const (
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultPadding = 40.0
	DefaultAnimate = true

	// FlowPeriod is how long one flow dot takes to traverse its edge.
	FlowPeriod = "2s"
)

const diagramCSS = `
    .node-text { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; font-size: 14px; font-weight: 500; }
    .node-badge { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; font-size: 10px; font-weight: 600; }
    .edge-path { fill: none; stroke-width: 2; }
    .edge-label { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; font-size: 10px; }`

// Options configures [Render].
type Options struct {
	// Width and Height are the pixel size of the root element. They also
	// size the viewBox of an empty diagram.
	Width  float64
	Height float64
	// Animate adds a dot that travels along every edge.
	Animate bool
	// Padding is the space around the layout inside the viewBox.
	Padding float64
}

// DefaultOptions returns 800×600, animated, with 40 units of padding.
func DefaultOptions() Options {
	return Options{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Animate: DefaultAnimate,
		Padding: DefaultPadding,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithWidth sets the pixel width of the root element.
func WithWidth(w float64) Option { return func(o *Options) { o.Width = w } }

// WithHeight sets the pixel height of the root element.
func WithHeight(h float64) Option { return func(o *Options) { o.Height = h } }

// WithAnimate turns the flow animation on or off.
func WithAnimate(on bool) Option { return func(o *Options) { o.Animate = on } }

// WithPadding sets the space around the layout.
func WithPadding(p float64) Option { return func(o *Options) { o.Padding = p } }

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

func newOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Padding < 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// Render draws l as a standalone SVG document.
//
// Edges are drawn before nodes so boxes cover line ends. Every node becomes
// exactly one rect and every edge exactly one path; the flow animation
// references the edge geometry through an attribute and adds no path
// element. With animation disabled no animation markup is written at all.
// An empty layout yields a valid document with no shapes.
func Render(l layout.Result, opts ...Option) []byte {
	o := newOptions(opts...)

	vbW, vbH := o.Width, o.Height
	if !l.IsEmpty() {
		vbW = l.Width + 2*o.Padding
		vbH = l.Height + 2*o.Padding
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" style="background-color: %s">`+"\n",
		num(o.Width), num(o.Height), num(vbW), num(vbH), styles.BackgroundColor)

	renderDefs(&buf, len(l.Nodes) > 0, len(l.Edges) > 0)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)

	fmt.Fprintf(&buf, "  <g transform=\"translate(%s, %s)\">\n", num(o.Padding), num(o.Padding))
	for _, e := range l.Edges {
		renderEdge(&buf, e, o.Animate)
	}
	for _, n := range l.Nodes {
		renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, nodes, edges bool) {
	if !nodes && !edges {
		return
	}
	buf.WriteString("  <defs>\n")
	if edges {
		buf.WriteString(`    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">` + "\n")
		fmt.Fprintf(buf, `      <polygon points="0 0, 10 3.5, 0 7" fill="%s"/>`+"\n", styles.ConnectionColor)
		buf.WriteString("    </marker>\n")
	}
	if nodes {
		buf.WriteString(`    <filter id="shadow" x="-20%" y="-20%" width="140%" height="140%">` + "\n")
		buf.WriteString(`      <feDropShadow dx="0" dy="2" stdDeviation="3" flood-opacity="0.1"/>` + "\n")
		buf.WriteString("    </filter>\n")
	}
	buf.WriteString("  </defs>\n")
}

func renderNode(buf *bytes.Buffer, n layout.PositionedNode) {
	s := styles.For(n.Type)
	label := n.Name
	if label == "" {
		label = n.ID
	}

	fmt.Fprintf(buf, "    <g class=\"node\" data-id=\"%s\">\n", styles.EscapeXML(n.ID))
	fmt.Fprintf(buf, "      <title>%s</title>\n", styles.EscapeXML(label))
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="8" ry="8" fill="%s" stroke="%s" stroke-width="2" filter="url(#shadow)"/>`+"\n",
		num(n.Left()), num(n.Top()), num(n.Width), num(n.Height), s.Light, s.Primary)
	fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" class="node-text" fill="%s">%s</text>`+"\n",
		num(n.X), num(n.Y+4), s.Dark, styles.EscapeXML(styles.TruncateLabel(label, n.Width, styles.LabelFontSize)))
	if n.Service != "" {
		caption := styles.TruncateLabel(strings.ToUpper(n.Service), n.Width, styles.CaptionFontSize)
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" class="node-badge" fill="%s">%s</text>`+"\n",
			num(n.X), num(n.Bottom()-8), s.Primary, styles.EscapeXML(caption))
	}
	buf.WriteString("    </g>\n")
}

func renderEdge(buf *bytes.Buffer, e layout.PositionedEdge, animate bool) {
	if len(e.Points) < 2 {
		return
	}
	d := pathData(e.Points)

	fmt.Fprintf(buf, "    <g class=\"edge\" data-id=\"%s\" data-type=\"%s\">\n",
		styles.EscapeXML(e.ID), styles.EscapeXML(string(e.Type)))
	fmt.Fprintf(buf, `      <path class="edge-path" d="%s" stroke="%s" marker-end="url(#arrowhead)"/>`+"\n", d, styles.ConnectionColor)
	if animate {
		fmt.Fprintf(buf, `      <circle r="4" fill="%s"><animateMotion dur="%s" repeatCount="indefinite" path="%s"/></circle>`+"\n",
			styles.FlowDotColor, FlowPeriod, d)
	}
	if e.Label != "" {
		mid := e.Midpoint()
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" class="edge-label" fill="%s">%s</text>`+"\n",
			num(mid.X), num(mid.Y-4), styles.Neutral.Dark, styles.EscapeXML(e.Label))
	}
	buf.WriteString("    </g>\n")
}

func pathData(pts []layout.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(' ')
		sb.WriteString(num(p.Y))
	}
	return sb.String()
}

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
