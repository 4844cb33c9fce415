package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/layout"
)

func sampleLayout() layout.Result {
	g := arch.ArchitectureGraph{
		Nodes: []arch.Component{
			{ID: "api", Name: "API", Type: arch.TypeAPI, Service: "apigateway"},
			{ID: "fn", Name: "Orders", Type: arch.TypeCompute, Service: "lambda"},
			{ID: "db", Name: "Orders DB", Type: arch.TypeDatabase},
		},
		Edges: []arch.Connection{
			{ID: "e1", From: "api", To: "fn", Type: arch.ConnInvoke},
			{ID: "e2", From: "fn", To: "db", Type: arch.ConnQuery, Label: "SQL"},
		},
	}
	return layout.Compute(g)
}

func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(doc)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("document is not well-formed: %v\n%s", err, doc)
		}
	}
}

func TestRender_OneShapePerNodeOnePathPerEdge(t *testing.T) {
	l := sampleLayout()
	for _, animate := range []bool{true, false} {
		out := string(Render(l, WithAnimate(animate)))
		if got := strings.Count(out, "<rect"); got != len(l.Nodes) {
			t.Errorf("animate=%v: %d rects, want %d", animate, got, len(l.Nodes))
		}
		if got := strings.Count(out, "<path"); got != len(l.Edges) {
			t.Errorf("animate=%v: %d paths, want %d", animate, got, len(l.Edges))
		}
		wellFormed(t, []byte(out))
	}
}

func TestRender_Animation(t *testing.T) {
	l := sampleLayout()

	on := string(Render(l))
	if got := strings.Count(on, "<animateMotion"); got != len(l.Edges) {
		t.Errorf("animated: %d animateMotion, want %d", got, len(l.Edges))
	}
	if !strings.Contains(on, `dur="2s" repeatCount="indefinite"`) {
		t.Error("animation does not loop every 2s")
	}

	off := string(Render(l, WithAnimate(false)))
	for _, s := range []string{"<animate", "<circle"} {
		if strings.Contains(off, s) {
			t.Errorf("non-animated output contains %s", s)
		}
	}
}

func TestRender_ViewBox(t *testing.T) {
	l := sampleLayout()

	out := string(Render(l, WithPadding(10)))

	want := `viewBox="0 0 ` + num(l.Width+20) + ` ` + num(l.Height+20) + `"`
	if !strings.Contains(out, want) {
		t.Errorf("output missing %s", want)
	}
	if !strings.Contains(out, `width="800" height="600"`) {
		t.Error("root size does not default to 800x600")
	}
	if !strings.Contains(out, `translate(10, 10)`) {
		t.Error("content not offset by padding")
	}
}

func TestRender_Empty(t *testing.T) {
	out := string(Render(layout.Empty()))

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("empty document missing header or footer:\n%s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 800 600"`) {
		t.Errorf("empty document viewBox should use canvas size:\n%s", out)
	}
	for _, s := range []string{"<rect", "<path", "<polygon", "<circle"} {
		if strings.Contains(out, s) {
			t.Errorf("empty document contains %s", s)
		}
	}
	wellFormed(t, []byte(out))
}

func TestRender_Colors(t *testing.T) {
	l := layout.Compute(arch.ArchitectureGraph{Nodes: []arch.Component{
		{ID: "db", Name: "db", Type: arch.TypeDatabase},
		{ID: "x", Name: "x", Type: "mainframe"},
	}})

	out := string(Render(l))

	for _, s := range []string{
		`fill="#FFF4EC" stroke="#FF8C42"`, `fill="#EA580C"`,
		`fill="#F3F4F6" stroke="#6B7280"`, `fill="#374151"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %s", s)
		}
	}
}

func TestRender_ServiceCaption(t *testing.T) {
	out := string(Render(sampleLayout()))

	if !strings.Contains(out, ">LAMBDA</text>") {
		t.Error("service caption not uppercased")
	}
	if got := strings.Count(out, `class="node-badge"`); got != 2 {
		t.Errorf("%d captions, want 2 (db has no service)", got)
	}
	if !strings.Contains(out, ">SQL</text>") {
		t.Error("edge label missing")
	}
}

func TestRender_Escaping(t *testing.T) {
	l := layout.Compute(arch.ArchitectureGraph{
		Nodes: []arch.Component{
			{ID: `a"1`, Name: `<script>alert('x')</script>`, Type: arch.TypeAPI, Service: "R&D"},
			{ID: "b", Name: "b", Type: arch.TypeAPI},
		},
		Edges: []arch.Connection{{ID: "e<1>", From: `a"1`, To: "b", Label: `"quoted" & 'single'`}},
	})

	out := Render(l)

	s := string(out)
	for _, raw := range []string{"<script>", `a"1`, "R&D", "e<1>", `"quoted"`} {
		if strings.Contains(s, raw) {
			t.Errorf("output contains unescaped %q", raw)
		}
	}
	for _, esc := range []string{"&lt;script&gt;", "&#39;", "&#34;", "R&amp;D"} {
		if !strings.Contains(s, esc) {
			t.Errorf("output missing %q", esc)
		}
	}
	wellFormed(t, out)
}

func TestRender_Deterministic(t *testing.T) {
	l := sampleLayout()
	if string(Render(l)) != string(Render(l)) {
		t.Error("Render() is not deterministic")
	}
}

func TestNewOptions(t *testing.T) {
	o := newOptions(WithWidth(-1), WithHeight(0), WithPadding(-5))
	if o != DefaultOptions() {
		t.Errorf("invalid values not replaced by defaults: %+v", o)
	}
	o = newOptions(WithOptions(Options{Width: 10, Height: 20, Padding: 0}))
	if o.Width != 10 || o.Height != 20 || o.Padding != 0 || o.Animate {
		t.Errorf("WithOptions() = %+v", o)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 12.5: "12.5", 1.0 / 3: "0.33", -4: "-4", 100.004: "100"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
