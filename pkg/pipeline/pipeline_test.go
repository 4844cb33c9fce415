package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/scan"
)

const composeFile = `services:
  web:
    image: nginx:1.27
    depends_on:
      - api
  api:
    build: .
    depends_on:
      - db
  db:
    image: postgres:16
`

// writeProject lays out a small compose + terraform project and returns its
// root.
func writeProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "shop")
	files := map[string]string{
		"docker-compose.yml": composeFile,
		"infra/main.tf":      `resource "aws_s3_bucket" "assets" {}`,
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func quiet() *log.Logger { return log.New(io.Discard) }

var fixedClock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestGenerate(t *testing.T) {
	root := writeProject(t)
	res, err := Generate(context.Background(), root, Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got := len(res.Graph.Nodes); got != 4 {
		t.Errorf("nodes = %d, want 4", got)
	}
	if got := len(res.Graph.Edges); got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
	if res.Graph.Metadata.ProjectName != "shop" {
		t.Errorf("ProjectName = %q, want root base name shop", res.Graph.Metadata.ProjectName)
	}
	if !res.Graph.Metadata.AnalyzedAt.Equal(fixedClock()) {
		t.Errorf("AnalyzedAt = %v, want injected clock", res.Graph.Metadata.AnalyzedAt)
	}
	if len(res.Layout.Nodes) != 4 || len(res.Layout.Edges) != 2 {
		t.Errorf("layout has %d nodes %d edges, want 4 and 2", len(res.Layout.Nodes), len(res.Layout.Edges))
	}

	doc := string(res.SVG)
	if !strings.HasPrefix(doc, "<svg") || !strings.Contains(doc, "viewBox=") || !strings.HasSuffix(strings.TrimSpace(doc), "</svg>") {
		t.Errorf("SVG is not a complete document:\n%s", doc)
	}
	if n := strings.Count(doc, "<rect"); n != 4 {
		t.Errorf("rect count = %d, want 4", n)
	}
	if n := strings.Count(doc, "<path"); n != 2 {
		t.Errorf("path count = %d, want 2", n)
	}
	if !strings.Contains(doc, "animateMotion") {
		t.Error("animation should be on by default")
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(res.Scan.Partials) != 2 {
		t.Errorf("partials = %d, want 2 (terraform, compose)", len(res.Scan.Partials))
	}
}

func TestGenerateNoAnimate(t *testing.T) {
	root := writeProject(t)
	res, err := Generate(context.Background(), root, Options{Animate: Bool(false), ProjectName: "Shop"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(res.SVG), "animateMotion") {
		t.Error("animate=false must not emit motion markup")
	}
	if res.Graph.Metadata.ProjectName != "Shop" {
		t.Errorf("ProjectName = %q, want Shop", res.Graph.Metadata.ProjectName)
	}
}

func TestGenerateEmptyProject(t *testing.T) {
	res, err := Generate(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Generate on empty dir: %v", err)
	}
	if !res.Graph.IsEmpty() || !res.Layout.IsEmpty() {
		t.Errorf("expected empty graph and layout, got %+v", res.Layout)
	}
	if !strings.Contains(string(res.SVG), "</svg>") {
		t.Error("empty project should still render a document")
	}
}

func TestGenerateErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		root string
		opts Options
		code errors.Code
	}{
		{"missing root", filepath.Join(t.TempDir(), "nope"), Options{}, errors.ErrCodeFileNotFound},
		{"root is file", file, Options{}, errors.ErrCodeInvalidPath},
		{"negative width", t.TempDir(), Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"bad format", t.TempDir(), Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidInput},
		{"control char name", t.TempDir(), Options{ProjectName: "a\x01b"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(context.Background(), tt.root, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, writeProject(t), Options{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	root := writeProject(t)
	mem, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(mem, nil, quiet())
	defer r.Close()

	first, err := r.Execute(ctx, root, Options{Clock: fixedClock})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}

	// a later analysis of the unchanged project reuses the cached stages
	second, err := r.Execute(ctx, root, Options{Clock: func() time.Time { return fixedClock().Add(time.Hour) }})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(second.SVG) != string(first.SVG) {
		t.Error("cached SVG differs from rendered SVG")
	}
	if first.GraphHash != second.GraphHash {
		t.Error("GraphHash should ignore the analysis timestamp")
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own RunID")
	}

	refreshed, err := r.Execute(ctx, root, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("Refresh should bypass the cache: %+v", refreshed.CacheInfo)
	}

	// animation is part of the artifact key but not the layout key
	still, err := r.Execute(ctx, root, Options{Animate: Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	if !still.CacheInfo.LayoutHit || still.CacheInfo.RenderHit {
		t.Errorf("animate change: want layout hit and render miss, got %+v", still.CacheInfo)
	}
}

func TestExecuteGraph(t *testing.T) {
	g := arch.ArchitectureGraph{
		Nodes: []arch.Component{
			{ID: "api", Name: "api", Type: arch.ComponentType("api")},
			{ID: "db", Name: "db", Type: arch.ComponentType("database")},
		},
		Edges: []arch.Connection{{ID: "e", From: "api", To: "db", Type: arch.ConnectionType("query")}},
	}
	res, err := NewRunner(nil, nil, quiet()).ExecuteGraph(context.Background(), g, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Artifacts[FormatSVG]; !ok {
		t.Error("svg should always be produced")
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, `"api" -> "db"`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
	if res.Stats.NodeCount != 2 || res.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRunnerDisabledScanner(t *testing.T) {
	root := writeProject(t)
	r := NewRunner(nil, nil, quiet())
	g, report, err := r.Scan(context.Background(), root, Options{DisabledScanners: []string{"terraform"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Node("s3-assets"); ok {
		t.Error("disabled terraform scanner still contributed")
	}
	var skipped bool
	for _, o := range report.Outcomes {
		if o.Scanner == "terraform" && o.Skipped {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("terraform outcome should be skipped: %+v", report.Outcomes)
	}
}

func TestRunnerCustomRegistry(t *testing.T) {
	reg := scan.NewRegistry()
	g, _, err := NewRunner(nil, nil, quiet()).Scan(context.Background(), writeProject(t), Options{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsEmpty() {
		t.Errorf("empty registry should produce an empty graph, got %d nodes", len(g.Nodes))
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Padding != DefaultPadding {
		t.Errorf("render defaults not applied: %+v", o)
	}
	if o.NodeSep != DefaultNodeSep || o.RankSep != DefaultRankSep || o.Margin != DefaultMargin {
		t.Errorf("layout defaults not applied: %+v", o)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if !o.AnimateEnabled() {
		t.Error("nil Animate should mean enabled")
	}

	// idempotent
	o.Width = 1234
	if err := o.ValidateAndSetDefaults(); err != nil || o.Width != 1234 {
		t.Errorf("second call changed options: %v %v", err, o.Width)
	}

	withPNG := Options{Formats: []string{FormatPNG}}
	if err := withPNG.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(withPNG.Formats) != 2 || withPNG.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want svg prepended", withPNG.Formats)
	}
}

func TestResolveProjectName(t *testing.T) {
	o := Options{}
	if got := o.ResolveProjectName("/tmp/work/payments/"); got != "payments" {
		t.Errorf("ResolveProjectName = %q, want payments", got)
	}
	o.ProjectName = "Payments"
	if got := o.ResolveProjectName("/tmp/work/payments"); got != "Payments" {
		t.Errorf("ResolveProjectName = %q, want Payments", got)
	}
}

func TestGraphHashIgnoresTimestamp(t *testing.T) {
	g := arch.ArchitectureGraph{Nodes: []arch.Component{{ID: "a"}}}
	g.Metadata.AnalyzedAt = fixedClock()
	h1 := GraphHash(g)
	g.Metadata.AnalyzedAt = fixedClock().Add(time.Minute)
	if GraphHash(g) != h1 {
		t.Error("timestamp should not affect GraphHash")
	}
	g.Nodes = append(g.Nodes, arch.Component{ID: "b"})
	if GraphHash(g) == h1 {
		t.Error("added node should change GraphHash")
	}
}
