package defaults

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/archgraph/pkg/scan"
)

func TestNewRegistryOrder(t *testing.T) {
	got := NewRegistry().Names()
	want := []string{"terraform", "compose", "plugin"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMixedProject(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("infra/main.tf", `resource "aws_s3_bucket" "assets" {}`)
	write("docker-compose.yml", "services:\n  web:\n    image: nginx\n")

	partials := NewRegistry(scan.WithDisabled("plugin")).AnalyzeAll(context.Background(), root)
	if len(partials) != 2 {
		t.Fatalf("AnalyzeAll() returned %d partials, want 2", len(partials))
	}
	if id := partials[0].Nodes[0].ID; id != "s3-assets" {
		t.Errorf("first partial node = %q, want s3-assets", id)
	}
	if id := partials[1].Nodes[0].ID; id != "docker-web" {
		t.Errorf("second partial node = %q, want docker-web", id)
	}
}
