package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"main.tf",
		"modules/vpc/main.tf",
		"a/b/c/deep.tf",
		"a/b/c/d/too-deep.tf",
		".terraform/cached.tf",
		"node_modules/pkg/x.tf",
		"README.md",
	)

	tests := []struct {
		name     string
		depth    int
		patterns []string
		want     []string
	}{
		{"root only", 0, []string{"*.tf"}, []string{"main.tf"}},
		{"depth 2", 2, []string{"*.tf"}, []string{"main.tf", "modules/vpc/main.tf"}},
		{"depth 3", 3, []string{"*.tf"}, []string{"a/b/c/deep.tf", "main.tf", "modules/vpc/main.tf"}},
		{"relative pattern", 3, []string{"modules/**/*.tf"}, []string{"modules/vpc/main.tf"}},
		{"multiple patterns", 0, []string{"*.md", "*.tf"}, []string{"README.md", "main.tf"}},
		{"no match", 3, []string{"*.yaml"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFiles(root, tt.depth, tt.patterns...)
			var rel []string
			for _, p := range got {
				rel = append(rel, RelPath(root, p))
			}
			if len(rel) != len(tt.want) {
				t.Fatalf("FindFiles() = %v, want %v", rel, tt.want)
			}
			for i := range rel {
				if rel[i] != tt.want[i] {
					t.Errorf("FindFiles()[%d] = %q, want %q", i, rel[i], tt.want[i])
				}
			}
		})
	}
}

func TestHasFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "infra/prod/main.tf")

	if !HasFile(root, 2, "*.tf") {
		t.Error("HasFile(depth 2) = false, want true")
	}
	if HasFile(root, 1, "*.tf") {
		t.Error("HasFile(depth 1) = true, want false")
	}
	if HasFile(filepath.Join(root, "missing"), 3, "*.tf") {
		t.Error("HasFile(missing dir) = true, want false")
	}
}

func TestFileHelpers(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "compose.yaml")

	if !FileExists(filepath.Join(root, "compose.yaml")) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(root) {
		t.Error("FileExists() = true for a directory")
	}
	if !DirExists(root) {
		t.Error("DirExists() = false for a directory")
	}

	got, ok := FirstExisting(root, "docker-compose.yml", "compose.yaml")
	if !ok || filepath.Base(got) != "compose.yaml" {
		t.Errorf("FirstExisting() = %q, %v; want compose.yaml", got, ok)
	}
	if _, ok := FirstExisting(root, "nope.yml"); ok {
		t.Error("FirstExisting() found a missing file")
	}
}

func TestRelPath(t *testing.T) {
	root := filepath.FromSlash("/proj")
	if got := RelPath(root, filepath.FromSlash("/proj/infra/main.tf")); got != "infra/main.tf" {
		t.Errorf("RelPath() = %q, want infra/main.tf", got)
	}
	if got := RelPath(root, filepath.FromSlash("/elsewhere/x.tf")); got != "/elsewhere/x.tf" {
		t.Errorf("RelPath() outside root = %q, want unchanged", got)
	}
}
