package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/archgraph/pkg/arch"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func designerPlugin(prefix string) map[string]string {
	return map[string]string{
		prefix + ".claude-plugin/plugin.json": `{"name": "arch-designer", "version": "1.2.0", "description": "Draws diagrams"}`,
		prefix + "commands/analyze.md":        "# /arch:analyze\n\nScan the project.\n",
		prefix + "commands/render.md":         "Render without a header.\n",
		prefix + "skills/diagramming/SKILL.md": "---\nname: Diagramming\ndescription: Knows layouts\n---\n" +
			"Run /arch:analyze first, then draw.\n",
		prefix + "skills/plain/SKILL.md":   "No front matter here.\n",
		prefix + "hooks/pre-commit.md":     "Check diagrams.\n",
		prefix + ".mcp.json":               `{"mcpServers": {"zeta": {"command": "z"}, "alpha": {"command": "a"}}}`,
		prefix + "src/layout/index.ts":     "",
		prefix + "src/analyzers/index.ts":  "",
		prefix + "src/.cache/ignored":      "",
	}
}

func TestCanHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("plugin manifest", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{".claude-plugin/plugin.json": "{}"})
		assert.True(t, New().CanHandle(ctx, root))
	})
	t.Run("marketplace manifest", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{".claude-plugin/marketplace.json": "{}"})
		assert.True(t, New().CanHandle(ctx, root))
	})
	t.Run("neither", func(t *testing.T) {
		assert.False(t, New().CanHandle(ctx, t.TempDir()))
	})
}

func TestExtractSinglePlugin(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, designerPlugin(""))

	p, err := New().Extract(context.Background(), root)
	require.NoError(t, err)

	var ids []string
	for _, n := range p.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{
		"plugin-arch-designer",
		"command--arch-analyze",
		"command--render",
		"skill-diagramming",
		"skill-plain",
		"hook-pre-commit",
		"mcp-alpha",
		"mcp-zeta",
		"module-analyzers",
		"module-layout",
	}, ids)

	assert.Equal(t, arch.Metadata{"version": "1.2.0", "description": "Draws diagrams"}, p.Nodes[0].Metadata)
	assert.Equal(t, "/arch:analyze", p.Nodes[1].Name)
	assert.Equal(t, "/render", p.Nodes[2].Name)
	assert.Equal(t, "Diagramming", p.Nodes[3].Name)
	assert.Equal(t, "Knows layouts", p.Nodes[3].Metadata["description"])
	assert.Equal(t, "plain", p.Nodes[4].Name)

	require.Len(t, p.Groups, 1)
	g := p.Groups[0]
	assert.Equal(t, "group-plugin-arch-designer", g.ID)
	assert.Equal(t, arch.GroupPlugin, g.Type)
	assert.Equal(t, ids[1:], g.Children)

	var contains, triggers []arch.Connection
	for _, e := range p.Edges {
		switch e.Type {
		case arch.ConnContains:
			contains = append(contains, e)
		case arch.ConnTriggers:
			triggers = append(triggers, e)
		}
	}
	assert.Len(t, contains, 9)
	assert.Equal(t, "plugin-arch-designer-contains-command--arch-analyze", contains[0].ID)
	require.Len(t, triggers, 1)
	assert.Equal(t, arch.Connection{
		ID:   "skill-diagramming-triggers-command--arch-analyze",
		From: "skill-diagramming",
		To:   "command--arch-analyze",
		Type: arch.ConnTriggers,
	}, triggers[0])

	assert.Contains(t, p.SourceFiles, ".claude-plugin/plugin.json")
	assert.Contains(t, p.SourceFiles, "commands/analyze.md")
	assert.Contains(t, p.SourceFiles, "skills/diagramming/SKILL.md")
	assert.Contains(t, p.SourceFiles, ".mcp.json")
}

func TestExtractMarketplace(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, designerPlugin("plugins/designer/"))
	writeFiles(t, root, map[string]string{
		".claude-plugin/marketplace.json": `{
			"name": "Team Tools",
			"owner": {"name": "platform"},
			"plugins": [
				{"name": "designer", "source": "./plugins/designer"},
				{"name": "escape", "source": "../outside"},
				{"name": "missing", "source": "plugins/missing"}
			]
		}`,
	})

	p, err := New().Extract(context.Background(), root)
	require.NoError(t, err)

	require.NotEmpty(t, p.Nodes)
	assert.Equal(t, arch.Component{
		ID:       "marketplace-team-tools",
		Name:     "Team Tools",
		Type:     arch.TypeMarketplace,
		Metadata: arch.Metadata{"plugins": 3, "owner": "platform"},
	}, p.Nodes[0])
	assert.Equal(t, "plugin-arch-designer", p.Nodes[1].ID)

	last := p.Edges[len(p.Edges)-1]
	assert.Equal(t, "marketplace-team-tools-contains-plugin-arch-designer", last.ID)

	assert.Equal(t, ".claude-plugin/marketplace.json", p.SourceFiles[0])
	assert.Contains(t, p.SourceFiles, "plugins/designer/.claude-plugin/plugin.json")
	assert.Len(t, p.Groups, 1)
}

func TestExtractInvalidManifests(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"broken plugin json", map[string]string{".claude-plugin/plugin.json": "{not json"}},
		{"unnamed plugin", map[string]string{".claude-plugin/plugin.json": `{"version": "1"}`}},
		{"no manifests", map[string]string{"README.md": "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files)
			p, err := New().Extract(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, arch.EmptyPartial(), p)
		})
	}
}

func TestBrokenMarketplaceFallsBackToPlugin(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".claude-plugin/marketplace.json": "{oops",
		".claude-plugin/plugin.json":      `{"name": "solo"}`,
	})

	p, err := New().Extract(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, p.Nodes, 1)
	assert.Equal(t, "plugin-solo", p.Nodes[0].ID)
	assert.Equal(t, []string{}, p.Groups[0].Children)
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantName string
		wantBody string
	}{
		{"with front matter", "---\nname: x\n---\nbody\n", "x", "body\n"},
		{"crlf", "---\r\nname: y\r\n---\r\nbody", "y", "body"},
		{"none", "just text", "", "just text"},
		{"unterminated", "---\nname: z\n", "", "---\nname: z\n"},
		{"bad yaml", "---\nname: [\n---\nbody", "", "---\nname: [\n---\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body := splitFrontMatter([]byte(tt.in))
			if fm.Name != tt.wantName {
				t.Errorf("splitFrontMatter() name = %q, want %q", fm.Name, tt.wantName)
			}
			if string(body) != tt.wantBody {
				t.Errorf("splitFrontMatter() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
