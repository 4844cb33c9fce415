package plugin

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/scan"
)

var commandHeader = regexp.MustCompile(`(?m)^#\s+(/[\w:-]+)`)

// skill is a discovered skill plus the body used for trigger detection.
type skill struct {
	arch.Component
	Body string
}

// discovery is everything found inside one plugin directory. components
// lists commands, skills, hooks, servers, and modules in that order.
type discovery struct {
	components []arch.Component
	commands   []arch.Component
	skills     []skill
	files      []string
}

func discover(root, dir string) discovery {
	var d discovery

	for _, path := range scan.FindFiles(filepath.Join(dir, "commands"), 0, "*.md") {
		c, ok := readCommand(path)
		if !ok {
			continue
		}
		d.commands = append(d.commands, c)
		d.components = append(d.components, c)
		d.files = append(d.files, scan.RelPath(root, path))
	}

	for _, path := range scan.FindFiles(filepath.Join(dir, "skills"), 1, "*/SKILL.md") {
		s, ok := readSkill(path)
		if !ok {
			continue
		}
		d.skills = append(d.skills, s)
		d.components = append(d.components, s.Component)
		d.files = append(d.files, scan.RelPath(root, path))
	}

	for _, path := range scan.FindFiles(filepath.Join(dir, "hooks"), 0, "*.md") {
		name := strings.TrimSuffix(filepath.Base(path), ".md")
		d.components = append(d.components, arch.Component{
			ID:       arch.GenerateID("hook", name),
			Name:     name,
			Type:     arch.TypeHook,
			Metadata: arch.Metadata{"file": filepath.Base(path)},
		})
		d.files = append(d.files, scan.RelPath(root, path))
	}

	mcpPath := filepath.Join(dir, ".mcp.json")
	if servers, ok := readMCPServers(mcpPath); ok {
		d.components = append(d.components, servers...)
		d.files = append(d.files, scan.RelPath(root, mcpPath))
	}

	d.components = append(d.components, modules(filepath.Join(dir, "src"))...)
	return d
}

func readCommand(path string) (arch.Component, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return arch.Component{}, false
	}
	file := filepath.Base(path)
	name := "/" + strings.TrimSuffix(file, ".md")
	if m := commandHeader.FindSubmatch(content); m != nil {
		name = string(m[1])
	}
	return arch.Component{
		ID:       arch.GenerateID("command", name),
		Name:     name,
		Type:     arch.TypeCommand,
		Metadata: arch.Metadata{"file": file},
	}, true
}

type frontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func readSkill(path string) (skill, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return skill{}, false
	}
	dir := filepath.Base(filepath.Dir(path))
	fm, body := splitFrontMatter(content)

	name := strings.TrimSpace(fm.Name)
	if name == "" {
		name = dir
	}
	meta := arch.Metadata{"directory": dir}
	if fm.Description != "" {
		meta["description"] = fm.Description
	}
	return skill{
		Component: arch.Component{
			ID:       arch.GenerateID("skill", name),
			Name:     name,
			Type:     arch.TypeSkill,
			Metadata: meta,
		},
		Body: string(body),
	}, true
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// document. Malformed front matter is ignored and the whole document is
// returned as the body.
func splitFrontMatter(content []byte) (frontMatter, []byte) {
	var fm frontMatter
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return fm, content
	}
	rest := normalized[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, content
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return frontMatter{}, content
	}
	body := rest[end+len("\n---"):]
	return fm, bytes.TrimLeft(body, "-\n")
}

func readMCPServers(path string) ([]arch.Component, bool) {
	var cfg struct {
		MCPServers map[string]any `json:"mcpServers"`
	}
	if !readJSON(path, &cfg) || len(cfg.MCPServers) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(cfg.MCPServers))
	for name := range cfg.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]arch.Component, 0, len(names))
	for _, name := range names {
		out = append(out, arch.Component{
			ID:       arch.GenerateID("mcp", name),
			Name:     name,
			Type:     arch.TypeMCP,
			Metadata: arch.Metadata{"config": cfg.MCPServers[name]},
		})
	}
	return out, true
}

func modules(srcDir string) []arch.Component {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil
	}
	var out []arch.Component
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, arch.Component{
			ID:       arch.GenerateID("module", e.Name()),
			Name:     e.Name(),
			Type:     arch.TypeModule,
			Metadata: arch.Metadata{},
		})
	}
	return out
}

// triggerEdges links each skill to every command its body mentions.
func triggerEdges(skills []skill, commands []arch.Component) []arch.Connection {
	var out []arch.Connection
	for _, s := range skills {
		if s.Body == "" {
			continue
		}
		for _, c := range commands {
			if !strings.Contains(s.Body, c.Name) {
				continue
			}
			out = append(out, arch.Connection{
				ID:   s.ID + "-triggers-" + c.ID,
				From: s.ID,
				To:   c.ID,
				Type: arch.ConnTriggers,
			})
		}
	}
	return out
}
