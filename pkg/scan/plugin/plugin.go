// Package plugin discovers the structure of plugin packages and plugin
// marketplaces.
//
// A project is a marketplace when .claude-plugin/marketplace.json exists;
// each plugin it lists is analysed at its relative source directory and
// linked to the marketplace with a contains edge. Otherwise the project
// itself must carry .claude-plugin/plugin.json.
//
// Inside a plugin the scanner recognizes:
//
//	commands/*.md         command, named by its first "# /name" header
//	skills/*/SKILL.md     skill, named by its front matter "name"
//	hooks/*.md            hook
//	.mcp.json             one integration server per mcpServers entry
//	src/*/                source module
//
// Every discovered child gets a contains edge from the plugin and is listed in
// the plugin's group. A skill whose body mentions a command name gets a
// triggers edge to that command.
package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/scan"
)

// Name is the scanner name used in logs and configuration.
const Name = "plugin"

const manifestDir = ".claude-plugin"

// Scanner implements scan.Scanner for plugin packages.
type Scanner struct{}

// New returns a plugin scanner.
func New() *Scanner { return &Scanner{} }

// Name implements scan.Scanner.
func (*Scanner) Name() string { return Name }

// CanHandle reports whether root has a marketplace or plugin manifest.
func (*Scanner) CanHandle(_ context.Context, root string) bool {
	return scan.FileExists(marketplacePath(root)) || scan.FileExists(pluginPath(root))
}

// Extract analyses a marketplace, or a single plugin when root is not a
// marketplace.
func (*Scanner) Extract(ctx context.Context, root string) (arch.Partial, error) {
	p := arch.EmptyPartial()

	if m, ok := readMarketplace(root); ok {
		mid := arch.GenerateID("marketplace", m.Name)
		p.SourceFiles = append(p.SourceFiles, scan.RelPath(root, marketplacePath(root)))
		p.Nodes = append(p.Nodes, arch.Component{
			ID:       mid,
			Name:     m.Name,
			Type:     arch.TypeMarketplace,
			Metadata: marketplaceMetadata(m),
		})
		for _, ref := range m.Plugins {
			if ctx.Err() != nil {
				return arch.EmptyPartial(), nil
			}
			if errors.ValidateRelativePath(ref.Source) != nil {
				continue
			}
			sub, pluginID, ok := analyzePlugin(root, filepath.Join(root, filepath.FromSlash(ref.Source)))
			if !ok {
				continue
			}
			appendPartial(&p, sub)
			p.Edges = append(p.Edges, containsEdge(mid, pluginID))
		}
		return p, nil
	}

	if sub, _, ok := analyzePlugin(root, root); ok {
		appendPartial(&p, sub)
	}
	return p, nil
}

type marketplace struct {
	Name    string      `json:"name"`
	Owner   owner       `json:"owner"`
	Plugins []pluginRef `json:"plugins"`
}

type owner struct {
	Name string `json:"name"`
}

type pluginRef struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

func marketplacePath(root string) string {
	return filepath.Join(root, manifestDir, "marketplace.json")
}

func pluginPath(dir string) string {
	return filepath.Join(dir, manifestDir, "plugin.json")
}

func readMarketplace(root string) (marketplace, bool) {
	var m marketplace
	if !readJSON(marketplacePath(root), &m) || m.Name == "" {
		return marketplace{}, false
	}
	return m, true
}

func marketplaceMetadata(m marketplace) arch.Metadata {
	meta := arch.Metadata{"plugins": len(m.Plugins)}
	if m.Owner.Name != "" {
		meta["owner"] = m.Owner.Name
	}
	return meta
}

// analyzePlugin scans one plugin directory. Source file paths are relative
// to root so marketplace and single-plugin projects report them the same way.
func analyzePlugin(root, dir string) (arch.Partial, string, bool) {
	var mf manifest
	if !readJSON(pluginPath(dir), &mf) || mf.Name == "" {
		return arch.Partial{}, "", false
	}

	p := arch.EmptyPartial()
	pluginID := arch.GenerateID("plugin", mf.Name)
	p.SourceFiles = append(p.SourceFiles, scan.RelPath(root, pluginPath(dir)))

	meta := arch.Metadata{}
	if mf.Version != "" {
		meta["version"] = mf.Version
	}
	if mf.Description != "" {
		meta["description"] = mf.Description
	}
	p.Nodes = append(p.Nodes, arch.Component{
		ID:       pluginID,
		Name:     mf.Name,
		Type:     arch.TypePlugin,
		Metadata: meta,
	})

	d := discover(root, dir)
	children := make([]string, 0, len(d.components))
	for _, c := range d.components {
		p.Nodes = append(p.Nodes, c)
		p.Edges = append(p.Edges, containsEdge(pluginID, c.ID))
		children = append(children, c.ID)
	}
	p.Edges = append(p.Edges, triggerEdges(d.skills, d.commands)...)
	p.SourceFiles = append(p.SourceFiles, d.files...)

	p.Groups = append(p.Groups, arch.LogicalGroup{
		ID:       "group-" + pluginID,
		Name:     mf.Name,
		Type:     arch.GroupPlugin,
		Children: children,
	})
	return p, pluginID, true
}

func containsEdge(from, to string) arch.Connection {
	return arch.Connection{
		ID:   from + "-contains-" + to,
		From: from,
		To:   to,
		Type: arch.ConnContains,
	}
}

func appendPartial(dst *arch.Partial, src arch.Partial) {
	dst.Nodes = append(dst.Nodes, src.Nodes...)
	dst.Edges = append(dst.Edges, src.Edges...)
	dst.Groups = append(dst.Groups, src.Groups...)
	dst.SourceFiles = append(dst.SourceFiles, src.SourceFiles...)
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
