// Package terraform discovers AWS components in Terraform configurations.
//
// Resource blocks are parsed with HCL. Known resource types become
// components (see the mapping table), while aws_vpc, aws_subnet, and
// aws_security_group become logical groups. References between known
// resources (for example aws_dynamodb_table.users.arn inside a Lambda) turn
// into depends-on edges, subnets that reference a VPC are nested inside it,
// and components that reference a subnet or security group become members of
// that group.
//
// Files that fail to parse fall back to a line pattern that still recovers
// resource declarations, just without references.
package terraform

import (
	"context"
	"os"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/scan"
)

const (
	// Name is the scanner name used in logs and configuration.
	Name = "terraform"

	probeDepth = 2
	scanDepth  = 3
)

var resourcePattern = regexp.MustCompile(`resource\s+"([^"]+)"\s+"([^"]+)"`)

// Scanner implements scan.Scanner for *.tf files.
type Scanner struct{}

// New returns a Terraform scanner.
func New() *Scanner { return &Scanner{} }

// Name implements scan.Scanner.
func (*Scanner) Name() string { return Name }

// CanHandle reports whether a .tf file exists within two directory levels.
func (*Scanner) CanHandle(_ context.Context, root string) bool {
	return scan.HasFile(root, probeDepth, "*.tf")
}

// Extract parses every .tf file within three directory levels.
func (*Scanner) Extract(ctx context.Context, root string) (arch.Partial, error) {
	p := arch.EmptyPartial()
	var resources []resource

	for _, path := range scan.FindFiles(root, scanDepth, "*.tf") {
		if ctx.Err() != nil {
			return arch.EmptyPartial(), nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		rel := scan.RelPath(root, path)
		p.SourceFiles = append(p.SourceFiles, rel)
		resources = append(resources, parseResources(src, rel)...)
	}

	b := newPartialBuilder()
	for _, r := range resources {
		b.declare(r)
	}
	for _, r := range resources {
		b.link(r)
	}
	p.Nodes = append(p.Nodes, b.nodes.values()...)
	p.Groups = append(p.Groups, b.groups.values()...)
	p.Edges = append(p.Edges, b.edges...)
	return p, nil
}

// resource is one declared resource block and the resources it references.
type resource struct {
	Type string
	Name string
	File string
	Refs []address
}

// address identifies a resource by type and name.
type address struct {
	Type string
	Name string
}

// parseResources extracts resource blocks from one file, falling back to a
// regular expression when the file is not valid HCL.
func parseResources(src []byte, file string) []resource {
	f, diags := hclparse.NewParser().ParseHCL(src, file)
	if diags.HasErrors() || f == nil {
		return matchResources(src, file)
	}
	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return matchResources(src, file)
	}

	var out []resource
	for _, block := range body.Blocks {
		if block.Type != "resource" || len(block.Labels) != 2 {
			continue
		}
		out = append(out, resource{
			Type: block.Labels[0],
			Name: block.Labels[1],
			File: file,
			Refs: references(block.Body),
		})
	}
	return out
}

func matchResources(src []byte, file string) []resource {
	var out []resource
	for _, m := range resourcePattern.FindAllSubmatch(src, -1) {
		out = append(out, resource{Type: string(m[1]), Name: string(m[2]), File: file})
	}
	return out
}

// references collects resource addresses used anywhere in body, in
// attribute-name order and then nested-block order, without duplicates.
func references(body *hclsyntax.Body) []address {
	var out []address
	seen := make(map[address]bool)
	var visit func(*hclsyntax.Body)
	visit = func(b *hclsyntax.Body) {
		for _, name := range sortedKeys(map[string]*hclsyntax.Attribute(b.Attributes)) {
			for _, tr := range b.Attributes[name].Expr.Variables() {
				addr, ok := resourceAddress(tr)
				if ok && !seen[addr] {
					seen[addr] = true
					out = append(out, addr)
				}
			}
		}
		for _, nested := range b.Blocks {
			visit(nested.Body)
		}
	}
	visit(body)
	return out
}

// resourceAddress turns aws_x.name[.attr...] into an address. Roots such as
// var, local, module, and data never match a mapped resource type and are
// filtered out later.
func resourceAddress(tr hcl.Traversal) (address, bool) {
	if len(tr) < 2 {
		return address{}, false
	}
	attr, ok := tr[1].(hcl.TraverseAttr)
	if !ok {
		return address{}, false
	}
	return address{Type: tr.RootName(), Name: attr.Name}, true
}
