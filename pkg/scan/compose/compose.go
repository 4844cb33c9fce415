// Package compose discovers services in container compose manifests.
//
// The first of docker-compose.yml, docker-compose.yaml, compose.yml, and
// compose.yaml found in the project root is read. Every service becomes a
// component typed by its image (postgres is a database, redis a cache, and
// so on; unknown images are generic compute). depends_on entries, in either
// list or map form, become edges from the dependent service to its
// dependency. Services are emitted in document order.
package compose

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/scan"
)

// Name is the scanner name used in logs and configuration.
const Name = "compose"

// FileNames lists the manifest names probed, in priority order.
var FileNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Scanner implements scan.Scanner for compose manifests.
type Scanner struct{}

// New returns a compose scanner.
func New() *Scanner { return &Scanner{} }

// Name implements scan.Scanner.
func (*Scanner) Name() string { return Name }

// CanHandle reports whether a compose manifest exists in root.
func (*Scanner) CanHandle(_ context.Context, root string) bool {
	_, ok := scan.FirstExisting(root, FileNames...)
	return ok
}

// Extract reads the first compose manifest in root. A manifest that cannot
// be read or parsed yields the empty partial.
func (*Scanner) Extract(_ context.Context, root string) (arch.Partial, error) {
	path, ok := scan.FirstExisting(root, FileNames...)
	if !ok {
		return arch.EmptyPartial(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return arch.EmptyPartial(), nil
	}
	services, err := parseServices(src)
	if err != nil {
		return arch.EmptyPartial(), nil
	}

	p := arch.EmptyPartial()
	p.SourceFiles = append(p.SourceFiles, scan.RelPath(root, path))
	for _, svc := range services {
		p.Nodes = append(p.Nodes, component(svc))
	}
	for _, svc := range services {
		for _, dep := range svc.DependsOn {
			p.Edges = append(p.Edges, arch.Connection{
				ID:    arch.GenerateID("dep", svc.Name+"-"+dep),
				From:  arch.GenerateID("docker", svc.Name),
				To:    arch.GenerateID("docker", dep),
				Type:  arch.ConnHTTP,
				Label: "depends_on",
			})
		}
	}
	return p, nil
}

func component(svc service) arch.Component {
	m := inferType(svc.Image)
	meta := arch.Metadata{}
	if svc.Image != "" {
		meta["image"] = svc.Image
	}
	if len(svc.Ports) > 0 {
		meta["ports"] = []string(svc.Ports)
	}
	return arch.Component{
		ID:       arch.GenerateID("docker", svc.Name),
		Name:     svc.Name,
		Type:     m.Type,
		Provider: arch.ProviderGeneric,
		Service:  m.Service,
		Metadata: meta,
	}
}

// service is the subset of a compose service definition the scanner reads.
type service struct {
	Name      string    `yaml:"-"`
	Image     string    `yaml:"image"`
	Ports     portList  `yaml:"ports"`
	DependsOn dependsOn `yaml:"depends_on"`
}

// parseServices decodes the services mapping, preserving document order.
func parseServices(src []byte) ([]service, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("compose: top level is not a mapping")
	}
	services := mappingValue(top, "services")
	if services == nil {
		return nil, nil
	}
	if services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("compose: services is not a mapping")
	}

	out := make([]service, 0, len(services.Content)/2)
	for i := 0; i+1 < len(services.Content); i += 2 {
		var svc service
		if body := services.Content[i+1]; body.Kind == yaml.MappingNode {
			if err := body.Decode(&svc); err != nil {
				return nil, fmt.Errorf("compose: service %s: %w", services.Content[i].Value, err)
			}
		}
		svc.Name = services.Content[i].Value
		out = append(out, svc)
	}
	return out, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// dependsOn accepts the list form, the map form keyed by service name, and
// a bare string.
type dependsOn []string

func (d *dependsOn) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return err
		}
		*d = names
	case yaml.MappingNode:
		names := make([]string, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			names = append(names, n.Content[i].Value)
		}
		*d = names
	case yaml.ScalarNode:
		if n.Value != "" {
			*d = []string{n.Value}
		}
	default:
		return fmt.Errorf("depends_on: unsupported node kind %d", n.Kind)
	}
	return nil
}

// portList flattens short ("8080:80", 5432) and long ({target: 80,
// published: 8080}) port syntax into strings.
type portList []string

func (p *portList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("ports: expected a sequence")
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var long struct {
				Target    string `yaml:"target"`
				Published string `yaml:"published"`
			}
			if err := item.Decode(&long); err != nil {
				return err
			}
			if long.Published != "" {
				out = append(out, long.Published+":"+long.Target)
			} else {
				out = append(out, long.Target)
			}
		}
	}
	*p = out
	return nil
}
