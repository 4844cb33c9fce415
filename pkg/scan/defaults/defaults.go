// Package defaults wires the built-in scanners into a registry.
package defaults

import (
	"github.com/matzehuels/archgraph/pkg/scan"
	"github.com/matzehuels/archgraph/pkg/scan/compose"
	"github.com/matzehuels/archgraph/pkg/scan/plugin"
	"github.com/matzehuels/archgraph/pkg/scan/terraform"
)

// Scanners returns the built-in scanners in merge-precedence order:
// terraform, compose, plugin. Later scanners win id collisions.
func Scanners() []scan.Scanner {
	return []scan.Scanner{
		terraform.New(),
		compose.New(),
		plugin.New(),
	}
}

// NewRegistry returns a registry with the built-in scanners registered.
func NewRegistry(opts ...scan.Option) *scan.Registry {
	r := scan.NewRegistry(opts...)
	r.Register(Scanners()...)
	return r
}
