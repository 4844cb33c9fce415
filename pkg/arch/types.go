package arch

import "time"

// ComponentType categorizes a component. The set is closed for rendering
// purposes (colors, sizes) but unknown values are carried through untouched.
type ComponentType string

// Component categories.
const (
	TypeFrontend   ComponentType = "frontend"
	TypeAPI        ComponentType = "api"
	TypeCompute    ComponentType = "compute"
	TypeDatabase   ComponentType = "database"
	TypeCache      ComponentType = "cache"
	TypeStorage    ComponentType = "storage"
	TypeQueue      ComponentType = "queue"
	TypeStream     ComponentType = "stream"
	TypeCDN        ComponentType = "cdn"
	TypeAuth       ComponentType = "auth"
	TypeMonitoring ComponentType = "monitoring"
	TypeExternal   ComponentType = "external"
	TypeUser       ComponentType = "user"

	// Structural categories produced by the plugin scanner.
	TypeMarketplace ComponentType = "marketplace"
	TypePlugin      ComponentType = "plugin"
	TypeCommand     ComponentType = "command"
	TypeSkill       ComponentType = "skill"
	TypeHook        ComponentType = "hook"
	TypeMCP         ComponentType = "mcp"
	TypeModule      ComponentType = "module"
)

// ConnectionType describes the kind of relationship an edge represents.
type ConnectionType string

// Connection kinds.
const (
	ConnHTTP      ConnectionType = "http"
	ConnGRPC      ConnectionType = "grpc"
	ConnGraphQL   ConnectionType = "graphql"
	ConnWebSocket ConnectionType = "websocket"
	ConnInvoke    ConnectionType = "invoke"
	ConnQuery     ConnectionType = "query"
	ConnPublish   ConnectionType = "publish"
	ConnSubscribe ConnectionType = "subscribe"
	ConnEvent     ConnectionType = "event"
	ConnStream    ConnectionType = "stream"
	ConnSync      ConnectionType = "sync"

	ConnContains  ConnectionType = "contains"
	ConnTriggers  ConnectionType = "triggers"
	ConnValidates ConnectionType = "validates"
	ConnDependsOn ConnectionType = "depends-on"
	ConnExports   ConnectionType = "exports"
)

// GroupType names the kind of boundary a LogicalGroup represents.
type GroupType string

// Group kinds.
const (
	GroupVPC             GroupType = "vpc"
	GroupSubnet          GroupType = "subnet"
	GroupRegion          GroupType = "region"
	GroupAZ              GroupType = "az"
	GroupCluster         GroupType = "cluster"
	GroupNamespace       GroupType = "namespace"
	GroupServiceBoundary GroupType = "service-boundary"
	GroupSecurityGroup   GroupType = "security-group"
	GroupMarketplace     GroupType = "marketplace"
	GroupPlugin          GroupType = "plugin"
)

// Provider is the infrastructure vendor a component runs on.
type Provider string

// Known providers.
const (
	ProviderAWS     Provider = "aws"
	ProviderGCP     Provider = "gcp"
	ProviderAzure   Provider = "azure"
	ProviderGeneric Provider = "generic"
)

// Metadata holds scanner-specific detail. Values must be JSON-encodable.
type Metadata map[string]any

// Component is a node in the architecture graph.
type Component struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     ComponentType `json:"type"`
	Provider Provider      `json:"provider,omitempty"`
	Service  string        `json:"service,omitempty"`
	Metadata Metadata      `json:"metadata,omitempty"`
}

// Connection is a directed edge between two component ids.
// Endpoints are not required to resolve to a component.
type Connection struct {
	ID       string         `json:"id"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Type     ConnectionType `json:"type"`
	Protocol string         `json:"protocol,omitempty"`
	Label    string         `json:"label,omitempty"`
	Metadata Metadata       `json:"metadata,omitempty"`
}

// IsSelfLoop reports whether the connection starts and ends at the same id.
func (c Connection) IsSelfLoop() bool { return c.From == c.To }

// LogicalGroup is a named boundary containing components or nested groups.
// Children may reference ids that are not (yet) present.
type LogicalGroup struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     GroupType `json:"type"`
	Children []string  `json:"children"`
	Parent   string    `json:"parent,omitempty"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

// ProjectMetadata is derived by the Builder from everything it merged.
type ProjectMetadata struct {
	ProjectName   string    `json:"project_name"`
	TechStack     []string  `json:"tech_stack"`
	CloudProvider Provider  `json:"cloud_provider,omitempty"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
	SourceFiles   []string  `json:"source_files"`
}

// ArchitectureGraph is the materialized result of one analysis run.
type ArchitectureGraph struct {
	Nodes    []Component     `json:"nodes"`
	Edges    []Connection    `json:"edges"`
	Groups   []LogicalGroup  `json:"groups"`
	Metadata ProjectMetadata `json:"metadata"`
}

// Node returns the component with the given id.
func (g ArchitectureGraph) Node(id string) (Component, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Component{}, false
}

// IsEmpty reports whether the graph has no components.
func (g ArchitectureGraph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Partial is what a single scanner contributes before merging.
type Partial struct {
	Nodes       []Component    `json:"nodes"`
	Edges       []Connection   `json:"edges"`
	Groups      []LogicalGroup `json:"groups"`
	SourceFiles []string       `json:"source_files"`
}

// EmptyPartial returns the canonical empty result: all lists non-nil and empty.
func EmptyPartial() Partial {
	return Partial{
		Nodes:       []Component{},
		Edges:       []Connection{},
		Groups:      []LogicalGroup{},
		SourceFiles: []string{},
	}
}

// IsEmpty reports whether the partial contributes nothing.
func (p Partial) IsEmpty() bool {
	return len(p.Nodes) == 0 && len(p.Edges) == 0 && len(p.Groups) == 0 && len(p.SourceFiles) == 0
}
