package arch

import (
	"maps"
	"slices"
	"time"
)

// Builder is the merge engine for a single analysis run.
//
// Nodes, edges and groups are kept in identity-keyed tables that remember the
// position of each id's first insertion; an overwrite replaces the value in
// place. The technology set only grows, and the inferred provider is the last
// non-empty provider seen on a merged node.
//
// The zero value is not usable; create one with [NewBuilder].
type Builder struct {
	projectName string
	now         func() time.Time

	nodes  table[Component]
	edges  table[Connection]
	groups table[LogicalGroup]

	sourceFiles map[string]struct{}
	techStack   map[string]struct{}
	provider    Provider
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the clock used to stamp AnalyzedAt.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates an empty builder for the named project.
func NewBuilder(projectName string, opts ...BuilderOption) *Builder {
	b := &Builder{
		projectName: projectName,
		now:         time.Now,
		nodes:       newTable[Component](),
		edges:       newTable[Connection](),
		groups:      newTable[LogicalGroup](),
		sourceFiles: make(map[string]struct{}),
		techStack:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Merge folds one partial result into the builder.
//
// Every node, edge and group is inserted or overwritten by id. Nodes with a
// non-empty Provider replace the inferred provider; nodes with a non-empty
// Service add it to the technology set. Source files are unioned.
func (b *Builder) Merge(p Partial) {
	for _, n := range p.Nodes {
		b.nodes.put(n.ID, cloneComponent(n))
		if n.Provider != "" {
			b.provider = n.Provider
		}
		if n.Service != "" {
			b.techStack[n.Service] = struct{}{}
		}
	}
	for _, e := range p.Edges {
		b.edges.put(e.ID, cloneConnection(e))
	}
	for _, g := range p.Groups {
		b.groups.put(g.ID, cloneGroup(g))
	}
	for _, f := range p.SourceFiles {
		b.sourceFiles[f] = struct{}{}
	}
}

// AddNode inserts or overwrites a single component. Unlike Merge it does not
// touch the derived provider or technology set.
func (b *Builder) AddNode(n Component) { b.nodes.put(n.ID, cloneComponent(n)) }

// AddEdge inserts or overwrites a single connection.
func (b *Builder) AddEdge(e Connection) { b.edges.put(e.ID, cloneConnection(e)) }

// AddGroup inserts or overwrites a single group.
func (b *Builder) AddGroup(g LogicalGroup) { b.groups.put(g.ID, cloneGroup(g)) }

// NodeCount returns the number of distinct component ids merged so far.
func (b *Builder) NodeCount() int { return b.nodes.len() }

// EdgeCount returns the number of distinct connection ids merged so far.
func (b *Builder) EdgeCount() int { return b.edges.len() }

// Build materializes an immutable snapshot of everything merged so far.
//
// Lists follow first-insertion order. TechStack and SourceFiles are sorted so
// two builds without an intervening merge differ only in AnalyzedAt. Build
// does not reset the builder.
func (b *Builder) Build() ArchitectureGraph {
	g := ArchitectureGraph{
		Nodes:  make([]Component, 0, b.nodes.len()),
		Edges:  make([]Connection, 0, b.edges.len()),
		Groups: make([]LogicalGroup, 0, b.groups.len()),
		Metadata: ProjectMetadata{
			ProjectName:   b.projectName,
			TechStack:     slices.Sorted(maps.Keys(b.techStack)),
			CloudProvider: b.provider,
			AnalyzedAt:    b.now().UTC(),
			SourceFiles:   slices.Sorted(maps.Keys(b.sourceFiles)),
		},
	}
	for _, n := range b.nodes.values() {
		g.Nodes = append(g.Nodes, cloneComponent(n))
	}
	for _, e := range b.edges.values() {
		g.Edges = append(g.Edges, cloneConnection(e))
	}
	for _, grp := range b.groups.values() {
		g.Groups = append(g.Groups, cloneGroup(grp))
	}
	return g
}

// table is an insertion-ordered map keyed by entity id.
type table[T any] struct {
	order []string
	items map[string]T
}

func newTable[T any]() table[T] {
	return table[T]{items: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.items[id]; !ok {
		t.order = append(t.order, id)
	}
	t.items[id] = v
}

func (t *table[T]) len() int { return len(t.order) }

func (t *table[T]) values() []T {
	out := make([]T, len(t.order))
	for i, id := range t.order {
		out[i] = t.items[id]
	}
	return out
}

func cloneComponent(c Component) Component {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

func cloneConnection(c Connection) Connection {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

func cloneGroup(g LogicalGroup) LogicalGroup {
	g.Children = slices.Clone(g.Children)
	if g.Children == nil {
		g.Children = []string{}
	}
	g.Metadata = maps.Clone(g.Metadata)
	return g
}
