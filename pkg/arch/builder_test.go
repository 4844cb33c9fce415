package arch

import (
	"reflect"
	"slices"
	"testing"
	"time"
)

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[min(i, len(ts)-1)]
		i++
		return t
	}
}

func TestBuilder_Empty(t *testing.T) {
	g := NewBuilder("empty").Build()

	if len(g.Nodes) != 0 || len(g.Edges) != 0 || len(g.Groups) != 0 {
		t.Errorf("Build() = %d nodes, %d edges, %d groups, want all 0", len(g.Nodes), len(g.Edges), len(g.Groups))
	}
	if g.Metadata.ProjectName != "empty" {
		t.Errorf("ProjectName = %q, want %q", g.Metadata.ProjectName, "empty")
	}
	if g.Metadata.TechStack == nil || g.Metadata.SourceFiles == nil {
		t.Error("TechStack and SourceFiles should be non-nil empty slices")
	}
	if g.Metadata.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt should be stamped")
	}
}

func TestBuilder_MergeScenario(t *testing.T) {
	b := NewBuilder("shop")
	b.Merge(Partial{
		Nodes:       []Component{{ID: "lambda-1", Type: TypeCompute, Provider: ProviderAWS, Service: "lambda"}},
		SourceFiles: []string{"main.tf"},
	})
	b.Merge(Partial{
		Nodes:       []Component{{ID: "db-1", Type: TypeDatabase, Provider: ProviderAWS, Service: "dynamodb"}},
		Edges:       []Connection{{ID: "e1", From: "lambda-1", To: "db-1", Type: ConnQuery}},
		SourceFiles: []string{"handler.ts"},
	})
	g := b.Build()

	if len(g.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(g.Edges))
	}
	if g.Metadata.CloudProvider != ProviderAWS {
		t.Errorf("CloudProvider = %q, want %q", g.Metadata.CloudProvider, ProviderAWS)
	}
	for _, tech := range []string{"lambda", "dynamodb"} {
		if !slices.Contains(g.Metadata.TechStack, tech) {
			t.Errorf("TechStack = %v, missing %q", g.Metadata.TechStack, tech)
		}
	}
	for _, f := range []string{"main.tf", "handler.ts"} {
		if !slices.Contains(g.Metadata.SourceFiles, f) {
			t.Errorf("SourceFiles = %v, missing %q", g.Metadata.SourceFiles, f)
		}
	}
}

func TestBuilder_LastWriterWins(t *testing.T) {
	b := NewBuilder("p")
	b.Merge(Partial{Nodes: []Component{
		{ID: "api", Name: "old", Type: TypeCompute, Metadata: Metadata{"a": 1}},
		{ID: "db", Name: "db", Type: TypeDatabase},
	}})
	b.Merge(Partial{Nodes: []Component{
		{ID: "api", Name: "new", Type: TypeAPI},
	}})
	g := b.Build()

	if len(g.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(g.Nodes))
	}
	api := g.Nodes[0]
	if api.ID != "api" {
		t.Errorf("Nodes[0].ID = %q, want first-insertion position kept for %q", api.ID, "api")
	}
	if api.Name != "new" || api.Type != TypeAPI {
		t.Errorf("api = %+v, want later write to replace fields", api)
	}
	if api.Metadata != nil {
		t.Errorf("api.Metadata = %v, want full replacement (no deep combine)", api.Metadata)
	}
}

func TestBuilder_ProviderLastNonEmptyWins(t *testing.T) {
	tests := []struct {
		name     string
		partials []Partial
		want     Provider
	}{
		{"none", []Partial{{Nodes: []Component{{ID: "a"}}}}, ""},
		{"single", []Partial{{Nodes: []Component{{ID: "a", Provider: ProviderGCP}}}}, ProviderGCP},
		{"later overwrites", []Partial{
			{Nodes: []Component{{ID: "a", Provider: ProviderAWS}}},
			{Nodes: []Component{{ID: "b", Provider: ProviderGeneric}}},
		}, ProviderGeneric},
		{"empty does not reset", []Partial{
			{Nodes: []Component{{ID: "a", Provider: ProviderAzure}}},
			{Nodes: []Component{{ID: "b"}}},
		}, ProviderAzure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("p")
			for _, p := range tt.partials {
				b.Merge(p)
			}
			if got := b.Build().Metadata.CloudProvider; got != tt.want {
				t.Errorf("CloudProvider = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilder_MergeTwiceIsIdempotent(t *testing.T) {
	p := Partial{
		Nodes:       []Component{{ID: "a"}, {ID: "b"}},
		Edges:       []Connection{{ID: "a-b", From: "a", To: "b"}},
		Groups:      []LogicalGroup{{ID: "g", Children: []string{"a", "b"}}},
		SourceFiles: []string{"x.tf"},
	}
	b := NewBuilder("p")
	b.Merge(p)
	b.Merge(p)
	g := b.Build()

	if len(g.Nodes) != 2 || len(g.Edges) != 1 || len(g.Groups) != 1 || len(g.Metadata.SourceFiles) != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 2/1/1/1",
			len(g.Nodes), len(g.Edges), len(g.Groups), len(g.Metadata.SourceFiles))
	}
}

func TestBuilder_BuildTwiceDiffersOnlyInTimestamp(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	b := NewBuilder("p", WithClock(fixedClock(t1, t2)))
	b.Merge(Partial{
		Nodes:       []Component{{ID: "a", Service: "s3", Metadata: Metadata{"k": "v"}}},
		Groups:      []LogicalGroup{{ID: "g", Children: []string{"a"}}},
		SourceFiles: []string{"main.tf"},
	})

	first := b.Build()
	second := b.Build()

	if !first.Metadata.AnalyzedAt.Equal(t1) || !second.Metadata.AnalyzedAt.Equal(t2) {
		t.Errorf("AnalyzedAt = %v, %v, want %v, %v", first.Metadata.AnalyzedAt, second.Metadata.AnalyzedAt, t1, t2)
	}
	second.Metadata.AnalyzedAt = first.Metadata.AnalyzedAt
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build() snapshots differ:\n%+v\n%+v", first, second)
	}
}

func TestBuilder_SnapshotIsIndependent(t *testing.T) {
	b := NewBuilder("p")
	b.Merge(Partial{Nodes: []Component{{ID: "a", Metadata: Metadata{"k": "v"}}}})
	g := b.Build()

	g.Nodes[0].Metadata["k"] = "changed"
	b.Merge(Partial{Nodes: []Component{{ID: "b"}}})

	if len(g.Nodes) != 1 {
		t.Errorf("earlier snapshot grew to %d nodes", len(g.Nodes))
	}
	again := b.Build()
	if again.Nodes[0].Metadata["k"] != "v" {
		t.Errorf("builder state mutated through snapshot: %v", again.Nodes[0].Metadata)
	}
	if len(again.Nodes) != 2 {
		t.Errorf("merge after build not reflected: %d nodes, want 2", len(again.Nodes))
	}
}

func TestBuilder_AddEntities(t *testing.T) {
	b := NewBuilder("p")
	b.AddNode(Component{ID: "user", Name: "User", Type: TypeUser, Service: "browser", Provider: ProviderGeneric})
	b.AddEdge(Connection{ID: "user-api", From: "user", To: "api", Type: ConnHTTP})
	b.AddGroup(LogicalGroup{ID: "edge", Type: GroupServiceBoundary})
	g := b.Build()

	if b.NodeCount() != 1 || b.EdgeCount() != 1 || len(g.Groups) != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", b.NodeCount(), b.EdgeCount(), len(g.Groups))
	}
	if len(g.Metadata.TechStack) != 0 || g.Metadata.CloudProvider != "" {
		t.Errorf("AddNode should not derive aggregates, got tech=%v provider=%q",
			g.Metadata.TechStack, g.Metadata.CloudProvider)
	}
	if g.Groups[0].Children == nil {
		t.Error("group Children should be normalized to an empty slice")
	}
}

func TestBuilder_DanglingEdgesAccepted(t *testing.T) {
	b := NewBuilder("p")
	b.Merge(Partial{Edges: []Connection{{ID: "x", From: "ghost", To: "nowhere"}}})
	if got := len(b.Build().Edges); got != 1 {
		t.Errorf("len(Edges) = %d, want 1", got)
	}
}
