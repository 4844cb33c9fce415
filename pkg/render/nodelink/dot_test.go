package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/arch"
)

func vpcGraph() arch.ArchitectureGraph {
	return arch.ArchitectureGraph{
		Nodes: []arch.Component{
			{ID: "lambda-api", Name: "api", Type: arch.TypeCompute, Service: "lambda"},
			{ID: "dynamodb-users", Name: "users", Type: arch.TypeDatabase},
			{ID: "s3-assets", Name: "assets", Type: arch.TypeStorage},
		},
		Edges: []arch.Connection{
			{ID: "e1", From: "lambda-api", To: "dynamodb-users", Type: arch.ConnQuery},
			{ID: "e2", From: "lambda-api", To: "ghost", Type: arch.ConnHTTP},
			{ID: "e3", From: "lambda-api", To: "s3-assets", Type: arch.ConnHTTP, Label: "uploads"},
		},
		Groups: []arch.LogicalGroup{
			{ID: "vpc-main", Name: "main", Type: arch.GroupVPC, Children: []string{"subnet-a"}},
			{ID: "subnet-a", Name: "a", Type: arch.GroupSubnet, Parent: "vpc-main", Children: []string{"lambda-api"}},
			{ID: "sg-x", Name: "x", Type: arch.GroupSecurityGroup, Children: []string{"lambda-api"}},
		},
	}
}

func TestToDOT_Structure(t *testing.T) {
	dot := ToDOT(vpcGraph(), Options{})

	for _, want := range []string{
		"digraph G {",
		`subgraph "cluster_vpc-main" {`,
		`    subgraph "cluster_subnet-a" {`,
		`label="main (vpc)";`,
		`"lambda-api" -> "dynamodb-users" [label="query"`,
		`"lambda-api" -> "s3-assets" [label="uploads"`,
		`fillcolor="#FFF4EC"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("dangling edge should be skipped")
	}
	if got := strings.Count(dot, `"lambda-api" [label=`); got != 1 {
		t.Errorf("lambda-api declared %d times, want 1", got)
	}
}

func TestToDOT_NoClusters(t *testing.T) {
	dot := ToDOT(vpcGraph(), Options{NoClusters: true})
	if strings.Contains(dot, "subgraph") {
		t.Error("NoClusters should not emit subgraphs")
	}
	if got := strings.Count(dot, "[label=\"api\""); got != 1 {
		t.Errorf("api declared %d times, want 1", got)
	}
}

func TestToDOT_GroupCycle(t *testing.T) {
	g := arch.ArchitectureGraph{
		Nodes: []arch.Component{{ID: "a", Name: "a"}},
		Groups: []arch.LogicalGroup{
			{ID: "g1", Children: []string{"g2", "a"}},
			{ID: "g2", Parent: "g1", Children: []string{"g1"}},
		},
	}
	dot := ToDOT(g, Options{})
	if got := strings.Count(dot, "cluster_g1"); got != 1 {
		t.Errorf("cluster_g1 emitted %d times, want 1", got)
	}
}

func TestFmtLabel(t *testing.T) {
	n := arch.Component{ID: "x", Name: "orders", Type: arch.TypeCompute, Service: "lambda", Metadata: arch.Metadata{"file": "main.tf"}}
	if got := fmtLabel(n, false); got != "orders" {
		t.Errorf("fmtLabel(simple) = %q", got)
	}
	want := "orders\ntype: compute\nservice: lambda\nfile: main.tf"
	if got := fmtLabel(n, true); got != want {
		t.Errorf("fmtLabel(detailed) = %q, want %q", got, want)
	}
	if got := fmtLabel(arch.Component{ID: "only-id"}, false); got != "only-id" {
		t.Errorf("fmtLabel(no name) = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
