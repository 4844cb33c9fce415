package terraform

import (
	"slices"
	"sort"

	"github.com/matzehuels/archgraph/pkg/arch"
)

type mapping struct {
	Type    arch.ComponentType
	Service string
}

var resourceMappings = map[string]mapping{
	// Compute
	"aws_lambda_function":     {arch.TypeCompute, "lambda"},
	"aws_ecs_service":         {arch.TypeCompute, "ecs"},
	"aws_ecs_task_definition": {arch.TypeCompute, "ecs"},
	"aws_instance":            {arch.TypeCompute, "ec2"},

	// Database
	"aws_dynamodb_table": {arch.TypeDatabase, "dynamodb"},
	"aws_rds_instance":   {arch.TypeDatabase, "rds"},
	"aws_rds_cluster":    {arch.TypeDatabase, "rds"},
	"aws_db_instance":    {arch.TypeDatabase, "rds"},

	// Storage
	"aws_s3_bucket":       {arch.TypeStorage, "s3"},
	"aws_efs_file_system": {arch.TypeStorage, "efs"},

	// Messaging
	"aws_sqs_queue":        {arch.TypeQueue, "sqs"},
	"aws_sns_topic":        {arch.TypeQueue, "sns"},
	"aws_eventbridge_rule": {arch.TypeQueue, "eventbridge"},

	// Streaming
	"aws_kinesis_stream":                   {arch.TypeStream, "kinesis"},
	"aws_kinesis_firehose_delivery_stream": {arch.TypeStream, "kinesis"},

	// API
	"aws_apigatewayv2_api":     {arch.TypeAPI, "apigateway"},
	"aws_api_gateway_rest_api": {arch.TypeAPI, "apigateway"},
	"aws_lb":                   {arch.TypeAPI, "alb"},
	"aws_alb":                  {arch.TypeAPI, "alb"},

	// CDN
	"aws_cloudfront_distribution": {arch.TypeCDN, "cloudfront"},

	// Cache
	"aws_elasticache_cluster":           {arch.TypeCache, "elasticache"},
	"aws_elasticache_replication_group": {arch.TypeCache, "elasticache"},

	// Auth
	"aws_cognito_user_pool":     {arch.TypeAuth, "cognito"},
	"aws_cognito_identity_pool": {arch.TypeAuth, "cognito"},

	// Monitoring
	"aws_cloudwatch_log_group":    {arch.TypeMonitoring, "cloudwatch"},
	"aws_cloudwatch_metric_alarm": {arch.TypeMonitoring, "cloudwatch"},
}

type groupMapping struct {
	Prefix string
	Type   arch.GroupType
}

var groupMappings = map[string]groupMapping{
	"aws_vpc":            {"vpc", arch.GroupVPC},
	"aws_subnet":         {"subnet", arch.GroupSubnet},
	"aws_security_group": {"sg", arch.GroupSecurityGroup},
}

// entity is a declared resource resolved to the id it was emitted under.
type entity struct {
	ID      string
	IsGroup bool
}

// partialBuilder accumulates components, groups, and reference edges for
// one scanner run. Nodes and groups keep declaration order; a resource
// declared twice keeps its first position and its last content.
type partialBuilder struct {
	known  map[address]entity
	nodes  ordered[arch.Component]
	groups ordered[arch.LogicalGroup]
	edges  []arch.Connection
	edgeID map[string]bool
}

func newPartialBuilder() *partialBuilder {
	return &partialBuilder{
		known:  make(map[address]entity),
		nodes:  newOrdered[arch.Component](),
		groups: newOrdered[arch.LogicalGroup](),
		edgeID: make(map[string]bool),
	}
}

func (b *partialBuilder) declare(r resource) {
	addr := address{r.Type, r.Name}
	if gm, ok := groupMappings[r.Type]; ok {
		id := arch.GenerateID(gm.Prefix, r.Name)
		b.groups.put(id, arch.LogicalGroup{
			ID:       id,
			Name:     r.Name,
			Type:     gm.Type,
			Children: []string{},
			Metadata: arch.Metadata{"terraformType": r.Type, "file": r.File},
		})
		b.known[addr] = entity{ID: id, IsGroup: true}
		return
	}
	m, ok := resourceMappings[r.Type]
	if !ok {
		return
	}
	id := arch.GenerateID(m.Service, r.Name)
	b.nodes.put(id, arch.Component{
		ID:       id,
		Name:     r.Name,
		Type:     m.Type,
		Provider: arch.ProviderAWS,
		Service:  m.Service,
		Metadata: arch.Metadata{"terraformType": r.Type, "file": r.File},
	})
	b.known[addr] = entity{ID: id}
}

// link turns r's references into edges and group structure.
func (b *partialBuilder) link(r resource) {
	src, ok := b.known[address{r.Type, r.Name}]
	if !ok {
		return
	}
	for _, ref := range r.Refs {
		dst, ok := b.known[ref]
		if !ok || dst.ID == src.ID {
			continue
		}
		switch {
		case !src.IsGroup && !dst.IsGroup:
			b.addEdge(src.ID, dst.ID)
		case !src.IsGroup && dst.IsGroup:
			b.addChild(dst.ID, src.ID)
		case src.IsGroup && dst.IsGroup && ref.Type == "aws_vpc":
			b.nest(src.ID, dst.ID)
		}
	}
}

func (b *partialBuilder) addEdge(from, to string) {
	id := "ref-" + from + "-" + to
	if b.edgeID[id] {
		return
	}
	b.edgeID[id] = true
	b.edges = append(b.edges, arch.Connection{
		ID:   id,
		From: from,
		To:   to,
		Type: arch.ConnDependsOn,
	})
}

func (b *partialBuilder) addChild(groupID, childID string) {
	g, ok := b.groups.get(groupID)
	if !ok || slices.Contains(g.Children, childID) {
		return
	}
	g.Children = append(g.Children, childID)
	b.groups.put(groupID, g)
}

// nest places group child inside parent unless child already has a parent.
func (b *partialBuilder) nest(childID, parentID string) {
	child, ok := b.groups.get(childID)
	if !ok || child.Parent != "" {
		return
	}
	child.Parent = parentID
	b.groups.put(childID, child)
	b.addChild(parentID, childID)
}

// ordered is an insertion-ordered map keyed by id.
type ordered[T any] struct {
	order []string
	items map[string]T
}

func newOrdered[T any]() ordered[T] {
	return ordered[T]{items: make(map[string]T)}
}

func (o *ordered[T]) put(id string, v T) {
	if _, ok := o.items[id]; !ok {
		o.order = append(o.order, id)
	}
	o.items[id] = v
}

func (o *ordered[T]) get(id string) (T, bool) {
	v, ok := o.items[id]
	return v, ok
}

func (o *ordered[T]) values() []T {
	out := make([]T, len(o.order))
	for i, id := range o.order {
		out[i] = o.items[id]
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
