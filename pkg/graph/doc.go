// Package graph provides the JSON wire format for architecture graphs and
// their layouts.
//
// The format is used for the files written by "archgraph analyze", for HTTP
// responses, and for cache entries. It is the JSON encoding of
// [arch.ArchitectureGraph] and [layout.Result] with every list present as an
// array, never null.
//
// # Graph Serialization
//
//	{
//	  "nodes": [{"id": "lambda-api", "name": "api", "type": "compute"}],
//	  "edges": [{"id": "e1", "from": "lambda-api", "to": "dynamodb-users", "type": "query"}],
//	  "groups": [],
//	  "metadata": {"project_name": "shop", "tech_stack": ["lambda"], ...}
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")  // File → graph
//	graph.WriteGraphFile(g, "graph.json")      // graph → File
//	data, _ := graph.MarshalGraph(g)           // graph → []byte
//
// # Layout Serialization
//
// Positioned nodes carry the component fields plus x, y (box center), width
// and height; positioned edges carry the connection fields plus points.
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//
// Decoding errors carry the INVALID_FORMAT code and structural problems
// INVALID_GRAPH, see [errors.Code].
//
// [arch.ArchitectureGraph]: github.com/matzehuels/archgraph/pkg/arch#ArchitectureGraph
// [layout.Result]: github.com/matzehuels/archgraph/pkg/layout#Result
// [errors.Code]: github.com/matzehuels/archgraph/pkg/errors#Code
package graph
