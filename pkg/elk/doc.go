// Package elk defines the wire format spoken with ELK-compatible graph
// layout engines.
//
// This package is the serialization boundary of elkscene: it models the
// abstract graph submitted for layout and the annotated graph the engine
// returns, and performs no layout computation of its own.
//
// # Core Types
//
//   - [Graph]: the root document holding children, top-level edges, and layout options
//   - [Node]: a hierarchical node with ports, labels, and node-local edges
//   - [Port], [Label]: attachable sub-elements
//   - [Edge]: a connection in one of two variants (see below)
//   - [Section], [Point], [Size]: routing and geometry primitives
//
// # Edge Variants
//
// An edge is either primitive (singular source/target ids) or extended
// (non-empty sources/targets id lists). The variant is determined by which
// fields are populated, never by a tag on the wire. [Edge.Endpoints]
// classifies an edge exactly once and returns a tagged [Endpoints] value so
// downstream code can switch on [Endpoints.Kind] instead of re-probing
// fields. Edges populating both shapes (or neither) are rejected.
//
// # Geometry
//
// The same types describe both directions of the exchange. On input only
// size hints are meaningful; on output every node, port, and label carries
// resolved x/y/width/height, and edges carry routing data: legacy
// sourcePoint/bendPoints/targetPoint fields, routing [Section]s, and
// junction points.
//
// # Layout Options
//
// Layout options are free-form key/value pairs passed through to the engine
// untouched. [DefaultLayoutOptions] and friends provide well-tested presets;
// they are copied on use, never aliased.
//
// # Serialization
//
// Graphs use plain ELK JSON:
//
//	{
//	  "id": "root",
//	  "children": [{"id": "n1", "width": 100, "height": 50}],
//	  "edges": [{"id": "e1", "sources": ["n1"], "targets": ["n2"]}]
//	}
//
// Common operations:
//
//	g, _ := elk.ReadGraphFile("graph.json")   // File → *Graph
//	elk.WriteGraphFile(g, "out.json")         // *Graph → File
//	data, _ := elk.MarshalGraph(g)            // *Graph → []byte
//	g, _ = elk.UnmarshalGraph(data)           // []byte → *Graph
//
// # Concurrency
//
// Graph values are plain data. They are safe for concurrent reads; callers
// must not mutate a graph after submitting it for layout.
package elk
