// Package scene converts annotated layout output into renderer-facing
// scene trees.
//
// The transformer walks a positioned [elk.Graph] and produces a tree of
// typed visual [Element]s: nodes, ports, labels, edges, and junctions under
// a single graph root. It assigns or validates identifiers, reconstructs
// edge routing from the engine's output, and applies a workaround for a
// known engine defect in bend-point reporting.
//
// # Element Type
//
// [Element] is a discriminated union - check Type to determine which fields
// are populated:
//
//	graph:    children
//	node:     position, size, children
//	port:     position, size, children (labels)
//	label:    position, size, text
//	edge:     sourceId, targetId, routingPoints, children (junctions, labels)
//	junction: position
//
// # Identifiers
//
// Node, port, and edge ids are validated against independent per-kind
// registries that live exactly one [Transform] call; a missing or duplicate
// id aborts the pass with a structural error and no scene is returned.
// Labels may arrive without an id; the transformer generates one matching
// the pattern label_ followed by a fixed-width zero-padded random number,
// redrawing on collision.
//
// # Edge Routing
//
// When the engine returns one or more routing sections for an edge, the
// section points (start, bends, end, concatenated per section in order)
// become the edge's routing points and any legacy point fields are ignored.
// This compensates for engine versions that report primitive-edge routing
// only through sections. Without sections, the legacy sourcePoint,
// bendPoints, and targetPoint fields are used in that order, skipping
// absent fields.
//
// # Usage
//
//	laid, _ := client.Layout(ctx, graph)
//	root, err := scene.Transform(laid)
//	if err != nil {
//	    // structural defect in the graph; nothing was produced
//	}
//	scene.WriteSceneFile(root, "scene.json")
//
// Transformation is synchronous, performs no I/O, and keeps no state
// between calls; concurrent transforms of independent graphs are safe.
package scene
