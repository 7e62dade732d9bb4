package elk

import (
	"fmt"

	"github.com/elkscene/elkscene/pkg/errors"
)

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a 2D coordinate in the engine's coordinate system.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutOptions is free-form engine configuration, passed through untouched.
// Values may be strings, numbers, or booleans depending on the option.
type LayoutOptions map[string]any

// Copy returns an independent copy of the options map.
// Returns nil for nil input.
func (o LayoutOptions) Copy() LayoutOptions {
	if o == nil {
		return nil
	}
	out := make(LayoutOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// =============================================================================
// Graph - Root Layout Document
// =============================================================================

// Graph is the root document exchanged with a layout engine.
//
// On input, children and edges describe the abstract graph and
// width/height are absent. On output, the engine additionally reports the
// computed canvas size and every contained element carries resolved
// geometry.
type Graph struct {
	ID            string        `json:"id"`
	LayoutOptions LayoutOptions `json:"layoutOptions,omitempty"`
	Children      []*Node       `json:"children,omitempty"`
	Edges         []*Edge       `json:"edges,omitempty"`

	// Resolved by the engine.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// NodeCount returns the number of nodes in the graph, containers included.
func (g *Graph) NodeCount() int {
	count := 0
	var walk func(ns []*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			count++
			walk(n.Children)
		}
	}
	walk(g.Children)
	return count
}

// EdgeCount returns the number of edges declared anywhere in the graph,
// node-local edges included.
func (g *Graph) EdgeCount() int {
	count := len(g.Edges)
	var walk func(ns []*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			count += len(n.Edges)
			walk(n.Children)
		}
	}
	walk(g.Children)
	return count
}

// Node is a hierarchical graph node. Children nest recursively; edges
// declared on a node are local to that container.
type Node struct {
	ID            string        `json:"id"`
	X             float64       `json:"x,omitempty"`
	Y             float64       `json:"y,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
	LayoutOptions LayoutOptions `json:"layoutOptions,omitempty"`
	Children      []*Node       `json:"children,omitempty"`
	Ports         []*Port       `json:"ports,omitempty"`
	Labels        []*Label      `json:"labels,omitempty"`
	Edges         []*Edge       `json:"edges,omitempty"`
}

// Port is a connection point attached to a node.
type Port struct {
	ID            string        `json:"id"`
	X             float64       `json:"x,omitempty"`
	Y             float64       `json:"y,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
	LayoutOptions LayoutOptions `json:"layoutOptions,omitempty"`
	Labels        []*Label      `json:"labels,omitempty"`
}

// Label is a piece of text attached to a node, port, or edge.
// The id is optional on input; the scene transformer generates one when
// absent. Labels with empty text never become scene elements.
type Label struct {
	ID            string        `json:"id,omitempty"`
	Text          string        `json:"text,omitempty"`
	X             float64       `json:"x,omitempty"`
	Y             float64       `json:"y,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
	LayoutOptions LayoutOptions `json:"layoutOptions,omitempty"`
}

// =============================================================================
// Edge - Two Wire Variants
// =============================================================================

// Edge is a connection between graph elements.
//
// Exactly one endpoint shape must be populated: Source+Target (primitive)
// or Sources+Targets (extended). Use [Edge.Endpoints] to classify.
//
// The remaining fields are engine output: legacy point routing
// (SourcePoint/BendPoints/TargetPoint), routing Sections, and
// JunctionPoints where edge routes meet.
type Edge struct {
	ID            string        `json:"id"`
	LayoutOptions LayoutOptions `json:"layoutOptions,omitempty"`

	// Primitive variant.
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	// Extended variant.
	Sources []string `json:"sources,omitempty"`
	Targets []string `json:"targets,omitempty"`

	// Legacy routing output.
	SourcePoint *Point  `json:"sourcePoint,omitempty"`
	BendPoints  []Point `json:"bendPoints,omitempty"`
	TargetPoint *Point  `json:"targetPoint,omitempty"`

	// Section routing output.
	Sections []Section `json:"sections,omitempty"`

	// Points where multiple edge segments visually meet or cross.
	JunctionPoints []Point `json:"junctionPoints,omitempty"`

	Labels []*Label `json:"labels,omitempty"`
}

// Section is one continuous routed segment of an edge's path.
type Section struct {
	ID         string  `json:"id,omitempty"`
	StartPoint Point   `json:"startPoint"`
	BendPoints []Point `json:"bendPoints,omitempty"`
	EndPoint   Point   `json:"endPoint"`
}

// Points expands the section into its full point sequence:
// start, bends in order, end.
func (s *Section) Points() []Point {
	pts := make([]Point, 0, len(s.BendPoints)+2)
	pts = append(pts, s.StartPoint)
	pts = append(pts, s.BendPoints...)
	pts = append(pts, s.EndPoint)
	return pts
}

// HasRoutableSections reports whether the engine returned section routing
// for this edge. The threshold is one or more sections; a present but
// empty sections array does not count.
func (e *Edge) HasRoutableSections() bool {
	return len(e.Sections) > 0
}

// =============================================================================
// Edge Classification
// =============================================================================

// EdgeKind tags the two edge wire variants.
type EdgeKind int

const (
	// EdgePrimitive is a singular source/target edge.
	EdgePrimitive EdgeKind = iota + 1
	// EdgeExtended is a multi-endpoint sources/targets edge.
	EdgeExtended
)

// String returns the kind name for logs and errors.
func (k EdgeKind) String() string {
	switch k {
	case EdgePrimitive:
		return "primitive"
	case EdgeExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// Endpoints is the classified form of an edge's endpoint fields.
//
// Source and Target always hold the effective endpoint pair: the singular
// ids for primitive edges, the first element of each list for extended
// edges. Sources and Targets carry the full lists for extended edges.
type Endpoints struct {
	Kind    EdgeKind
	Source  string
	Target  string
	Sources []string
	Targets []string
}

// Endpoints classifies the edge into exactly one variant based on which
// endpoint fields are populated.
//
// Classification fails with a structural error when the edge mixes
// singular and list endpoints, populates only half of a variant, or has no
// endpoints at all.
func (e *Edge) Endpoints() (Endpoints, error) {
	hasPrimitive := e.Source != "" || e.Target != ""
	hasExtended := len(e.Sources) > 0 || len(e.Targets) > 0

	switch {
	case hasPrimitive && hasExtended:
		return Endpoints{}, errors.New(errors.ErrCodeAmbiguousEdge,
			"edge %q mixes singular and list endpoint fields", e.ID)

	case hasPrimitive:
		if e.Source == "" || e.Target == "" {
			return Endpoints{}, errors.New(errors.ErrCodeAmbiguousEdge,
				"edge %q has an incomplete source/target pair", e.ID)
		}
		return Endpoints{
			Kind:   EdgePrimitive,
			Source: e.Source,
			Target: e.Target,
		}, nil

	case hasExtended:
		if len(e.Sources) == 0 || len(e.Targets) == 0 {
			return Endpoints{}, errors.New(errors.ErrCodeAmbiguousEdge,
				"edge %q has an incomplete sources/targets pair", e.ID)
		}
		return Endpoints{
			Kind:    EdgeExtended,
			Source:  e.Sources[0],
			Target:  e.Targets[0],
			Sources: e.Sources,
			Targets: e.Targets,
		}, nil

	default:
		return Endpoints{}, errors.New(errors.ErrCodeInvalidGraph,
			"edge %q has no endpoints", e.ID)
	}
}
