package elk

// =============================================================================
// Layout Option Presets
// =============================================================================

// DefaultLayoutOptions is the well-tested global option set for layered
// layouts of hierarchical context graphs.
//
// Keys and values are engine option ids; they are forwarded verbatim.
var DefaultLayoutOptions = LayoutOptions{
	"algorithm":                        "layered",
	"edgeRouting":                      "ORTHOGONAL",
	"elk.direction":                    "RIGHT",
	"hierarchyHandling":                "INCLUDE_CHILDREN",
	"layered.edgeLabels.sideSelection": "ALWAYS_DOWN",
	"layered.nodePlacement.strategy":   "BRANDES_KOEPF",
	"spacing.labelNode":                "0.0",
}

// TreeLayoutOptions configures layered layouts for class-tree style
// diagrams: no hierarchy crossing, model-order component placement.
var TreeLayoutOptions = LayoutOptions{
	"algorithm":                             "layered",
	"edgeRouting":                           "ORTHOGONAL",
	"elk.direction":                         "RIGHT",
	"layered.edgeLabels.sideSelection":      "ALWAYS_DOWN",
	"layered.nodePlacement.strategy":        "BRANDES_KOEPF",
	"spacing.labelNode":                     "0.0",
	"spacing.edgeNode":                      20,
	"compaction.postCompaction.strategy":    "LEFT_RIGHT_CONSTRAINT_LOCKING",
	"layered.considerModelOrder.components": "MODEL_ORDER",
	"separateConnectedComponents":           false,
}

// PackingLayoutOptions configures rect-packing layouts for box-only views.
var PackingLayoutOptions = LayoutOptions{
	"algorithm":                      "elk.rectpacking",
	"nodeSize.constraints":           "[NODE_LABELS, MINIMUM_SIZE]",
	"widthApproximation.targetWidth": 1,
	"elk.contentAlignment":           "V_TOP H_CENTER",
}

// LabelLayoutOptions places node labels outside, bottom-centered.
var LabelLayoutOptions = LayoutOptions{
	"nodeLabels.placement": "OUTSIDE, V_BOTTOM, H_CENTER",
}

// EdgeStraighteningLayoutOptions raises the straightness priority of
// layered edge routing.
var EdgeStraighteningLayoutOptions = LayoutOptions{
	"layered.priority.straightness": "10",
}

// =============================================================================
// Graph Construction Helpers
// =============================================================================

// NewGraph returns a root graph with the default layout options applied.
// The preset is copied; mutating the result never affects the preset.
func NewGraph(id string) *Graph {
	return &Graph{
		ID:            id,
		LayoutOptions: DefaultLayoutOptions.Copy(),
	}
}

// Option sets a single layout option on the graph and returns it for
// chaining. A nil options map is allocated on first use.
func (g *Graph) Option(key string, value any) *Graph {
	if g.LayoutOptions == nil {
		g.LayoutOptions = LayoutOptions{}
	}
	g.LayoutOptions[key] = value
	return g
}
