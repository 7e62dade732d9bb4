package elk

import (
	"testing"

	"github.com/elkscene/elkscene/pkg/errors"
)

func TestEdgeEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		edge       Edge
		wantKind   EdgeKind
		wantSource string
		wantTarget string
		wantCode   errors.Code
	}{
		{
			name:       "Primitive",
			edge:       Edge{ID: "e1", Source: "a", Target: "b"},
			wantKind:   EdgePrimitive,
			wantSource: "a",
			wantTarget: "b",
		},
		{
			name:       "Extended",
			edge:       Edge{ID: "e2", Sources: []string{"x", "y"}, Targets: []string{"p", "q"}},
			wantKind:   EdgeExtended,
			wantSource: "x",
			wantTarget: "p",
		},
		{
			name:       "ExtendedSingleEndpoint",
			edge:       Edge{ID: "e3", Sources: []string{"a"}, Targets: []string{"b"}},
			wantKind:   EdgeExtended,
			wantSource: "a",
			wantTarget: "b",
		},
		{
			name:     "MixedVariants",
			edge:     Edge{ID: "e4", Source: "a", Target: "b", Sources: []string{"x"}, Targets: []string{"y"}},
			wantCode: errors.ErrCodeAmbiguousEdge,
		},
		{
			name:     "SingularSourceWithTargetsList",
			edge:     Edge{ID: "e5", Source: "a", Targets: []string{"b"}},
			wantCode: errors.ErrCodeAmbiguousEdge,
		},
		{
			name:     "MissingTarget",
			edge:     Edge{ID: "e6", Source: "a"},
			wantCode: errors.ErrCodeAmbiguousEdge,
		},
		{
			name:     "MissingTargetsList",
			edge:     Edge{ID: "e7", Sources: []string{"a"}},
			wantCode: errors.ErrCodeAmbiguousEdge,
		},
		{
			name:     "NoEndpoints",
			edge:     Edge{ID: "e8"},
			wantCode: errors.ErrCodeInvalidGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := tt.edge.Endpoints()

			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("Endpoints() = %+v, want error code %s", ep, tt.wantCode)
				}
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("Endpoints() error: %v", err)
			}
			if ep.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", ep.Kind, tt.wantKind)
			}
			if ep.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", ep.Source, tt.wantSource)
			}
			if ep.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", ep.Target, tt.wantTarget)
			}
		})
	}
}

func TestEdgeEndpointsKeepsFullLists(t *testing.T) {
	edge := Edge{ID: "e", Sources: []string{"s1", "s2", "s3"}, Targets: []string{"t1", "t2"}}

	ep, err := edge.Endpoints()
	if err != nil {
		t.Fatalf("Endpoints() error: %v", err)
	}

	if len(ep.Sources) != 3 || len(ep.Targets) != 2 {
		t.Errorf("lists = %d/%d elements, want 3/2", len(ep.Sources), len(ep.Targets))
	}
}

func TestHasRoutableSections(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		want bool
	}{
		{
			name: "NilSections",
			edge: Edge{ID: "e"},
			want: false,
		},
		{
			name: "EmptySections",
			edge: Edge{ID: "e", Sections: []Section{}},
			want: false,
		},
		{
			name: "OneSection",
			edge: Edge{ID: "e", Sections: []Section{{StartPoint: Point{}, EndPoint: Point{X: 1}}}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edge.HasRoutableSections(); got != tt.want {
				t.Errorf("HasRoutableSections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectionPoints(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    []Point
	}{
		{
			name:    "NoBends",
			section: Section{StartPoint: Point{X: 0, Y: 0}, EndPoint: Point{X: 10, Y: 10}},
			want:    []Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "WithBends",
			section: Section{
				StartPoint: Point{X: 1, Y: 1},
				BendPoints: []Point{{X: 5, Y: 5}, {X: 7, Y: 5}},
				EndPoint:   Point{X: 9, Y: 9},
			},
			want: []Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 7, Y: 5}, {X: 9, Y: 9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.section.Points()
			if len(got) != len(tt.want) {
				t.Fatalf("Points() = %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGraphCounts(t *testing.T) {
	tests := []struct {
		name      string
		graph     Graph
		wantNodes int
		wantEdges int
	}{
		{
			name:  "Empty",
			graph: Graph{ID: "root"},
		},
		{
			name: "FlatChain",
			graph: Graph{
				ID: "root",
				Children: []*Node{
					{ID: "a"}, {ID: "b"}, {ID: "c"},
				},
				Edges: []*Edge{
					{ID: "e1", Sources: []string{"a"}, Targets: []string{"b"}},
					{ID: "e2", Sources: []string{"b"}, Targets: []string{"c"}},
				},
			},
			wantNodes: 3,
			wantEdges: 2,
		},
		{
			name: "NestedWithLocalEdges",
			graph: Graph{
				ID: "root",
				Children: []*Node{
					{
						ID: "container",
						Children: []*Node{
							{ID: "inner1"},
							{ID: "inner2", Children: []*Node{{ID: "leaf"}}},
						},
						Edges: []*Edge{
							{ID: "local", Sources: []string{"inner1"}, Targets: []string{"inner2"}},
						},
					},
					{ID: "outside"},
				},
				Edges: []*Edge{
					{ID: "top", Sources: []string{"outside"}, Targets: []string{"container"}},
				},
			},
			wantNodes: 5,
			wantEdges: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.graph.NodeCount(); got != tt.wantNodes {
				t.Errorf("NodeCount() = %d, want %d", got, tt.wantNodes)
			}
			if got := tt.graph.EdgeCount(); got != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.wantEdges)
			}
		})
	}
}

func TestLayoutOptionsCopy(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var o LayoutOptions
		if o.Copy() != nil {
			t.Error("Copy() of nil should be nil")
		}
	})

	t.Run("independent", func(t *testing.T) {
		orig := LayoutOptions{"algorithm": "layered"}
		cp := orig.Copy()
		cp["algorithm"] = "force"

		if orig["algorithm"] != "layered" {
			t.Errorf("original mutated: %v", orig["algorithm"])
		}
	})
}

func TestNewGraphDoesNotAliasPreset(t *testing.T) {
	g := NewGraph("root")
	g.Option("algorithm", "force")

	if DefaultLayoutOptions["algorithm"] != "layered" {
		t.Fatalf("preset mutated: %v", DefaultLayoutOptions["algorithm"])
	}
	if g.LayoutOptions["algorithm"] != "force" {
		t.Errorf("option not set on graph: %v", g.LayoutOptions["algorithm"])
	}
}
