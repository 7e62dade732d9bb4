package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/scene"
)

// testScene builds a small tree: a graph holding one node (with a label)
// and one edge.
func testScene() *scene.Element {
	label := &scene.Element{Type: scene.TypeLabel, ID: "label_000001", Text: "Source"}
	node := &scene.Element{
		Type:     scene.TypeNode,
		ID:       "a",
		Position: &elk.Point{X: 10, Y: 20},
		Size:     &elk.Size{Width: 40, Height: 20},
		Children: []*scene.Element{label},
	}
	edge := &scene.Element{
		Type:          scene.TypeEdge,
		ID:            "e1",
		SourceID:      "a",
		TargetID:      "b",
		RoutingPoints: []elk.Point{{X: 0, Y: 0}, {X: 5, Y: 5}},
	}
	return &scene.Element{
		Type:     scene.TypeGraph,
		ID:       "root",
		Children: []*scene.Element{node, edge},
	}
}

func TestFlattenScene(t *testing.T) {
	root := testScene()

	rows := flattenScene(root, nil)

	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	wantIDs := []string{"root", "a", "label_000001", "e1"}
	wantDepths := []int{0, 1, 2, 1}
	for i, row := range rows {
		if row.el.ID != wantIDs[i] {
			t.Errorf("rows[%d].ID = %q, want %q", i, row.el.ID, wantIDs[i])
		}
		if row.depth != wantDepths[i] {
			t.Errorf("rows[%d].depth = %d, want %d", i, row.depth, wantDepths[i])
		}
	}
}

func TestFlattenSceneCollapsed(t *testing.T) {
	root := testScene()
	node := root.Children[0]

	rows := flattenScene(root, map[*scene.Element]bool{node: true})

	// The node's label child disappears, the edge stays.
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.el.ID == "label_000001" {
			t.Error("collapsed node should hide its children")
		}
	}
}

func TestFlattenSceneNilRoot(t *testing.T) {
	if rows := flattenScene(nil, nil); len(rows) != 0 {
		t.Errorf("flattenScene(nil) = %d rows, want 0", len(rows))
	}
}

func TestSceneRowLabel(t *testing.T) {
	root := testScene()
	node := root.Children[0]
	label := node.Children[0]
	edge := root.Children[1]

	if got := sceneRowLabel(node, false); got != "node a" {
		t.Errorf("node label = %q, want %q", got, "node a")
	}
	if got := sceneRowLabel(label, false); !strings.Contains(got, `"Source"`) {
		t.Errorf("label row %q should quote the text", got)
	}
	if got := sceneRowLabel(edge, false); !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("edge row %q should name both endpoints", got)
	}
	if got := sceneRowLabel(node, true); !strings.Contains(got, "[+1]") {
		t.Errorf("collapsed row %q should show the hidden child count", got)
	}
}

func TestSceneDetail(t *testing.T) {
	root := testScene()
	node := root.Children[0]
	edge := root.Children[1]

	detail := sceneDetail(node)
	for _, want := range []string{"node", "a", "(10.0, 20.0)", "40x20", "1 children"} {
		if !strings.Contains(detail, want) {
			t.Errorf("node detail %q should contain %q", detail, want)
		}
	}

	detail = sceneDetail(edge)
	if !strings.Contains(detail, "2 routing points") {
		t.Errorf("edge detail %q should count routing points", detail)
	}
}

func TestPrintSceneTree(t *testing.T) {
	var buf bytes.Buffer

	printSceneTree(&buf, testScene())

	out := buf.String()
	if !strings.Contains(out, "graph root") {
		t.Errorf("output should contain the root line:\n%s", out)
	}
	if !strings.Contains(out, "  node a") {
		t.Errorf("node should be indented one level:\n%s", out)
	}
	if !strings.Contains(out, "    label") {
		t.Errorf("label should be indented two levels:\n%s", out)
	}
}

func TestSceneBrowserNavigation(t *testing.T) {
	m := NewSceneBrowserModel(testScene())

	if len(m.rows) != 4 {
		t.Fatalf("initial rows = %d, want 4", len(m.rows))
	}
	if m.Cursor != 0 {
		t.Errorf("initial cursor = %d, want 0", m.Cursor)
	}
}
