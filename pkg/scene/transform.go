package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/errors"
)

// =============================================================================
// Transform Options
// =============================================================================

// DefaultIDWidth is the zero-pad width for generated label ids.
const DefaultIDWidth = 6

// labelIDPrefix marks generated label ids. Downstream consumers pattern-match
// these, so the literal is part of the output contract.
const labelIDPrefix = "label_"

// labelIDSpace bounds the random draw for generated label ids to [0, 10^6).
const labelIDSpace = 1_000_000

// Options configure one transformation pass.
type Options struct {
	// IDWidth is the zero-pad width for generated label ids.
	// Zero means DefaultIDWidth.
	IDWidth int
}

// =============================================================================
// Transform - Layout Output → Scene Tree
// =============================================================================

// Transform converts one positioned graph into one scene tree.
//
// The returned root is a graph element whose children are the transformed
// top-level nodes followed by the transformed top-level edges. On any
// structural defect (missing or duplicate node/port/edge id, ambiguous
// edge) the whole pass aborts and no scene is returned.
func Transform(g *elk.Graph) (*Element, error) {
	return TransformWithOptions(g, Options{})
}

// TransformWithOptions is Transform with explicit options.
func TransformWithOptions(g *elk.Graph, opts Options) (*Element, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "nil graph")
	}
	width := opts.IDWidth
	if width <= 0 {
		width = DefaultIDWidth
	}
	t := &transformer{
		idWidth: width,
		nodes:   registry{},
		ports:   registry{},
		edges:   registry{},
		labels:  registry{},
		intn:    rand.IntN,
	}
	return t.graph(g)
}

// =============================================================================
// Id Registries
// =============================================================================

// registry tracks the ids assigned within one element kind for one pass.
type registry map[string]struct{}

// register validates and records an id. Missing and duplicate ids are
// structural errors naming the element kind and the offending id.
func (r registry) register(kind, id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeMissingID, "%s is missing an id", kind)
	}
	if _, dup := r[id]; dup {
		return errors.New(errors.ErrCodeDuplicateID, "duplicate %s id %q", kind, id)
	}
	r[id] = struct{}{}
	return nil
}

// =============================================================================
// Transformer - One Pass, No Shared State
// =============================================================================

// transformer holds the per-pass registries. A fresh transformer is built
// for every Transform call; nothing survives the pass.
type transformer struct {
	idWidth int
	nodes   registry
	ports   registry
	edges   registry
	labels  registry

	// intn draws the random component of generated label ids.
	intn func(n int) int
}

func (t *transformer) graph(g *elk.Graph) (*Element, error) {
	root := &Element{Type: TypeGraph, ID: g.ID}

	for _, child := range g.Children {
		el, err := t.node(child)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, el)
	}
	for _, edge := range g.Edges {
		el, err := t.edge(edge)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, el)
	}
	return root, nil
}

// node transforms one node and, in order, its child nodes, ports,
// text-bearing labels, and node-local edges.
func (t *transformer) node(n *elk.Node) (*Element, error) {
	if err := t.nodes.register("node", n.ID); err != nil {
		return nil, err
	}

	el := &Element{
		Type:     TypeNode,
		ID:       n.ID,
		Position: &elk.Point{X: n.X, Y: n.Y},
		Size:     &elk.Size{Width: n.Width, Height: n.Height},
	}

	for _, child := range n.Children {
		sub, err := t.node(child)
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, sub)
	}
	for _, port := range n.Ports {
		sub, err := t.port(port)
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, sub)
	}
	for _, label := range n.Labels {
		if label.Text == "" {
			continue
		}
		el.Children = append(el.Children, t.label(label))
	}
	for _, edge := range n.Edges {
		sub, err := t.edge(edge)
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, sub)
	}
	return el, nil
}

func (t *transformer) port(p *elk.Port) (*Element, error) {
	if err := t.ports.register("port", p.ID); err != nil {
		return nil, err
	}

	el := &Element{
		Type:     TypePort,
		ID:       p.ID,
		Position: &elk.Point{X: p.X, Y: p.Y},
		Size:     &elk.Size{Width: p.Width, Height: p.Height},
	}

	for _, label := range p.Labels {
		if label.Text == "" {
			continue
		}
		el.Children = append(el.Children, t.label(label))
	}
	return el, nil
}

// label transforms one text-bearing label. Callers filter empty-text
// labels before this point; a label that reaches here always becomes an
// element. Explicit ids are recorded so generated ids can never collide
// with them; they are not checked for uniqueness themselves.
func (t *transformer) label(l *elk.Label) *Element {
	id := l.ID
	if id == "" {
		id = t.generateLabelID()
	}
	t.labels[id] = struct{}{}

	return &Element{
		Type:     TypeLabel,
		ID:       id,
		Text:     l.Text,
		Position: &elk.Point{X: l.X, Y: l.Y},
		Size:     &elk.Size{Width: l.Width, Height: l.Height},
	}
}

// edge transforms one edge: endpoint resolution, routing reconstruction,
// junction synthesis, then labels.
func (t *transformer) edge(e *elk.Edge) (*Element, error) {
	if err := t.edges.register("edge", e.ID); err != nil {
		return nil, err
	}

	ep, err := e.Endpoints()
	if err != nil {
		return nil, err
	}

	el := &Element{
		Type:     TypeEdge,
		ID:       e.ID,
		SourceID: ep.Source,
		TargetID: ep.Target,
	}

	// Engine versions with the section-only reporting defect return
	// primitive-edge routing exclusively through sections, so any section
	// takes priority over the legacy point fields.
	if e.HasRoutableSections() {
		for i := range e.Sections {
			el.RoutingPoints = append(el.RoutingPoints, e.Sections[i].Points()...)
		}
	} else {
		if e.SourcePoint != nil {
			el.RoutingPoints = append(el.RoutingPoints, *e.SourcePoint)
		}
		el.RoutingPoints = append(el.RoutingPoints, e.BendPoints...)
		if e.TargetPoint != nil {
			el.RoutingPoints = append(el.RoutingPoints, *e.TargetPoint)
		}
	}

	for i, jp := range e.JunctionPoints {
		el.Children = append(el.Children, &Element{
			Type:     TypeJunction,
			ID:       fmt.Sprintf("%s_j%d", e.ID, i),
			Position: &elk.Point{X: jp.X, Y: jp.Y},
		})
	}

	for _, label := range e.Labels {
		if label.Text == "" {
			continue
		}
		el.Children = append(el.Children, t.label(label))
	}
	return el, nil
}

// generateLabelID draws random ids until one misses the label registry.
func (t *transformer) generateLabelID() string {
	for {
		id := fmt.Sprintf("%s%0*d", labelIDPrefix, t.idWidth, t.intn(labelIDSpace))
		if _, taken := t.labels[id]; !taken {
			return id
		}
	}
}
