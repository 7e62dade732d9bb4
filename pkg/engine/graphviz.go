package engine

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/errors"
)

// pointsPerInch converts Graphviz plain-output inches to the point-based
// coordinate space of the graph model.
const pointsPerInch = 72.0

// clusterPad is the padding added around a container node whose geometry
// is derived from its children's bounding box.
const clusterPad = 8.0

// plainFormat is Graphviz's line-oriented layout output.
const plainFormat graphviz.Format = "plain"

// GraphvizTransport lays graphs out in-process with the embedded Graphviz
// library. It is the zero-install fallback: no external engine process is
// involved, ever.
//
// The abstract graph is converted to DOT (container nodes become
// clusters), laid out, and the plain-text output parsed back onto the
// graph. The y-axis is flipped to a top-left origin and child coordinates
// are made parent-relative, matching the convention of hierarchical
// engines. Ports keep their input geometry and no junction points are
// produced.
type GraphvizTransport struct {
	layout string
}

// NewGraphvizTransport returns an in-process transport using the given
// layout algorithm. Empty means dot.
func NewGraphvizTransport(layout string) *GraphvizTransport {
	if layout == "" {
		layout = "dot"
	}
	return &GraphvizTransport{layout: layout}
}

// Exchange decodes the document, lays it out, and re-encodes the
// positioned graph.
func (t *GraphvizTransport) Exchange(ctx context.Context, doc []byte) ([]byte, error) {
	g, err := elk.UnmarshalGraph(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse layout request")
	}

	plan, err := newGVPlan(g, t.layout)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineUnavailable, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(plan.dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutRejected, err, "graphviz refused the graph")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, plainFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutRejected, err, "graphviz layout failed")
	}

	if err := plan.apply(buf.Bytes()); err != nil {
		return nil, err
	}
	return elk.MarshalGraphCompact(g)
}

// Close is a no-op: the library is re-instantiated per exchange.
func (t *GraphvizTransport) Close() error { return nil }

// =============================================================================
// DOT Generation
// =============================================================================

// gvEdge pairs an edge with the DOT endpoints it was emitted under, so the
// plain output records can be matched back.
type gvEdge struct {
	edge      *elk.Edge
	container string // owning node id; "" for root edges
	tail      string
	head      string
	matched   bool
}

// gvPlan holds the DOT document and the bookkeeping needed to map plain
// output records back onto the graph.
type gvPlan struct {
	root *elk.Graph
	dot  string

	leaves   map[string]*elk.Node // leaf node id -> node
	portNode map[string]string    // port id -> owning node id
	clusters map[string]string    // container node id -> cluster name
	proxies  map[string]string    // container node id -> a leaf descendant id
	edges    []*gvEdge
	abs      map[string]elk.Point // node id -> absolute top-left (after apply)
}

func newGVPlan(g *elk.Graph, layout string) (*gvPlan, error) {
	p := &gvPlan{
		root:     g,
		leaves:   make(map[string]*elk.Node),
		portNode: make(map[string]string),
		clusters: make(map[string]string),
		proxies:  make(map[string]string),
		abs:      make(map[string]elk.Point),
	}

	clusterSeq := 0
	var walk func(n *elk.Node) string
	walk = func(n *elk.Node) string {
		for _, port := range n.Ports {
			p.portNode[port.ID] = n.ID
		}
		for _, e := range n.Edges {
			p.edges = append(p.edges, &gvEdge{edge: e, container: n.ID})
		}
		if len(n.Children) == 0 {
			p.leaves[n.ID] = n
			return n.ID
		}
		p.clusters[n.ID] = fmt.Sprintf("cluster_%d", clusterSeq)
		clusterSeq++
		proxy := ""
		for _, c := range n.Children {
			leaf := walk(c)
			if proxy == "" {
				proxy = leaf
			}
		}
		p.proxies[n.ID] = proxy
		return proxy
	}
	for _, n := range g.Children {
		walk(n)
	}
	for _, e := range g.Edges {
		p.edges = append(p.edges, &gvEdge{edge: e, container: ""})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.ID)
	fmt.Fprintf(&b, "  layout=%q;\n", layout)
	b.WriteString("  compound=true;\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", rankdir(g.LayoutOptions))
	b.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	var emit func(n *elk.Node, depth int)
	emit = func(n *elk.Node, depth int) {
		ind := strings.Repeat("  ", depth)
		if len(n.Children) == 0 {
			fmt.Fprintf(&b, "%s%q", ind, n.ID)
			if n.Width > 0 || n.Height > 0 {
				fmt.Fprintf(&b, " [width=%.4f, height=%.4f]", n.Width/pointsPerInch, n.Height/pointsPerInch)
			}
			b.WriteString(";\n")
			return
		}
		fmt.Fprintf(&b, "%ssubgraph %s {\n", ind, p.clusters[n.ID])
		for _, c := range n.Children {
			emit(c, depth+1)
		}
		fmt.Fprintf(&b, "%s}\n", ind)
	}
	for _, n := range g.Children {
		emit(n, 1)
	}

	b.WriteString("\n")
	for _, ge := range p.edges {
		eps, err := ge.edge.Endpoints()
		if err != nil {
			return nil, err
		}
		var ltail, lhead string
		ge.tail, ltail = p.resolve(eps.Source)
		ge.head, lhead = p.resolve(eps.Target)

		var attrs []string
		if ltail != "" {
			attrs = append(attrs, "ltail="+ltail)
		}
		if lhead != "" {
			attrs = append(attrs, "lhead="+lhead)
		}
		if txt := edgeLabelText(ge.edge); txt != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", txt))
		}

		fmt.Fprintf(&b, "  %q -> %q", ge.tail, ge.head)
		if len(attrs) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(attrs, ", "))
		}
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
	p.dot = b.String()
	return p, nil
}

// resolve maps an endpoint id to the DOT node actually emitted. Port ids
// fall through to their owning node; container nodes are represented by a
// leaf descendant plus a cluster for edge clipping.
func (p *gvPlan) resolve(id string) (node, cluster string) {
	if owner, ok := p.portNode[id]; ok {
		id = owner
	}
	if cluster, ok := p.clusters[id]; ok {
		return p.proxies[id], cluster
	}
	return id, ""
}

func rankdir(opts elk.LayoutOptions) string {
	dir, _ := opts["elk.direction"].(string)
	switch dir {
	case "DOWN":
		return "TB"
	case "UP":
		return "BT"
	case "LEFT":
		return "RL"
	default:
		return "LR"
	}
}

func edgeLabelText(e *elk.Edge) string {
	for _, l := range e.Labels {
		if l.Text != "" {
			return l.Text
		}
	}
	return ""
}

// =============================================================================
// Plain Output Parsing
// =============================================================================

type plainNodeRec struct {
	x, y, w, h float64
}

type plainEdgeRec struct {
	tail, head string
	points     []elk.Point
	label      *elk.Point
}

// apply parses plain output and writes geometry back onto the graph.
func (p *gvPlan) apply(out []byte) error {
	var canvasW, canvasH float64
	scale := 1.0
	nodeRecs := make(map[string]plainNodeRec)
	var edgeRecs []plainEdgeRec

	sawGraph := false
	for _, line := range strings.Split(string(out), "\n") {
		fields := splitPlain(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			// graph scale width height
			if len(fields) < 4 {
				continue
			}
			scale = parseF(fields[1])
			canvasW = parseF(fields[2])
			canvasH = parseF(fields[3])
			sawGraph = true
		case "node":
			// node name x y width height label style shape color fillcolor
			if len(fields) < 6 {
				continue
			}
			nodeRecs[fields[1]] = plainNodeRec{
				x: parseF(fields[2]),
				y: parseF(fields[3]),
				w: parseF(fields[4]),
				h: parseF(fields[5]),
			}
		case "edge":
			// edge tail head n x1 y1 .. xn yn [label lx ly] style color
			if len(fields) < 4 {
				continue
			}
			n := int(parseF(fields[3]))
			end := 4 + 2*n
			if n <= 0 || len(fields) < end {
				continue
			}
			rec := plainEdgeRec{tail: fields[1], head: fields[2]}
			for i := range n {
				rec.points = append(rec.points, elk.Point{
					X: parseF(fields[4+2*i]),
					Y: parseF(fields[5+2*i]),
				})
			}
			// A label adds three fields (text lx ly) before style and color.
			if rest := fields[end:]; len(rest) >= 5 {
				rec.label = &elk.Point{X: parseF(rest[1]), Y: parseF(rest[2])}
			}
			edgeRecs = append(edgeRecs, rec)
		}
	}
	if !sawGraph {
		return errors.New(errors.ErrCodeInvalidResponse, "graphviz produced no plain output")
	}

	if scale <= 0 {
		scale = 1.0
	}
	unit := pointsPerInch * scale

	// Leaf geometry: plain positions are box centers, y grows upward.
	for id, n := range p.leaves {
		rec, ok := nodeRecs[id]
		if !ok {
			continue
		}
		w, h := rec.w*unit, rec.h*unit
		n.Width, n.Height = w, h
		p.abs[id] = elk.Point{
			X: rec.x*unit - w/2,
			Y: (canvasH-rec.y)*unit - h/2,
		}
	}

	// Container geometry from children bounding boxes, bottom-up.
	var bound func(n *elk.Node) (elk.Point, elk.Point, bool)
	bound = func(n *elk.Node) (elk.Point, elk.Point, bool) {
		if len(n.Children) == 0 {
			pos, ok := p.abs[n.ID]
			if !ok {
				return elk.Point{}, elk.Point{}, false
			}
			return pos, elk.Point{X: pos.X + n.Width, Y: pos.Y + n.Height}, true
		}
		var lo, hi elk.Point
		found := false
		for _, c := range n.Children {
			clo, chi, ok := bound(c)
			if !ok {
				continue
			}
			if !found {
				lo, hi, found = clo, chi, true
				continue
			}
			lo.X = min(lo.X, clo.X)
			lo.Y = min(lo.Y, clo.Y)
			hi.X = max(hi.X, chi.X)
			hi.Y = max(hi.Y, chi.Y)
		}
		if !found {
			return elk.Point{}, elk.Point{}, false
		}
		lo.X -= clusterPad
		lo.Y -= clusterPad
		hi.X += clusterPad
		hi.Y += clusterPad
		p.abs[n.ID] = lo
		n.Width, n.Height = hi.X-lo.X, hi.Y-lo.Y
		return lo, hi, true
	}
	for _, n := range p.root.Children {
		bound(n)
	}

	// Positions are parent-relative in the output document.
	var place func(n *elk.Node, origin elk.Point)
	place = func(n *elk.Node, origin elk.Point) {
		pos, ok := p.abs[n.ID]
		if ok {
			n.X, n.Y = pos.X-origin.X, pos.Y-origin.Y
		}
		centerLabels(n)
		for _, c := range n.Children {
			place(c, pos)
		}
	}
	for _, n := range p.root.Children {
		place(n, elk.Point{})
	}

	// Edge routing: match plain records to emitted edges in order.
	for i := range edgeRecs {
		rec := &edgeRecs[i]
		ge := p.matchEdge(rec.tail, rec.head)
		if ge == nil || len(rec.points) < 2 {
			continue
		}
		offset := p.abs[ge.container]

		pts := make([]elk.Point, len(rec.points))
		for j, gp := range rec.points {
			pts[j] = elk.Point{
				X: gp.X*unit - offset.X,
				Y: (canvasH-gp.Y)*unit - offset.Y,
			}
		}
		var bends []elk.Point
		if len(pts) > 2 {
			bends = pts[1 : len(pts)-1]
		}
		ge.edge.Sections = []elk.Section{{
			ID:         ge.edge.ID + "_s0",
			StartPoint: pts[0],
			BendPoints: bends,
			EndPoint:   pts[len(pts)-1],
		}}

		if rec.label != nil {
			placeEdgeLabel(ge.edge, elk.Point{
				X: rec.label.X*unit - offset.X,
				Y: (canvasH-rec.label.Y)*unit - offset.Y,
			})
		}
	}

	p.root.Width = canvasW * unit
	p.root.Height = canvasH * unit
	return nil
}

// matchEdge finds the first emitted edge with the given DOT endpoints that
// has not been claimed by an earlier plain record.
func (p *gvPlan) matchEdge(tail, head string) *gvEdge {
	for _, ge := range p.edges {
		if !ge.matched && ge.tail == tail && ge.head == head {
			ge.matched = true
			return ge
		}
	}
	return nil
}

// centerLabels places sized labels in the middle of their node.
func centerLabels(n *elk.Node) {
	for _, l := range n.Labels {
		if l.Width > 0 || l.Height > 0 {
			l.X = (n.Width - l.Width) / 2
			l.Y = (n.Height - l.Height) / 2
		}
	}
}

// placeEdgeLabel moves the edge's first non-empty label to the plain
// output's label midpoint.
func placeEdgeLabel(e *elk.Edge, center elk.Point) {
	for _, l := range e.Labels {
		if l.Text == "" {
			continue
		}
		l.X = center.X - l.Width/2
		l.Y = center.Y - l.Height/2
		return
	}
}

// splitPlain tokenizes one plain-output line, honoring double quotes.
func splitPlain(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t' || line[i] == '\r') {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '"' {
			i++
			var sb strings.Builder
			for i < len(line) && line[i] != '"' {
				if line[i] == '\\' && i+1 < len(line) {
					i++
				}
				sb.WriteByte(line[i])
				i++
			}
			i++
			fields = append(fields, sb.String())
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields
}

func parseF(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
