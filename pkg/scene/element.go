package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elkscene/elkscene/pkg/elk"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Scene element types.
const (
	TypeGraph    = "graph"
	TypeNode     = "node"
	TypePort     = "port"
	TypeLabel    = "label"
	TypeEdge     = "edge"
	TypeJunction = "junction"
)

// validTypes guards deserialization; the wire format only knows these six.
var validTypes = map[string]bool{
	TypeGraph:    true,
	TypeNode:     true,
	TypePort:     true,
	TypeLabel:    true,
	TypeEdge:     true,
	TypeJunction: true,
}

// =============================================================================
// Element - Typed Scene Tree Node
// =============================================================================

// Element is the unified scene element for all renderer-facing output.
//
// This is a discriminated union type - check Type to determine which
// fields are populated:
//
//	graph ("graph"):
//	  - Children: top-level nodes followed by top-level edges
//
//	node ("node") and port ("port"):
//	  - Position, Size: resolved geometry
//	  - Children: nested nodes, ports, labels, local edges (nodes);
//	    labels (ports)
//
//	label ("label"):
//	  - Position, Size, Text
//
//	edge ("edge"):
//	  - SourceID, TargetID: effective endpoint pair
//	  - RoutingPoints: the reconstructed path
//	  - Children: junctions followed by labels
//
//	junction ("junction"):
//	  - Position
type Element struct {
	// Discriminator
	Type string `json:"type"`
	ID   string `json:"id"`

	// Geometry (node, port, label, junction)
	Position *elk.Point `json:"position,omitempty"`
	Size     *elk.Size  `json:"size,omitempty"`

	// Label-specific
	Text string `json:"text,omitempty"`

	// Edge-specific
	SourceID      string      `json:"sourceId,omitempty"`
	TargetID      string      `json:"targetId,omitempty"`
	RoutingPoints []elk.Point `json:"routingPoints,omitempty"`

	// Containment
	Children []*Element `json:"children,omitempty"`
}

// IsEdge returns true if this is an edge element.
func (e *Element) IsEdge() bool { return e.Type == TypeEdge }

// IsLabel returns true if this is a label element.
func (e *Element) IsLabel() bool { return e.Type == TypeLabel }

// Walk visits e and every descendant in depth-first pre-order.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Count returns per-type element counts for the whole tree rooted at e.
func (e *Element) Count() map[string]int {
	counts := make(map[string]int)
	e.Walk(func(el *Element) {
		counts[el.Type]++
	})
	return counts
}

// Find returns the first element in depth-first pre-order with the given
// id, or nil when no such element exists.
func (e *Element) Find(id string) *Element {
	var found *Element
	e.Walk(func(el *Element) {
		if found == nil && el.ID == id {
			found = el
		}
	})
	return found
}

// =============================================================================
// Scene Serialization API
// =============================================================================

// MarshalScene serializes a scene tree to pretty-printed JSON bytes.
func MarshalScene(root *Element) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalScene deserializes JSON bytes into a scene tree.
// Every element must carry one of the six known type discriminators.
func UnmarshalScene(data []byte) (*Element, error) {
	var root Element
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := validateTypes(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// WriteSceneFile writes a scene tree to a JSON file.
func WriteSceneFile(root *Element, path string) error {
	data, err := MarshalScene(root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSceneFile reads a scene tree from a JSON file.
func ReadSceneFile(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalScene(data)
}

// WriteScene writes a scene tree as JSON to an io.Writer.
func WriteScene(root *Element, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

func validateTypes(e *Element) error {
	if !validTypes[e.Type] {
		return fmt.Errorf("unknown scene element type %q (id %q)", e.Type, e.ID)
	}
	for _, child := range e.Children {
		if err := validateTypes(child); err != nil {
			return err
		}
	}
	return nil
}
