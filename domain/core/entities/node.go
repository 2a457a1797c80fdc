package entities

import (
	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// DefaultNodeSize is the display radius-scale used when a note does not
// declare node_size.
const DefaultNodeSize = 1.0

// Node is the entity representing a note placed on the canvas. A node exists
// only while its backing note declares both position coordinates; the whole
// set is rebuilt from the vault on every reload.
type Node struct {
	// Private fields ensure encapsulation
	id       valueobjects.NoteID
	position valueobjects.Vec2
	size     float64
	label    string
}

// NewNode creates a node with business rule validation
func NewNode(id valueobjects.NoteID, position valueobjects.Vec2, size float64) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be empty")
	}
	if !position.IsFinite() {
		return nil, pkgerrors.NewValidationError("node position must be finite")
	}
	if size <= 0 {
		size = DefaultNodeSize
	}
	return &Node{
		id:       id,
		position: position,
		size:     size,
		label:    id.Label(),
	}, nil
}

// ID returns the identifier of the backing note
func (n *Node) ID() valueobjects.NoteID {
	return n.id
}

// Position returns the node's world-space position
func (n *Node) Position() valueobjects.Vec2 {
	return n.position
}

// Size returns the node's display radius-scale (always > 0)
func (n *Node) Size() float64 {
	return n.size
}

// Label returns the node's display label
func (n *Node) Label() string {
	return n.label
}

// MoveTo updates the node's in-memory position. Persisting the move is the
// caller's responsibility; the entity stays valid under non-finite input by
// rejecting it.
func (n *Node) MoveTo(position valueobjects.Vec2) error {
	if !position.IsFinite() {
		return pkgerrors.NewValidationError("node position must be finite")
	}
	n.position = position
	return nil
}
