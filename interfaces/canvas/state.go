// Package canvas implements the interaction surface of the graph view: the
// controller state machine that turns pointer and keyboard events into graph
// mutations and note write-backs, hit-testing, and the numeric control strip.
package canvas

import (
	"notecanvas/domain/core/aggregates"
	"notecanvas/domain/core/valueobjects"
)

// Mode is the single active interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDraggingNode
	ModePanning
	ModeCreatingEdge
)

func (m Mode) String() string {
	switch m {
	case ModeDraggingNode:
		return "dragging_node"
	case ModePanning:
		return "panning"
	case ModeCreatingEdge:
		return "creating_edge"
	default:
		return "idle"
	}
}

// PointerButton distinguishes the primary and secondary mouse buttons.
type PointerButton int

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
)

// Hover identifies what sits under the pointer. Nodes take precedence: the
// edge fields are only set when no node is hit.
type Hover struct {
	NodeID  valueobjects.NoteID
	HasNode bool
	Edge    aggregates.Edge
	HasEdge bool
}

// InteractionState is the renderer's view of the controller: enough to draw
// hover emphasis, the dragged node, and the in-progress edge preview.
type InteractionState struct {
	Mode          Mode
	DragNodeID    valueobjects.NoteID
	EdgeSourceID  valueobjects.NoteID
	PointerScreen valueobjects.Vec2
	Hover         Hover
}
