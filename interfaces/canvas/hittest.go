package canvas

import (
	"notecanvas/domain/core/aggregates"
	"notecanvas/domain/core/entities"
	"notecanvas/domain/core/valueobjects"
)

const (
	// NodeBaseRadius is the screen radius in pixels of a size-1 node at
	// zoom 1. The effective radius scales with node size and zoom.
	NodeBaseRadius = 12.0

	// edgeHitThreshold is the maximum pointer distance to an edge segment,
	// in screen pixels, for the edge to count as hit. Independent of zoom.
	edgeHitThreshold = 6.0
)

// nodeRadius returns a node's screen radius under the transform.
func nodeRadius(node *entities.Node, zoom float64) float64 {
	return NodeBaseRadius * node.Size() * zoom
}

// nodeAt finds the topmost node under a screen point. Later additions sit
// above earlier ones, so the scan runs back to front.
func nodeAt(graph *aggregates.Graph, t valueobjects.ViewTransform, screen valueobjects.Vec2) (valueobjects.NoteID, bool) {
	nodes := graph.NodesInOrder()
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		center := t.WorldToScreen(node.Position())
		if screen.DistanceTo(center) <= nodeRadius(node, t.Zoom()) {
			return node.ID(), true
		}
	}
	return valueobjects.NoteID{}, false
}

// edgeAt finds the edge nearest the screen point within the hit threshold.
// Ties keep the first edge found; Edges() iterates in a stable order.
func edgeAt(graph *aggregates.Graph, t valueobjects.ViewTransform, screen valueobjects.Vec2) (aggregates.Edge, bool) {
	var (
		best     aggregates.Edge
		bestDist = edgeHitThreshold
		found    bool
	)
	for _, edge := range graph.Edges() {
		source, okS := graph.GetNode(edge.Source)
		target, okT := graph.GetNode(edge.Target)
		if !okS || !okT {
			continue
		}
		a := t.WorldToScreen(source.Position())
		b := t.WorldToScreen(target.Position())
		if d := screen.DistanceToSegment(a, b); d < bestDist {
			best, bestDist, found = edge, d, true
		}
	}
	return best, found
}

// hoverAt computes the full hover result with node precedence.
func hoverAt(graph *aggregates.Graph, t valueobjects.ViewTransform, screen valueobjects.Vec2) Hover {
	if id, ok := nodeAt(graph, t, screen); ok {
		return Hover{NodeID: id, HasNode: true}
	}
	if edge, ok := edgeAt(graph, t, screen); ok {
		return Hover{Edge: edge, HasEdge: true}
	}
	return Hover{}
}
