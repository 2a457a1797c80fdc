package aggregates

import (
	"sort"

	"notecanvas/domain/core/entities"
	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// EdgeKey is the canonical de-duplication key for a connection: the
// unordered pair of endpoint IDs. One logical connection between two nodes is
// a single visual edge regardless of which side persists it.
type EdgeKey string

// NewEdgeKey builds the canonical key for an unordered pair of notes
func NewEdgeKey(a, b valueobjects.NoteID) EdgeKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return EdgeKey(a.String() + "|" + b.String())
}

// Edge represents a connection between two placed nodes. Direction records
// where the connection is persisted (the source note's attribute block); the
// canvas renders it undirected.
type Edge struct {
	Source valueobjects.NoteID
	Target valueobjects.NoteID
}

// Key returns the edge's canonical unordered key
func (e Edge) Key() EdgeKey {
	return NewEdgeKey(e.Source, e.Target)
}

// Graph is the aggregate root for the canvas graph. It ensures consistency
// boundaries for the node set and edge set: every edge's endpoints must be
// placed nodes, self-edges are rejected, and duplicate connections collapse
// onto their canonical key.
type Graph struct {
	nodes map[valueobjects.NoteID]*entities.Node
	order []valueobjects.NoteID
	edges map[EdgeKey]Edge
}

// NewGraph creates an empty graph aggregate
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[valueobjects.NoteID]*entities.Node),
		edges: make(map[EdgeKey]Edge),
	}
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if _, exists := g.nodes[node.ID()]; exists {
		return pkgerrors.NewConflictError("node already exists in graph")
	}
	g.nodes[node.ID()] = node
	g.order = append(g.order, node.ID())
	return nil
}

// ConnectNodes registers an edge between two placed nodes
func (g *Graph) ConnectNodes(sourceID, targetID valueobjects.NoteID) (Edge, error) {
	if sourceID.Equals(targetID) {
		return Edge{}, pkgerrors.NewValidationError("cannot connect note to itself")
	}
	if _, ok := g.nodes[sourceID]; !ok {
		return Edge{}, pkgerrors.NewNotFoundError("source node")
	}
	if _, ok := g.nodes[targetID]; !ok {
		return Edge{}, pkgerrors.NewNotFoundError("target node")
	}

	key := NewEdgeKey(sourceID, targetID)
	if existing, exists := g.edges[key]; exists {
		return existing, pkgerrors.NewConflictError("edge already exists")
	}

	edge := Edge{Source: sourceID, Target: targetID}
	g.edges[key] = edge
	return edge, nil
}

// DisconnectNodes removes the connection between two nodes, in either
// direction
func (g *Graph) DisconnectNodes(a, b valueobjects.NoteID) error {
	key := NewEdgeKey(a, b)
	if _, exists := g.edges[key]; !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	delete(g.edges, key)
	return nil
}

// HasEdge reports whether the two nodes are connected, in either direction
func (g *Graph) HasEdge(a, b valueobjects.NoteID) bool {
	_, exists := g.edges[NewEdgeKey(a, b)]
	return exists
}

// GetNode retrieves a node by ID
func (g *Graph) GetNode(id valueobjects.NoteID) (*entities.Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(id valueobjects.NoteID) bool {
	_, exists := g.nodes[id]
	return exists
}

// NodeCount returns the number of placed nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct connections
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// NodesInOrder returns the nodes in insertion order. The last node is the
// topmost one for hit-testing and draw order.
func (g *Graph) NodesInOrder() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.order))
	for _, id := range g.order {
		if node, ok := g.nodes[id]; ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Edges returns all edges sorted by canonical key for deterministic
// iteration
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Key() < edges[j].Key()
	})
	return edges
}

// Validate ensures graph invariants
func (g *Graph) Validate() error {
	for _, edge := range g.edges {
		if !g.HasNode(edge.Source) {
			return pkgerrors.NewInternalError("edge references non-existent source node")
		}
		if !g.HasNode(edge.Target) {
			return pkgerrors.NewInternalError("edge references non-existent target node")
		}
		if edge.Source.Equals(edge.Target) {
			return pkgerrors.NewInternalError("graph contains a self-edge")
		}
	}
	if len(g.order) != len(g.nodes) {
		return pkgerrors.NewInternalError("node order index out of sync")
	}
	return nil
}
