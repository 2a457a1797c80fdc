package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecanvas/domain/core/entities"
	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

func mustNode(t *testing.T, path string, x, y float64) *entities.Node {
	t.Helper()
	id, err := valueobjects.NewNoteID(path)
	require.NoError(t, err)
	node, err := entities.NewNode(id, valueobjects.Vec2{X: x, Y: y}, 0)
	require.NoError(t, err)
	return node
}

func TestNewEdgeKey_Symmetric(t *testing.T) {
	a, _ := valueobjects.NewNoteID("a.md")
	b, _ := valueobjects.NewNoteID("b.md")

	assert.Equal(t, NewEdgeKey(a, b), NewEdgeKey(b, a))
	assert.NotEqual(t, NewEdgeKey(a, b), NewEdgeKey(a, a))
}

func TestGraph_AddNode(t *testing.T) {
	g := NewGraph()
	node := mustNode(t, "a.md", 0, 0)

	require.NoError(t, g.AddNode(node))
	assert.Equal(t, 1, g.NodeCount())

	err := g.AddNode(node)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))

	err = g.AddNode(nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGraph_ConnectNodes(t *testing.T) {
	g := NewGraph()
	a := mustNode(t, "a.md", 0, 0)
	b := mustNode(t, "b.md", 100, 0)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))

	t.Run("creates an edge between placed nodes", func(t *testing.T) {
		edge, err := g.ConnectNodes(b.ID(), a.ID())
		require.NoError(t, err)
		assert.Equal(t, b.ID(), edge.Source)
		assert.Equal(t, a.ID(), edge.Target)
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("duplicate in the opposite direction collapses onto the canonical key", func(t *testing.T) {
		_, err := g.ConnectNodes(a.ID(), b.ID())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("self-edge rejected", func(t *testing.T) {
		_, err := g.ConnectNodes(a.ID(), a.ID())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("unplaced endpoint rejected", func(t *testing.T) {
		ghost, err := valueobjects.NewNoteID("ghost.md")
		require.NoError(t, err)
		_, err = g.ConnectNodes(a.ID(), ghost)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestGraph_DisconnectNodes(t *testing.T) {
	g := NewGraph()
	a := mustNode(t, "a.md", 0, 0)
	b := mustNode(t, "b.md", 100, 0)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))

	_, err := g.ConnectNodes(b.ID(), a.ID())
	require.NoError(t, err)

	// Disconnect works regardless of the persisted direction.
	require.NoError(t, g.DisconnectNodes(a.ID(), b.ID()))
	assert.Equal(t, 0, g.EdgeCount())

	err = g.DisconnectNodes(a.ID(), b.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGraph_NodesInOrder(t *testing.T) {
	g := NewGraph()
	first := mustNode(t, "first.md", 0, 0)
	second := mustNode(t, "second.md", 10, 10)
	require.NoError(t, g.AddNode(first))
	require.NoError(t, g.AddNode(second))

	nodes := g.NodesInOrder()
	require.Len(t, nodes, 2)
	assert.Equal(t, "first.md", nodes[0].ID().String())
	assert.Equal(t, "second.md", nodes[1].ID().String())
}

func TestGraph_Validate(t *testing.T) {
	g := NewGraph()
	a := mustNode(t, "a.md", 0, 0)
	b := mustNode(t, "b.md", 1, 1)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	_, err := g.ConnectNodes(a.ID(), b.ID())
	require.NoError(t, err)

	assert.NoError(t, g.Validate())
}
