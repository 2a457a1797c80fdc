package services

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
	"notecanvas/pkg/observability"
)

// fakeRepo is an in-memory NoteRepository with the same resolution order as
// the filesystem vault: sibling, vault-relative, then basename.
type fakeRepo struct {
	mu    sync.Mutex
	notes map[string]string
}

func newFakeRepo(notes map[string]string) *fakeRepo {
	if notes == nil {
		notes = map[string]string{}
	}
	return &fakeRepo{notes: notes}
}

func (f *fakeRepo) List(_ context.Context, filterPrefix string) ([]valueobjects.NoteID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []valueobjects.NoteID
	for p := range f.notes {
		id, err := valueobjects.NewNoteID(p)
		if err != nil {
			continue
		}
		if id.InDir(filterPrefix) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeRepo) Read(_ context.Context, id valueobjects.NoteID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.notes[id.String()]
	if !ok {
		return "", pkgerrors.NewNotFoundError("note " + id.String())
	}
	return text, nil
}

func (f *fakeRepo) Write(_ context.Context, id valueobjects.NoteID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("note " + id.String())
	}
	f.notes[id.String()] = text
	return nil
}

func (f *fakeRepo) Resolve(ref string, from valueobjects.NoteID) (valueobjects.NoteID, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return valueobjects.NoteID{}, false
	}
	if !strings.HasSuffix(ref, valueobjects.NoteExtension) {
		ref += valueobjects.NoteExtension
	}
	candidates := []string{ref}
	if dir := from.Dir(); dir != "" {
		candidates = []string{path.Join(dir, ref), ref}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cand := range candidates {
		if _, ok := f.notes[cand]; ok {
			id, err := valueobjects.NewNoteID(cand)
			if err == nil {
				return id, true
			}
		}
	}
	var paths []string
	for p := range f.notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if path.Base(p) == path.Base(ref) {
			id, err := valueobjects.NewNoteID(p)
			if err == nil {
				return id, true
			}
		}
	}
	return valueobjects.NoteID{}, false
}

func (f *fakeRepo) text(t *testing.T, p string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.notes[p]
	require.True(t, ok, "note %s should exist", p)
	return text
}

func id(t *testing.T, p string) valueobjects.NoteID {
	t.Helper()
	noteID, err := valueobjects.NewNoteID(p)
	require.NoError(t, err)
	return noteID
}

func note(attrs, body string) string {
	return "---\n" + attrs + "---\n" + body
}

func TestGraphBuilder_Build(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md":        note("node_x: 0\nnode_y: 0\nedges: [\"b\", \"ghost\", \"plain\"]\n", "# A\n"),
		"b.md":        note("node_x: 100\nnode_y: 50\nnode_size: 2\n", "# B\n"),
		"plain.md":    "# No attributes\n",
		"folder/c.md": note("node_x: -20\nnode_y: 30\n", "# C\n"),
	})
	builder := NewGraphBuilder(repo, zaptest.NewLogger(t), observability.NewMetrics())

	graph, err := builder.Build(context.Background(), "")
	require.NoError(t, err)

	// plain.md has no position and stays out; the ghost and plain refs are
	// dropped silently.
	assert.Equal(t, 3, graph.NodeCount())
	assert.Equal(t, 1, graph.EdgeCount())
	assert.True(t, graph.HasEdge(id(t, "a.md"), id(t, "b.md")))

	nodeB, ok := graph.GetNode(id(t, "b.md"))
	require.True(t, ok)
	assert.Equal(t, valueobjects.Vec2{X: 100, Y: 50}, nodeB.Position())
	assert.Equal(t, 2.0, nodeB.Size())
}

func TestGraphBuilder_DirectoryFilter(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md":        note("node_x: 0\nnode_y: 0\nedges: [\"folder/c\"]\n", ""),
		"folder/c.md": note("node_x: 1\nnode_y: 1\n", ""),
	})
	builder := NewGraphBuilder(repo, zaptest.NewLogger(t), nil)

	graph, err := builder.Build(context.Background(), "folder")
	require.NoError(t, err)

	assert.Equal(t, 1, graph.NodeCount())
	assert.Equal(t, 0, graph.EdgeCount())
	assert.True(t, graph.HasNode(id(t, "folder/c.md")))
}

func TestGraphBuilder_DuplicateDeclarationsCollapse(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md": note("node_x: 0\nnode_y: 0\nedges: [\"b\"]\n", ""),
		"b.md": note("node_x: 1\nnode_y: 1\nedges: [\"a\"]\n", ""),
	})
	builder := NewGraphBuilder(repo, zaptest.NewLogger(t), nil)

	graph, err := builder.Build(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, graph.EdgeCount())
}

func TestPositionService_Commit(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md": note("node_x: 0\nnode_y: 0\n", "# A\nbody stays\n"),
	})
	svc := NewPositionService(repo, zaptest.NewLogger(t), observability.NewMetrics())

	err := svc.Commit(context.Background(), id(t, "a.md"), valueobjects.Vec2{X: 50.4, Y: -19.6})
	require.NoError(t, err)

	assert.Equal(t, note("node_x: 50\nnode_y: -20\n", "# A\nbody stays\n"), repo.text(t, "a.md"))
}

func TestPositionService_Commit_SynthesizesBlock(t *testing.T) {
	repo := newFakeRepo(map[string]string{"a.md": "# Plain note\n"})
	svc := NewPositionService(repo, zaptest.NewLogger(t), nil)

	require.NoError(t, svc.Commit(context.Background(), id(t, "a.md"), valueobjects.Vec2{X: 3, Y: 4}))
	assert.Equal(t, "---\nnode_x: 3\nnode_y: 4\n---\n# Plain note\n", repo.text(t, "a.md"))
}

func TestPositionService_Commit_Errors(t *testing.T) {
	repo := newFakeRepo(map[string]string{"a.md": ""})
	svc := NewPositionService(repo, zaptest.NewLogger(t), nil)

	err := svc.Commit(context.Background(), id(t, "missing.md"), valueobjects.Vec2{X: 1, Y: 2})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestEdgeService_CreateEdge(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md":        note("node_x: 0\nnode_y: 0\n", "body\n"),
		"folder/b.md": note("node_x: 1\nnode_y: 1\n", ""),
	})
	svc := NewEdgeService(repo, zaptest.NewLogger(t), observability.NewMetrics())

	require.NoError(t, svc.CreateEdge(context.Background(), id(t, "a.md"), id(t, "folder/b.md")))
	assert.Contains(t, repo.text(t, "a.md"), "edges: [\"folder/b\"]")

	// Second create of the same undirected edge, from either side, conflicts.
	err := svc.CreateEdge(context.Background(), id(t, "a.md"), id(t, "folder/b.md"))
	assert.True(t, pkgerrors.IsConflict(err))
	err = svc.CreateEdge(context.Background(), id(t, "folder/b.md"), id(t, "a.md"))
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestEdgeService_CreateEdge_SiblingUsesBasename(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"folder/a.md": note("node_x: 0\nnode_y: 0\n", ""),
		"folder/b.md": note("node_x: 1\nnode_y: 1\n", ""),
	})
	svc := NewEdgeService(repo, zaptest.NewLogger(t), nil)

	require.NoError(t, svc.CreateEdge(context.Background(), id(t, "folder/a.md"), id(t, "folder/b.md")))
	assert.Contains(t, repo.text(t, "folder/a.md"), "edges: [\"b\"]")
}

func TestEdgeService_CreateEdge_Rejections(t *testing.T) {
	repo := newFakeRepo(map[string]string{"a.md": note("node_x: 0\nnode_y: 0\n", "")})
	svc := NewEdgeService(repo, zaptest.NewLogger(t), nil)

	err := svc.CreateEdge(context.Background(), id(t, "a.md"), id(t, "a.md"))
	assert.True(t, pkgerrors.IsValidation(err))

	err = svc.CreateEdge(context.Background(), id(t, "a.md"), id(t, "missing.md"))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestEdgeService_DeleteEdge(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"a.md": note("node_x: 0\nnode_y: 0\nedges: [\"b\", \"c\"]\n", "body\n"),
		"b.md": note("node_x: 1\nnode_y: 1\nedges: [\"a\"]\n", ""),
		"c.md": note("node_x: 2\nnode_y: 2\n", ""),
	})
	svc := NewEdgeService(repo, zaptest.NewLogger(t), nil)

	// Declared on both sides: both lists lose the reference.
	require.NoError(t, svc.DeleteEdge(context.Background(), id(t, "a.md"), id(t, "b.md")))
	assert.Contains(t, repo.text(t, "a.md"), "edges: [\"c\"]")
	assert.NotContains(t, repo.text(t, "b.md"), "edges")

	// Last reference removed: the key disappears rather than going empty.
	require.NoError(t, svc.DeleteEdge(context.Background(), id(t, "a.md"), id(t, "c.md")))
	assert.NotContains(t, repo.text(t, "a.md"), "edges")
	assert.Contains(t, repo.text(t, "a.md"), "body\n")

	err := svc.DeleteEdge(context.Background(), id(t, "a.md"), id(t, "b.md"))
	assert.True(t, pkgerrors.IsNotFound(err))
}
