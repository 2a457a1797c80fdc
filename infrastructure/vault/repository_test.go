package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

func newTestVault(t *testing.T, files map[string]string) *Repository {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	repo, err := NewRepository(root, zaptest.NewLogger(t))
	require.NoError(t, err)
	return repo
}

func mustID(t *testing.T, p string) valueobjects.NoteID {
	t.Helper()
	id, err := valueobjects.NewNoteID(p)
	require.NoError(t, err)
	return id
}

func TestRepository_List(t *testing.T) {
	repo := newTestVault(t, map[string]string{
		"a.md":            "A",
		"folder/x.md":     "X",
		"folder/sub/y.md": "Y",
		"other/z.md":      "Z",
		"not-a-note.txt":  "ignored",
	})

	t.Run("lists every note sorted", func(t *testing.T) {
		ids, err := repo.List(context.Background(), "")
		require.NoError(t, err)

		var got []string
		for _, id := range ids {
			got = append(got, id.String())
		}
		assert.Equal(t, []string{"a.md", "folder/sub/y.md", "folder/x.md", "other/z.md"}, got)
	})

	t.Run("directory filter includes nested notes and excludes siblings", func(t *testing.T) {
		ids, err := repo.List(context.Background(), "folder")
		require.NoError(t, err)

		var got []string
		for _, id := range ids {
			got = append(got, id.String())
		}
		assert.Equal(t, []string{"folder/sub/y.md", "folder/x.md"}, got)
	})
}

func TestRepository_ReadWrite(t *testing.T) {
	repo := newTestVault(t, map[string]string{"a.md": "original"})
	id := mustID(t, "a.md")

	text, err := repo.Read(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "original", text)

	require.NoError(t, repo.Write(context.Background(), id, "updated"))
	text, err = repo.Read(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "updated", text)
}

func TestRepository_MissingNote(t *testing.T) {
	repo := newTestVault(t, nil)
	id := mustID(t, "missing.md")

	_, err := repo.Read(context.Background(), id)
	assert.True(t, pkgerrors.IsNotFound(err))

	err = repo.Write(context.Background(), id, "text")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRepository_Resolve(t *testing.T) {
	repo := newTestVault(t, map[string]string{
		"a.md":            "A",
		"folder/a.md":     "shadowed A",
		"folder/b.md":     "B",
		"folder/sub/c.md": "C",
	})

	tests := []struct {
		name   string
		ref    string
		from   string
		want   string
		wantOK bool
	}{
		{name: "extension appended", ref: "a", from: "folder/b.md", want: "folder/a.md", wantOK: true},
		{name: "sibling preferred over vault root", ref: "a.md", from: "folder/b.md", want: "folder/a.md", wantOK: true},
		{name: "vault-relative path", ref: "folder/sub/c.md", from: "a.md", want: "folder/sub/c.md", wantOK: true},
		{name: "basename fallback", ref: "c", from: "a.md", want: "folder/sub/c.md", wantOK: true},
		{name: "unresolvable reference", ref: "nope", from: "a.md", wantOK: false},
		{name: "empty reference", ref: "  ", from: "a.md", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := repo.Resolve(tt.ref, mustID(t, tt.from))
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestNewRepository_MissingRoot(t *testing.T) {
	_, err := NewRepository(filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t))
	assert.True(t, pkgerrors.IsNotFound(err))
}
