package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatcher_NotifiesOnNoteChange(t *testing.T) {
	repo := newTestVault(t, map[string]string{"a.md": "original"})

	w, err := NewWatcher(repo, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "a.md"), []byte("changed"), 0o644))

	select {
	case id, ok := <-w.Changes():
		require.True(t, ok)
		assert.Equal(t, "a.md", id.String())
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_IgnoresNonNotes(t *testing.T) {
	repo := newTestVault(t, map[string]string{"a.md": "A"})

	w, err := NewWatcher(repo, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "scratch.txt"), []byte("x"), 0o644))

	select {
	case id := <-w.Changes():
		t.Fatalf("unexpected notification for %s", id.String())
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	repo := newTestVault(t, map[string]string{"a.md": "A"})

	w, err := NewWatcher(repo, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the change channel to close")
	}
}
