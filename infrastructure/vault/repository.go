// Package vault implements the note-collection ports against a directory of
// markdown files on the local filesystem.
package vault

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// Repository is a filesystem-backed NoteRepository rooted at a vault
// directory. Note IDs are vault-relative slash-separated paths.
type Repository struct {
	root   string
	logger *zap.Logger
}

// NewRepository creates a repository over an existing vault directory
func NewRepository(root string, logger *zap.Logger) (*Repository, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, pkgerrors.NewNotFoundError("vault directory").WithCause(err)
	}
	if !info.IsDir() {
		return nil, pkgerrors.NewValidationError("vault root must be a directory")
	}
	return &Repository{root: root, logger: logger}, nil
}

// Root returns the vault's absolute root directory
func (r *Repository) Root() string {
	return r.root
}

// List returns all note IDs under the vault, sorted, optionally restricted
// to a directory prefix.
func (r *Repository) List(ctx context.Context, filterPrefix string) ([]valueobjects.NoteID, error) {
	var ids []valueobjects.NoteID
	err := filepath.WalkDir(r.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries; a partial listing beats no listing.
			r.logger.Warn("skipping unreadable vault entry", zap.String("path", p), zap.Error(err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != r.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), valueobjects.NoteExtension) {
			return nil
		}
		rel, relErr := filepath.Rel(r.root, p)
		if relErr != nil {
			return nil
		}
		id, idErr := valueobjects.NewNoteID(filepath.ToSlash(rel))
		if idErr != nil {
			return nil
		}
		if id.InDir(filterPrefix) {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewIOError("list", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Read returns the full text of a note
func (r *Repository) Read(ctx context.Context, id valueobjects.NoteID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.abs(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", pkgerrors.NewNotFoundError("note " + id.String()).WithCause(err)
		}
		return "", pkgerrors.NewIOError("read", err)
	}
	return string(data), nil
}

// Write replaces the full text of an existing note
func (r *Repository) Write(ctx context.Context, id valueobjects.NoteID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := r.abs(id)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewNotFoundError("note " + id.String()).WithCause(err)
		}
		return pkgerrors.NewIOError("stat", err)
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return pkgerrors.NewIOError("write", err)
	}
	return nil
}

// Resolve maps an edge reference to a note ID. The note extension is
// appended when missing. Resolution order: sibling of the referencing note,
// vault-relative path, then a vault-wide basename match.
func (r *Repository) Resolve(ref string, from valueobjects.NoteID) (valueobjects.NoteID, bool) {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "\\", "/"))
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
	for _, cand := range candidates {
		id, err := valueobjects.NewNoteID(cand)
		if err != nil {
			continue
		}
		if r.exists(id) {
			return id, true
		}
	}

	// Vault-wide basename fallback, first match in sorted order.
	ids, err := r.List(context.Background(), "")
	if err != nil {
		return valueobjects.NoteID{}, false
	}
	base := path.Base(ref)
	for _, id := range ids {
		if id.Base() == base {
			return id, true
		}
	}
	return valueobjects.NoteID{}, false
}

func (r *Repository) exists(id valueobjects.NoteID) bool {
	info, err := os.Stat(r.abs(id))
	return err == nil && !info.IsDir()
}

func (r *Repository) abs(id valueobjects.NoteID) string {
	return filepath.Join(r.root, filepath.FromSlash(id.String()))
}
