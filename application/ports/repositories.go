package ports

import (
	"context"

	"notecanvas/domain/core/valueobjects"
)

// NoteRepository defines the interface for the host's note collection.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type NoteRepository interface {
	// List returns the IDs of all notes, optionally restricted to those
	// whose container path equals or is nested under filterPrefix.
	List(ctx context.Context, filterPrefix string) ([]valueobjects.NoteID, error)

	// Read returns the full text of a note. Returns a NotFound error when
	// the ID no longer resolves.
	Read(ctx context.Context, id valueobjects.NoteID) (string, error)

	// Write replaces the full text of a note. Returns a NotFound error when
	// the ID no longer resolves.
	Write(ctx context.Context, id valueobjects.NoteID, text string) error

	// Resolve maps a reference string from a note's edge list to a note ID.
	// References may omit the note extension; resolution prefers a sibling
	// of the referencing note before a vault-wide match. ok is false when
	// nothing resolves.
	Resolve(ref string, from valueobjects.NoteID) (valueobjects.NoteID, bool)
}

// VaultNotifier delivers change notifications for the note collection. The
// controller drains Changes on its event loop and triggers a reload.
type VaultNotifier interface {
	// Changes emits the ID of each note whose content or metadata changed.
	Changes() <-chan valueobjects.NoteID

	// Close stops the notifier and closes the Changes channel.
	Close() error
}

// NoteOpener opens a note in the host's editor surface. Invoked on node
// double-click; a failure is diagnostic-only.
type NoteOpener interface {
	Open(id valueobjects.NoteID) error
}
