package valueobjects

import (
	"path"
	"strings"

	pkgerrors "notecanvas/pkg/errors"
)

// NoteExtension is the file extension every note in the vault carries.
const NoteExtension = ".md"

// NoteID is a value object identifying a note by its vault-relative path.
// Value objects are immutable and have no identity beyond their value.
type NoteID struct {
	value string
}

// NewNoteID creates a NoteID from a vault-relative path
func NewNoteID(p string) (NoteID, error) {
	cleaned := strings.ReplaceAll(p, "\\", "/")
	cleaned = strings.TrimPrefix(path.Clean(cleaned), "./")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return NoteID{}, pkgerrors.NewValidationError("note ID must be a non-empty vault-relative path")
	}
	return NoteID{value: cleaned}, nil
}

// String returns the string representation of the NoteID
func (id NoteID) String() string {
	return id.value
}

// Equals checks if two NoteIDs are equal
func (id NoteID) Equals(other NoteID) bool {
	return id.value == other.value
}

// IsZero checks if the NoteID is the zero value
func (id NoteID) IsZero() bool {
	return id.value == ""
}

// Dir returns the container path of the note ("" for vault-root notes)
func (id NoteID) Dir() string {
	dir := path.Dir(id.value)
	if dir == "." {
		return ""
	}
	return dir
}

// Base returns the file name of the note, including the extension
func (id NoteID) Base() string {
	return path.Base(id.value)
}

// Label returns the display name of the note: the file name without its
// extension
func (id NoteID) Label() string {
	return strings.TrimSuffix(id.Base(), NoteExtension)
}

// InDir reports whether the note lives in the given directory or any
// directory nested under it. An empty prefix matches everything.
func (id NoteID) InDir(prefix string) bool {
	if prefix == "" {
		return true
	}
	prefix = strings.TrimSuffix(strings.ReplaceAll(prefix, "\\", "/"), "/")
	return id.value == prefix || strings.HasPrefix(id.value, prefix+"/")
}

// MarshalJSON implements json.Marshaler
func (id NoteID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NoteID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return pkgerrors.NewValidationError("NoteID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
