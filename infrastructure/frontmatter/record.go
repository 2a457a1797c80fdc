// Package frontmatter reads and patches the delimited attribute block at the
// head of a note's text. It is not a YAML parser: it understands the small
// fixed set of canvas keys and edits them by line splice, so every byte
// outside the touched lines survives a write untouched.
package frontmatter

// Attribute keys consumed by the canvas.
const (
	KeyNodeX    = "node_x"
	KeyNodeY    = "node_y"
	KeyNodeSize = "node_size"
	KeyEdges    = "edges"
)

// Record is the typed view of a note's canvas attributes. Absent keys are
// nil; absence is a normal empty-value case, never an error.
type Record struct {
	NodeX    *float64
	NodeY    *float64
	NodeSize *float64
	Edges    []string
}

// HasPosition reports whether both coordinates are present. Only notes with
// a full position participate in the graph.
func (r Record) HasPosition() bool {
	return r.NodeX != nil && r.NodeY != nil
}

// Patch describes attribute changes to apply to a note's text. Nil fields
// are left alone. A non-nil empty Edges slice removes the edges key
// entirely rather than writing an empty-list literal.
type Patch struct {
	NodeX    *int
	NodeY    *int
	NodeSize *float64
	Edges    *[]string
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.NodeX == nil && p.NodeY == nil && p.NodeSize == nil && p.Edges == nil
}

// PositionPatch builds a patch for a rounded world position
func PositionPatch(x, y int) Patch {
	return Patch{NodeX: &x, NodeY: &y}
}

// EdgesPatch builds a patch replacing the outgoing edge list
func EdgesPatch(edges []string) Patch {
	return Patch{Edges: &edges}
}
