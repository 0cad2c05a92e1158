// Package outline renders a tree.Store as an editable terminal outline.
// It owns all presentation state: the cursor, the per-row depth, whether
// "add child" is offered at a row, and the transient rename buffer.
// The store only ever sees AddItem and RenameItem calls.
package outline

// Mode represents the current interaction mode.
type Mode int

const (
	ModeBrowse Mode = iota // Moving the cursor and adding items.
	ModeEdit               // Renaming the item under the cursor.
)

// DefaultMaxDepth is the deepest level a row may sit at. Rows at a lower
// depth offer "add child".
const DefaultMaxDepth = 3

// Option configures a Model.
type Option func(*Model)

// WithMaxDepth sets the depth limit. Rows with depth < n can receive children.
func WithMaxDepth(n int) Option {
	return func(m *Model) {
		m.maxDepth = n
	}
}
