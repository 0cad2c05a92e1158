package tree

import "slices"

// DefaultNewItemName is the label given to nodes created by AddItem.
const DefaultNewItemName = "New Item"

// Store holds the current Tree and applies identity-targeted mutations.
// Each mutation replaces the current snapshot; previously returned Trees
// are unaffected. A Store is not safe for concurrent use.
type Store struct {
	current     Tree
	lastID      ID
	newItemName string
}

// Option configures a Store.
type Option func(*Store)

// WithNewItemName sets the label used for nodes created by AddItem.
func WithNewItemName(name string) Option {
	return func(s *Store) {
		s.newItemName = name
	}
}

// NewStore creates a Store seeded with the given forest.
// Seed nodes receive IDs in pre-order starting at 1.
func NewStore(seed []Item, opts ...Option) *Store {
	s := &Store{newItemName: DefaultNewItemName}
	for _, opt := range opts {
		opt(s)
	}
	s.current = Tree{roots: s.build(seed)}
	return s
}

func (s *Store) build(items []Item) []Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]Node, len(items))
	for i, it := range items {
		s.lastID++
		nodes[i] = Node{id: s.lastID, name: it.Name}
		nodes[i].children = s.build(it.Children)
	}
	return nodes
}

// Tree returns the current snapshot.
func (s *Store) Tree() Tree {
	return s.current
}

// AddItem appends a new node to the children of parent, or to the roots
// when parent is NoParent. An unknown parent leaves the Tree unchanged.
// Depth is not checked here; callers decide where adding is offered.
func (s *Store) AddItem(parent ID) Tree {
	child := Node{id: s.lastID + 1, name: s.newItemName}

	if parent == NoParent {
		s.current = Tree{roots: append(slices.Clone(s.current.roots), child)}
		s.lastID = child.id
		return s.current
	}

	roots, ok := rewrite(s.current.roots, parent, func(n Node) Node {
		n.children = append(slices.Clone(n.children), child)
		return n
	})
	if !ok {
		return s.current
	}
	s.current = Tree{roots: roots}
	s.lastID = child.id
	return s.current
}

// RenameItem sets the name of target. Children and position are kept.
// Empty names are accepted. An unknown target leaves the Tree unchanged.
func (s *Store) RenameItem(target ID, name string) Tree {
	roots, ok := rewrite(s.current.roots, target, func(n Node) Node {
		n.name = name
		return n
	})
	if ok {
		s.current = Tree{roots: roots}
	}
	return s.current
}
