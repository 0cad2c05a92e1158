// Package tree holds an ordered forest of named nodes and the store that
// produces successive immutable snapshots of it.
//
// Nodes are addressed by ID, never by name: a rename keeps the ID, and two
// nodes may share a name. Snapshots returned by the store never change;
// every mutation builds a new Tree that shares the untouched subtrees of
// the previous one.
package tree

import "slices"

// ID identifies a node within a Store. IDs are assigned in creation order,
// survive renames, and are never reused by the same Store.
type ID uint64

// NoParent targets the root sequence when passed to Store.AddItem.
const NoParent ID = 0

// Item is an identity-less description of a node. Seeds are written as
// Items, and Tree.Items exports a snapshot in the same shape.
type Item struct {
	Name     string `yaml:"name" json:"name"`
	Children []Item `yaml:"children,omitempty" json:"children,omitempty"`
}

// Node is one entry of a Tree. The zero Node is not part of any tree.
type Node struct {
	id       ID
	name     string
	children []Node
}

// ID returns the node's identity.
func (n Node) ID() ID { return n.id }

// Name returns the node's label. It may be empty.
func (n Node) Name() string { return n.name }

// Children returns a copy of the node's direct children, in order.
func (n Node) Children() []Node { return slices.Clone(n.children) }

// Len returns the number of direct children.
func (n Node) Len() int { return len(n.children) }

// Item returns the node and its subtree without identities.
func (n Node) Item() Item {
	return Item{Name: n.name, Children: itemsOf(n.children)}
}

// Tree is an immutable snapshot of the forest.
type Tree struct {
	roots []Node
}

// Roots returns a copy of the top-level nodes, in order.
func (t Tree) Roots() []Node { return slices.Clone(t.roots) }

// Len returns the total number of nodes in the forest.
func (t Tree) Len() int {
	count := 0
	t.Walk(func(Node, int) bool {
		count++
		return true
	})
	return count
}

// Walk visits every node in pre-order. Roots are at depth 0.
// Returning false from fn stops the walk.
func (t Tree) Walk(fn func(n Node, depth int) bool) {
	walk(t.roots, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the node with the given ID.
func (t Tree) Find(id ID) (Node, bool) {
	var found Node
	ok := false
	t.Walk(func(n Node, _ int) bool {
		if n.id == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Has reports whether a node with the given ID is in the forest.
func (t Tree) Has(id ID) bool {
	_, ok := t.Find(id)
	return ok
}

// Depth returns the depth of the node with the given ID.
func (t Tree) Depth(id ID) (int, bool) {
	depth, ok := 0, false
	t.Walk(func(n Node, d int) bool {
		if n.id == id {
			depth, ok = d, true
			return false
		}
		return true
	})
	return depth, ok
}

// Items exports the forest without identities.
func (t Tree) Items() []Item { return itemsOf(t.roots) }

func itemsOf(nodes []Node) []Item {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]Item, len(nodes))
	for i, n := range nodes {
		items[i] = n.Item()
	}
	return items
}

// rewrite returns nodes with fn applied to the node matching id.
// Only the ancestor chain of the match is copied; siblings and their
// subtrees are shared with the input. When id is absent the input slice
// is returned as-is with ok == false.
func rewrite(nodes []Node, id ID, fn func(Node) Node) (out []Node, ok bool) {
	for i, n := range nodes {
		if n.id == id {
			out = slices.Clone(nodes)
			out[i] = fn(n)
			return out, true
		}
		if children, found := rewrite(n.children, id, fn); found {
			out = slices.Clone(nodes)
			out[i].children = children
			return out, true
		}
	}
	return nodes, false
}
