package outline

import "github.com/smileynet/treelist/internal/tree"

// row is a tree node flattened for rendering, with its box-drawing prefix.
type row struct {
	ID     tree.ID
	Name   string
	Prefix string // e.g. "├── ", "│   └── "
	Depth  int
}

// flattenForest converts a forest into rows in pre-order.
// Roots carry no prefix; descendants get box-drawing connectors.
func flattenForest(t tree.Tree) []row {
	var rows []row
	roots := t.Roots()
	for i, root := range roots {
		rows = flattenNode(root, "", 0, i == len(roots)-1, rows)
	}
	return rows
}

func flattenNode(n tree.Node, parentPrefix string, depth int, isLast bool, rows []row) []row {
	var prefix string
	if depth > 0 {
		if isLast {
			prefix = parentPrefix + "└── "
		} else {
			prefix = parentPrefix + "├── "
		}
	}

	rows = append(rows, row{
		ID:     n.ID(),
		Name:   n.Name(),
		Prefix: prefix,
		Depth:  depth,
	})

	// Build the continuation prefix for children.
	var childPrefix string
	if depth > 0 {
		if isLast {
			childPrefix = parentPrefix + "    "
		} else {
			childPrefix = parentPrefix + "│   "
		}
	}

	children := n.Children()
	for i, child := range children {
		rows = flattenNode(child, childPrefix, depth+1, i == len(children)-1, rows)
	}
	return rows
}

// canAddChild reports whether a row at depth may receive a child.
func canAddChild(depth, maxDepth int) bool {
	return depth < maxDepth
}

// indexOf returns the row index holding id, or -1.
func indexOf(rows []row, id tree.ID) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
