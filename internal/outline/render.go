package outline

import (
	"strings"

	"github.com/smileynet/treelist/internal/tree"
)

// Render returns t as a plain-text outline without ANSI styling.
// Rows that can still receive children end in " [+]".
func Render(t tree.Tree, maxDepth int) string {
	rows := flattenForest(t)
	if len(rows) == 0 {
		return "(empty)\n"
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Prefix)
		b.WriteString(r.Name)
		if canAddChild(r.Depth, maxDepth) {
			b.WriteString(" [" + AddHint + "]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
