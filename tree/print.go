package tree

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented, human-readable rendering of a tree to w, in
// the spirit of the teacher's Dump()/ToGraphViz() debug helpers (lr/tables.go,
// lr/sppf/forest.go) but as plain indented text rather than Graphviz, since
// the driver has no grammar/symbol-name table of its own to label nodes
// with (that lives in package table, on the caller's side).
func Dump(w io.Writer, t *Tree, name func(sym interface{}) string) {
	dump(w, t, name, 0)
}

func dump(w io.Writer, t *Tree, name func(sym interface{}) string, depth int) {
	if t == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	label := fmt.Sprintf("%d", t.Symbol)
	if name != nil {
		label = name(t.Symbol)
	}
	flags := flagString(t)
	fmt.Fprintf(w, "%s%s [%d..%d]%s\n", indent, label, t.Padding, t.Padding+t.Size, flags)
	for _, c := range t.Children {
		dump(w, c, name, depth+1)
	}
}

func flagString(t *Tree) string {
	var b strings.Builder
	if t.Extra {
		b.WriteString(" extra")
	}
	if t.IsError {
		b.WriteString(" error")
	}
	if t.Fragile() {
		b.WriteString(" fragile")
	}
	if t.ErrorSize > 0 {
		fmt.Fprintf(&b, " error_size=%d", t.ErrorSize)
	}
	return b.String()
}

// Flatten appends every leaf in left-to-right order to out, used by tests
// verifying P2 (in-order flattening of leaf padding+size reconstructs the
// input byte-for-byte).
func Flatten(t *Tree, out []*Tree) []*Tree {
	if t == nil {
		return out
	}
	if t.IsLeaf() {
		return append(out, t)
	}
	for _, c := range t.Children {
		out = Flatten(c, out)
	}
	return out
}
