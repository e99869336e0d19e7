/*
Package tree implements the immutable, reference-counted parse tree the
GLR driver builds, reuses and selects between (spec.md §3, Data Model).

Tree allocation and reference counting are named in spec.md §1 as an
external collaborator; this package is the concrete, minimal stand-in the
driver is built and tested against — there is exactly one implementation
in this module, so callers needing their own storage strategy can still
satisfy the driver by producing *Tree values through these constructors.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package tree

import (
	"fmt"

	"github.com/cnf/structhash"

	"github.com/parsekit/glr/table"
)

// Context is a back-reference from a tree to its parent and its index
// within the parent's children. Assigned once, after parsing completes
// (Design Notes §9: parent pointers are non-owning and filled in a single
// downward walk so ownership stays acyclic during parsing).
type Context struct {
	Parent *Tree
	Index  int
}

// Tree is an immutable node: a terminal/nonterminal leaf or a composite
// with children. Fields mirror spec.md §3 one-to-one.
type Tree struct {
	Symbol   table.Sym
	Children []*Tree

	Padding uint32 // chars of whitespace preceding this tree's own content
	Size    uint32 // chars of this tree's own content (excludes padding, includes children for composites)

	ErrorSize uint32 // total chars covered by descendant error nodes; 0 for clean subtrees

	Extra bool // lies outside the grammar's main derivation stream

	LexState   table.LexState // table.INDEPENDENT, or the lex state this tree was lexed under
	ParseState table.State    // the LR state this tree was produced in, or table.StateError

	FragileLeft  bool // produced under ambiguity; left edge unsafe to reuse out of context
	FragileRight bool // produced under ambiguity; right edge unsafe to reuse out of context

	HasChanges bool // this subtree intersects an edit region (incremental reparse input)

	IsError bool // this is an error node (§3: "carries error_size > 0")

	Context *Context // back-edge, nil until AssignParents runs

	refs int32
	sig  string // memoized structural signature, see Signature()
}

// NewLeaf creates a terminal tree. lexState should be table.INDEPENDENT
// unless the grammar's lex-state reuse rule (§4.A can_reuse) requires a
// specific mode.
func NewLeaf(sym table.Sym, padding, size uint32, lexState table.LexState, parseState table.State) *Tree {
	return &Tree{
		Symbol:     sym,
		Padding:    padding,
		Size:       size,
		LexState:   lexState,
		ParseState: parseState,
		refs:       1,
	}
}

// NewErrorLeaf creates a leaf produced by the lexer for an unrecognized
// character run (spec.md §7, "lexer error").
func NewErrorLeaf(padding, size uint32) *Tree {
	t := NewLeaf(table.ErrorSym, padding, size, table.INDEPENDENT, table.StateError)
	t.ErrorSize = size
	t.IsError = true
	return t
}

// NewNode builds a composite tree from children via make_node (§6). The
// caller is responsible for the fragile/parse_state decision (engine.go's
// Reduce implements the rule from §4.C: multi-version or fragile reduces
// get both fragile flags and ParseState = StateError; otherwise ParseState
// = the reducing state).
func NewNode(sym table.Sym, children []*Tree, fragile bool, parseState table.State) *Tree {
	t := &Tree{
		Symbol:       sym,
		Children:     children,
		FragileLeft:  fragile,
		FragileRight: fragile,
		ParseState:   parseState,
		refs:         1,
	}
	if fragile {
		t.ParseState = table.StateError
	}
	recomputeFromChildren(t)
	return t
}

// NewErrorNode builds an error node whose children are the skipped trees
// accumulated during recovery/repair (§4.E, §4.F). Its error_size is the
// size of the error children among them, or the total size of its
// children when none of them is an error tree.
func NewErrorNode(children []*Tree) *Tree {
	t := &Tree{
		Symbol:     table.ErrorSym,
		Children:   children,
		ParseState: table.StateError,
		IsError:    true,
		refs:       1,
	}
	recomputeFromChildren(t)
	if t.ErrorSize == 0 {
		t.ErrorSize = t.Size
	}
	return t
}

// recomputeFromChildren derives Size and ErrorSize from children,
// enforcing I1 ("size.chars = padding.chars + Σ child.total_chars except
// for leaves") and I2 ("error_size >= 0; if any descendant is an error
// node, error_size > 0").
func recomputeFromChildren(t *Tree) {
	var size, errSize uint32
	for _, c := range t.Children {
		size += c.TotalChars()
		if c.IsError {
			errSize += c.Size
		} else {
			errSize += c.ErrorSize
		}
	}
	t.Size = size
	t.ErrorSize = errSize
}

// TotalChars returns padding + own size, i.e. the full character span this
// tree covers in the input (§3 "total_chars").
func (t *Tree) TotalChars() uint32 {
	if t == nil {
		return 0
	}
	return t.Padding + t.Size
}

// TotalSize is an alias for TotalChars kept for parity with §6's
// `total_size`/`total_chars` primitive pair (total_size historically also
// carried a byte count in multi-byte-aware ports; this module is
// character-oriented throughout, so the two coincide).
func (t *Tree) TotalSize() uint32 { return t.TotalChars() }

// IsLeaf reports whether a tree has no children.
func (t *Tree) IsLeaf() bool { return len(t.Children) == 0 }

// Fragile reports whether either fragile flag is set (§4.B breakdown: "while
// the current tree is fragile (either flag set)").
func (t *Tree) Fragile() bool { return t.FragileLeft || t.FragileRight }

// Retain increments the reference count and returns t, mirroring the
// teacher's explicit-transfer discipline for pushes/pops (§5 resource
// policy: "every transfer is explicit").
func (t *Tree) Retain() *Tree {
	if t != nil {
		t.refs++
	}
	return t
}

// Release decrements the reference count. It does not recursively release
// children: ownership of a composite's children passes to the composite at
// construction time, and is managed by the same counter as the parent in
// this reference implementation (there is no separate scratch arena to
// reclaim at the Go level; the garbage collector reclaims unreachable
// trees once refs drops to zero and no live version references them).
func (t *Tree) Release() {
	if t != nil {
		t.refs--
	}
}

// Refs returns the current reference count, for debugging and tests only.
func (t *Tree) Refs() int32 {
	if t == nil {
		return 0
	}
	return t.refs
}

// SetChildren replaces a tree's children in place and recomputes cached
// sizes. Used by swap_children (Design Notes §9) during duplicate-slice
// merges in engine.go, where a better derivation's children are spliced
// into an existing node instead of allocating a new one.
func (t *Tree) SetChildren(children []*Tree) {
	t.Children = children
	recomputeFromChildren(t)
	t.sig = ""
}

// Copy produces a shallow structural copy (make_copy, §6): same symbol,
// children slice (re-sliced, not deep-copied) and flags, a fresh refcount
// of 1. Used by recover (engine.go) so the error-mode fork can mark its own
// copy extra instead of mutating the tree the other version shifts.
func (t *Tree) Copy() *Tree {
	cp := *t
	cp.Children = append([]*Tree(nil), t.Children...)
	cp.refs = 1
	cp.Context = nil
	return &cp
}

// ArrayEssentialCount counts the non-extra ("essential") trees in a slice —
// the count a reduce actually consumes toward a new node's children,
// per I3 ("an extra tree is never counted in a parent's essential child
// count") and used directly by repair.go's count_above_error.
func ArrayEssentialCount(trees []*Tree) int {
	n := 0
	for _, t := range trees {
		if !t.Extra {
			n++
		}
	}
	return n
}

// Signature computes a cheap structural hash over symbol ids, child
// signatures and size — a fast pre-check before the full pre-order Compare
// walk that tree selection (§4.G) performs on a tie, and before the
// duplicate-slice-merge check in engine.go. Equal signatures do not prove
// equal trees (hash collisions, and the hash deliberately ignores most
// flags); unequal signatures do prove the trees differ.
func (t *Tree) Signature() string {
	if t == nil {
		return ""
	}
	if t.sig != "" {
		return t.sig
	}
	childSigs := make([]string, len(t.Children))
	for i, c := range t.Children {
		childSigs[i] = c.Signature()
	}
	h, err := structhash.Hash(struct {
		Symbol   table.Sym
		Size     uint32
		Children []string
	}{t.Symbol, t.Size, childSigs}, 1)
	if err != nil {
		// structhash only fails on unhashable types; our struct above is
		// always hashable, so this is unreachable in practice.
		h = fmt.Sprintf("sym:%d/size:%d/children:%d", t.Symbol, t.Size, len(childSigs))
	}
	t.sig = h
	return h
}

// Compare implements the deterministic pre-order symbol/shape comparison
// §4.G calls for: it returns -1 if a sorts before b, +1 if after, 0 if
// structurally identical. "Smaller" has no semantic meaning beyond
// determinism — it only has to be a total order so tree selection is
// reproducible (P4).
func Compare(a, b *Tree) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Signature() == b.Signature() {
		return 0
	}
	if a.Symbol != b.Symbol {
		if a.Symbol < b.Symbol {
			return -1
		}
		return 1
	}
	if len(a.Children) != len(b.Children) {
		if len(a.Children) < len(b.Children) {
			return -1
		}
		return 1
	}
	for i := range a.Children {
		if c := Compare(a.Children[i], b.Children[i]); c != 0 {
			return c
		}
	}
	if a.Size != b.Size {
		if a.Size < b.Size {
			return -1
		}
		return 1
	}
	return 0
}

func (t *Tree) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.IsError {
		return fmt.Sprintf("ERROR(%d)", t.Size)
	}
	return fmt.Sprintf("sym(%d)[%d..%d]", t.Symbol, t.Padding, t.Padding+t.Size)
}
