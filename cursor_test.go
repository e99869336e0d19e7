package glr

import (
	"testing"

	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

func TestNewCursorNilRootIsExhausted(t *testing.T) {
	c := NewCursor(nil)
	if !c.Exhausted() {
		t.Fatalf("expected a nil-root cursor to start exhausted")
	}
}

func TestPopAdvancesCharIndexBySpan(t *testing.T) {
	a := tree.NewLeaf(1, 0, 3, table.INDEPENDENT, 0)
	b := tree.NewLeaf(2, 1, 2, table.INDEPENDENT, 0)
	root := tree.NewNode(100, []*tree.Tree{a, b}, false, 0)
	tree.AssignParents(root)

	c := NewCursor(root)
	c.t = a // descend to the first leaf directly, as Breakdown would
	if c.CharIndex() != 0 {
		t.Fatalf("expected cursor to start at char index 0")
	}
	Pop(c)
	if c.CharIndex() != 3 {
		t.Fatalf("expected char index to advance by a's total span (3), got %d", c.CharIndex())
	}
	if c.Tree() != b {
		t.Fatalf("expected Pop to land on right sibling b")
	}
}

func TestPopExhaustsAtLastSibling(t *testing.T) {
	a := tree.NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	root := tree.NewNode(100, []*tree.Tree{a}, false, 0)
	tree.AssignParents(root)

	c := NewCursor(root)
	c.t = a
	Pop(c)
	if !c.Exhausted() {
		t.Fatalf("expected the cursor to be exhausted after popping the only child")
	}
}

func TestBreakdownDescendsWhileFragile(t *testing.T) {
	leaf := tree.NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	inner := tree.NewNode(100, []*tree.Tree{leaf}, false, 0) // not fragile
	outer := tree.NewNode(101, []*tree.Tree{inner}, true, 0) // fragile
	tree.AssignParents(outer)

	c := NewCursor(outer)
	Breakdown(c)
	if c.Tree() != inner {
		t.Fatalf("expected Breakdown to descend one level and stop at the non-fragile child")
	}
}

func TestBreakdownDescendsOnceEvenWhenStartNotFragile(t *testing.T) {
	// The caller (getLookahead) only invokes Breakdown after can_reuse has
	// already rejected the current node for some reason — not necessarily
	// fragility (lex-state mismatch, a missing shift action, an Extra
	// mismatch). Breakdown must still make progress in that case, exactly
	// as ts_parser__breakdown_reusable_node's do-while unconditionally
	// descends once before testing fragility again.
	leaf := tree.NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	child := tree.NewNode(100, []*tree.Tree{leaf}, false, 0) // not fragile
	root := tree.NewNode(101, []*tree.Tree{child}, false, 0) // not fragile either
	tree.AssignParents(root)

	c := NewCursor(root)
	Breakdown(c)
	if c.Tree() != child {
		t.Fatalf("expected Breakdown to descend once unconditionally even though root wasn't fragile")
	}
}

func TestBreakdownOnLeafPopsInstead(t *testing.T) {
	a := tree.NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := tree.NewLeaf(2, 0, 1, table.INDEPENDENT, 0)
	root := tree.NewNode(100, []*tree.Tree{a, b}, false, 0)
	tree.AssignParents(root)

	c := NewCursor(root)
	c.t = a
	Breakdown(c)
	if c.Tree() != b {
		t.Fatalf("expected Breakdown on a leaf to behave like Pop, landing on sibling b")
	}
}

func TestBreakdownOnErrorNodePopsInstead(t *testing.T) {
	errNode := tree.NewErrorNode([]*tree.Tree{tree.NewLeaf(1, 0, 1, table.INDEPENDENT, 0)})
	b := tree.NewLeaf(2, 0, 1, table.INDEPENDENT, 0)
	root := tree.NewNode(100, []*tree.Tree{errNode, b}, false, 0)
	tree.AssignParents(root)

	c := NewCursor(root)
	c.t = errNode
	Breakdown(c)
	if c.Tree() != b {
		t.Fatalf("expected Breakdown on an error node to pop rather than descend")
	}
}
