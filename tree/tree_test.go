package tree

import (
	"bytes"
	"testing"

	"github.com/parsekit/glr/table"
)

func TestNewNodeRecomputesSizeFromChildren(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := NewLeaf(2, 1, 1, table.INDEPENDENT, 0)
	n := NewNode(100, []*Tree{a, b}, false, 0)
	if n.Size != 3 {
		t.Errorf("expected size 0+1 + 1+1 = 3, got %d", n.Size)
	}
	if n.ErrorSize != 0 {
		t.Errorf("expected error_size 0 for a clean node, got %d", n.ErrorSize)
	}
}

func TestNewNodeFragileForcesStateError(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	n := NewNode(100, []*Tree{a}, true, 7)
	if n.ParseState != table.StateError {
		t.Errorf("expected a fragile node's ParseState forced to StateError, got %d", n.ParseState)
	}
	if !n.Fragile() {
		t.Errorf("expected Fragile() true when built with fragile=true")
	}
}

func TestErrorSizePropagatesFromErrorDescendant(t *testing.T) {
	clean := NewLeaf(1, 0, 2, table.INDEPENDENT, 0)
	bad := NewErrorLeaf(0, 3)
	n := NewNode(100, []*Tree{clean, bad}, false, 0)
	if n.ErrorSize == 0 {
		t.Errorf("expected error_size > 0 when a child is an error node (I2)")
	}
	if n.ErrorSize != bad.Size {
		t.Errorf("expected error_size to equal the error child's size %d, got %d", bad.Size, n.ErrorSize)
	}
}

func TestSetChildrenInvalidatesSignature(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := NewLeaf(2, 0, 5, table.INDEPENDENT, 0)
	n := NewNode(100, []*Tree{a}, false, 0)
	sigBefore := n.Signature()
	n.SetChildren([]*Tree{b})
	if n.Signature() == sigBefore {
		t.Errorf("expected signature to change after SetChildren swaps in a differently-sized child")
	}
	if n.Size != 5 {
		t.Errorf("expected SetChildren to recompute size, got %d", n.Size)
	}
}

func TestCompareIsDeterministicAndReflexive(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	if Compare(a, a) != 0 {
		t.Errorf("expected a tree to compare equal to itself")
	}
	if Compare(a, b) != 0 {
		t.Errorf("expected two structurally identical leaves to compare equal, got %d", Compare(a, b))
	}
	c := NewLeaf(2, 0, 1, table.INDEPENDENT, 0)
	if Compare(a, c) == 0 {
		t.Errorf("expected leaves with different symbols to compare unequal")
	}
	// Compare must be antisymmetric: swapping operands flips the sign.
	if Compare(a, c) != -Compare(c, a) {
		t.Errorf("expected Compare(a,c) == -Compare(c,a)")
	}
}

func TestRetainReleaseRoundTrip(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	if a.Refs() != 1 {
		t.Fatalf("expected a freshly constructed leaf to start at refs=1, got %d", a.Refs())
	}
	a.Retain()
	if a.Refs() != 2 {
		t.Fatalf("expected Retain to bump refs to 2, got %d", a.Refs())
	}
	a.Release()
	a.Release()
	if a.Refs() != 0 {
		t.Fatalf("expected two Releases to bring refs back to 0, got %d", a.Refs())
	}
}

func TestFlattenCollectsLeavesInOrder(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := NewLeaf(2, 0, 1, table.INDEPENDENT, 0)
	c := NewLeaf(3, 0, 1, table.INDEPENDENT, 0)
	inner := NewNode(100, []*Tree{b, c}, false, 0)
	root := NewNode(101, []*Tree{a, inner}, false, 0)

	leaves := Flatten(root, nil)
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(leaves))
	}
	if leaves[0] != a || leaves[1] != b || leaves[2] != c {
		t.Errorf("expected left-to-right leaf order a,b,c, got %v,%v,%v", leaves[0], leaves[1], leaves[2])
	}
}

func TestAssignParentsAndRoot(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	b := NewLeaf(2, 0, 1, table.INDEPENDENT, 0)
	root := NewNode(100, []*Tree{a, b}, false, 0)
	AssignParents(root)

	if a.Context == nil || a.Context.Parent != root || a.Context.Index != 0 {
		t.Errorf("expected a's context to point at root, index 0")
	}
	if b.Context == nil || b.Context.Index != 1 {
		t.Errorf("expected b's context index to be 1")
	}
	if Root(a) != root {
		t.Errorf("expected Root(a) to climb back to root")
	}
}

func TestDumpWritesOneLinePerNode(t *testing.T) {
	a := NewLeaf(1, 0, 1, table.INDEPENDENT, 0)
	root := NewNode(100, []*Tree{a}, false, 0)
	var buf bytes.Buffer
	Dump(&buf, root, nil)
	if buf.Len() == 0 {
		t.Errorf("expected Dump to write something")
	}
}
