package glr

import "github.com/parsekit/glr/tree"

// Cursor walks a previously-finished tree depth-first, tracking both the
// current node and its starting character offset in the input (spec.md
// §3 "Reusable-node cursor", §4.B). A nil Tree means the cursor is
// exhausted — everything remaining must come from the lexer.
type Cursor struct {
	t         *tree.Tree
	charIndex uint32
}

// NewCursor starts a cursor at the root of a previously-accepted tree.
// Passing a nil root yields an already-exhausted cursor, which makes
// getLookahead behave exactly as a from-scratch parse.
func NewCursor(root *tree.Tree) *Cursor {
	return &Cursor{t: root}
}

// Exhausted reports whether the cursor has walked off the end of the
// previous tree.
func (c *Cursor) Exhausted() bool { return c.t == nil }

// Tree returns the node the cursor currently sits on (nil if exhausted).
func (c *Cursor) Tree() *tree.Tree { return c.t }

// CharIndex returns the starting character offset of the cursor's current
// node within the input that produced the previous tree.
func (c *Cursor) CharIndex() uint32 { return c.charIndex }

// Pop advances the cursor past its current tree: char_index moves forward
// by the tree's total character span, then the cursor walks upward through
// parent back-edges until it finds an unvisited right sibling to descend
// into. Finding none at the top, the cursor becomes exhausted.
func Pop(c *Cursor) {
	if c.t == nil {
		return
	}
	c.charIndex += c.t.TotalChars()
	cur := c.t
	for cur != nil {
		ctx := cur.Context
		if ctx == nil || ctx.Parent == nil {
			c.t = nil
			return
		}
		parent := ctx.Parent
		next := ctx.Index + 1
		if next < len(parent.Children) {
			c.t = parent.Children[next]
			return
		}
		cur = parent
	}
	c.t = nil
}

// Breakdown descends into the first child unconditionally once, then keeps
// descending into children[0] while the newly-exposed node is still
// fragile, stopping at a non-fragile tree or a leaf (mirrors
// ts_parser__breakdown_reusable_node's do-while: the caller only reaches
// here when the current node already failed can_reuse for some reason, so
// it must never be handed back unchanged). If the current tree is an
// error node or already a leaf, it pops instead (there is nothing to
// descend into).
func Breakdown(c *Cursor) {
	if c.t == nil {
		return
	}
	if c.t.IsError || c.t.IsLeaf() {
		Pop(c)
		return
	}
	for {
		c.t = c.t.Children[0]
		if c.t.IsLeaf() || !c.t.Fragile() {
			return
		}
	}
}
