package glr

import (
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// getLookahead produces the next tree to consume at the top of version
// (spec.md §4.A). It either reuses a node from cur or falls back to the
// lexer, applying the five decision rules in order, looping until one of
// them yields a tree.
func (p *Parser) getLookahead(version int, cur *Cursor) *tree.Tree {
	for {
		if cur.Exhausted() {
			return p.lexLookahead(version)
		}
		topPos := p.stack.TopPosition(version)
		switch {
		case cur.CharIndex() > topPos:
			return p.lexLookahead(version)
		case cur.CharIndex() < topPos:
			Pop(cur)
			continue
		}
		if cur.Tree().HasChanges {
			leaf := cur.Tree().IsLeaf()
			Breakdown(cur)
			if leaf {
				p.breakdownTop(version)
			}
			continue
		}
		state := p.stack.TopState(version)
		if !p.canReuse(state, cur.Tree()) {
			Breakdown(cur)
			continue
		}
		t := cur.Tree().Retain()
		Pop(cur)
		return t
	}
}

// canReuse implements the can_reuse predicate of spec.md §4.A.
func (p *Parser) canReuse(state table.State, t *tree.Tree) bool {
	if t.Symbol == table.ErrorSym {
		return false
	}
	if t.Fragile() && t.ParseState != state {
		return false
	}
	if t.LexState != table.INDEPENDENT && t.LexState != p.lang.LexStateOf(state) {
		return false
	}
	act := p.lang.LastAction(state, t.Symbol)
	if act.Kind != table.ActionShift || act.CanHideSplit {
		return false
	}
	if t.Extra != act.ShiftExtra {
		return false
	}
	return true
}

// lexLookahead resets the lexer to version's stack position and scans one
// token, packaging the result into a leaf tree (spec.md §4.A, "if the
// cursor is exhausted…").
func (p *Parser) lexLookahead(version int) *tree.Tree {
	position := p.stack.TopPosition(version)
	state := p.stack.TopState(version)
	lexState := p.lang.LexStateOf(state)
	p.lex.Reset(position)
	p.lex.Start(lexState)
	res := p.lex.Finish()
	if res.HasUnexpected {
		return tree.NewErrorLeaf(res.Padding, res.Size)
	}
	if res.Symbol == table.EOFSym {
		return tree.NewLeaf(table.EOFSym, res.Padding, res.Size, table.INDEPENDENT, state)
	}
	leaf := tree.NewLeaf(res.Symbol, res.Padding, res.Size, lexState, state)
	if res.Fragile {
		leaf.FragileLeft, leaf.FragileRight = true, true
		leaf.ParseState = table.StateError
	}
	return leaf
}
