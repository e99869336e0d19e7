package glr

import (
	"github.com/parsekit/glr/stack"
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// ConsumeResult is the tagged result of consumeLookahead (spec.md §4.C,
// §9 tagged variants): a version either consumed the lookahead and moved
// on (Updated), reached Accept and was retired (Removed), or died
// (Failed).
type ConsumeResult uint8

const (
	ConsumeUpdated ConsumeResult = iota
	ConsumeRemoved
	ConsumeFailed
)

// consumeLookahead drives version's action loop for one lookahead tree
// until it shifts it, accepts, or fails (spec.md §4.C). la's single
// incoming reference is released exactly once, regardless of how many
// times (zero, one, or two under a shift/shift-adjacent conflict fork)
// it ends up pushed onto a stack frame — each Push retains independently,
// so one deferred Release here always leaves the right count behind.
func (p *Parser) consumeLookahead(version int, la *tree.Tree) ConsumeResult {
	defer la.Release()
	lastErrorState := table.State(-1 << 31)
	stuckAtError := 0
	for {
		if !p.stack.IsActive(version) {
			return ConsumeFailed
		}
		state := p.stack.TopState(version)
		acts := p.lang.Actions(state, la.Symbol)

		if len(acts) == 1 && acts[0].Kind == table.ActionError {
			if p.breakdownTop(version) == BreakdownPerformed {
				stuckAtError = 0
				continue
			}
			// handleError always leaves the version sitting at
			// table.StateError; if the table has no action at all for
			// this lookahead once already there, a second call can
			// only repeat the first one's outcome — bail out instead
			// of looping forever over an incomplete table.
			if state == lastErrorState {
				stuckAtError++
			} else {
				lastErrorState = state
				stuckAtError = 1
			}
			if stuckAtError > 1 {
				p.stack.RemoveVersion(version)
				return ConsumeFailed
			}
			p.handleError(version, state)
			if !p.stack.IsActive(version) {
				return ConsumeFailed
			}
			continue
		}

		const (
			outcomeNone = iota
			outcomeUpdated
			outcomeRemoved
		)
		outcome := outcomeNone
		lastReduction := -1

		for i, act := range acts {
			v := version
			if i < len(acts)-1 {
				v = p.stack.DuplicateVersion(version)
			}
			switch act.Kind {
			case table.ActionShift:
				p.shift(v, la, act)
				if v == version {
					outcome = outcomeUpdated
				}
			case table.ActionReduce:
				if p.reduce(v, state, act, la) {
					if v == version {
						lastReduction = v
					}
				}
			case table.ActionAccept:
				p.finishAccept(v)
				if v == version {
					outcome = outcomeRemoved
				}
			case table.ActionRecover:
				p.recover(v, la, act)
				if v == version {
					outcome = outcomeUpdated
				}
			}
		}

		switch outcome {
		case outcomeUpdated:
			return ConsumeUpdated
		case outcomeRemoved:
			return ConsumeRemoved
		}
		if lastReduction >= 0 {
			p.stack.RenumberVersion(lastReduction, version)
			continue
		}
		return ConsumeFailed
	}
}

// shift pushes la onto v, entering the shifted-to state. An extra token is
// flagged extra and pushed in the state already on top of v; the action's
// to_state is not followed for it.
func (p *Parser) shift(v int, la *tree.Tree, act table.ParseAction) {
	nextState := act.ToState
	if act.ShiftExtra {
		la.Extra = true
		nextState = p.stack.TopState(v)
	}
	p.stack.Push(v, la, !la.IsLeaf(), nextState)
	p.debugger.shift(v, la.Symbol, nextState)
}

// recover forks an error-mode sibling that swallows la as an extra token
// and stays at STATE_ERROR, while v itself shifts la into act.ToState and
// continues normally (spec.md §4.C Recover).
func (p *Parser) recover(v int, la *tree.Tree, act table.ParseAction) {
	errV := p.stack.DuplicateVersion(v)
	errTree := la.Copy()
	errTree.Extra = true
	p.stack.Push(errV, errTree, !errTree.IsLeaf(), table.StateError)
	errTree.Release()
	p.stack.Push(v, la, !la.IsLeaf(), act.ToState)
	p.debugger.shift(v, la.Symbol, act.ToState)
}

// reduce pops act.ReduceCount essential trees (plus any trailing extra
// trees already sitting on top) and builds a new node, or — if the pop
// hit the stack's error boundary first — hands off to error repair
// (spec.md §4.C Reduce, §4.F). Returns whether v is still alive and
// should be retried with the same lookahead.
func (p *Parser) reduce(v int, state table.State, act table.ParseAction, la *tree.Tree) bool {
	trailingCount := p.countTrailingExtra(v)
	status, slices := p.stack.PopCount(v, act.ReduceCount+trailingCount)
	switch status {
	case stack.PopFailed:
		p.stack.RemoveVersion(v)
		return false
	case stack.PopStoppedAtError:
		return p.repair(v, state, slices, la)
	}

	trees := slices[0].Trees
	essential := trees[:act.ReduceCount]
	trailing := trees[act.ReduceCount:]

	// belowState is the state exposed once the popped frames are gone —
	// GOTO for the reduced symbol, and the node's own reuse context, are
	// both indexed from here, not from the pre-pop state the Reduce
	// action itself was read from (mirrors how a lexed leaf's ParseState
	// records the state the stack was in just *before* it was shifted).
	belowState := p.stack.TopState(v)

	if !p.nodeBudgetOK() {
		p.stack.RemoveVersion(v)
		return false
	}
	fragile := act.Fragile || len(p.stack.ActiveVersions()) > 1
	node := tree.NewNode(act.ReduceSym, essential, fragile, belowState)

	nextState := belowState
	if act.ReduceExtra {
		// An extra reduce never advances the state: the produced node is
		// itself extra and sits alongside whatever state belowState already
		// is, the same way an extra shift leaves its target state
		// unchanged (spec.md §4.C; ts_parser__reduce's extra branch).
		node.Extra = true
	} else if shiftAct := p.lang.LastAction(belowState, act.ReduceSym); shiftAct.Kind == table.ActionShift {
		nextState = shiftAct.ToState
	}
	p.stack.Push(v, node, !node.IsLeaf(), nextState)
	node.Release()

	for _, extra := range trailing {
		p.stack.Push(v, extra, false, nextState)
		extra.Release()
	}

	p.mergeDuplicateSlices(node, act.ReduceCount, slices)
	p.debugger.reduce(v, act.ReduceSym, act.ReduceCount, fragile)
	return true
}

// countTrailingExtra reports how many trees currently on top of v are
// marked extra, without popping anything — used by reduce to know how
// many extra frames sit above the essential trees it needs (spec.md
// §4.C: "trailing extra trees are not counted toward the reduced node's
// children but are re-pushed after the new node").
func (p *Parser) countTrailingExtra(v int) int {
	count := 0
	p.stack.Iterate(v, func(depth int, _ table.State, soFar []*tree.Tree) stack.IterateAction {
		cur := soFar[0] // the tree visited at this depth (most recently added to soFar)
		if cur.Extra && depth == count {
			count++
			return stack.IterNone
		}
		return stack.IterStop
	})
	return count
}

// mergeDuplicateSlices implements the duplicate-slice merge of spec.md
// §4.C: when a pop operation yields more than one slice for the same
// version — two distinct derivations through a shared GSS node reaching
// the same reduce — each extra slice's essential trees are tree-selected
// against the reduced node's children and spliced into node on a win. The
// simplified GSS in
// package stack (documented in SPEC_FULL.md §3) never produces more than
// one slice per pop, since it does not model true multi-predecessor
// fan-in; this is therefore unreachable with the reference stack
// implementation, but kept so a future multi-predecessor Stack still
// satisfies this contract.
func (p *Parser) mergeDuplicateSlices(node *tree.Tree, essentialCount int, slices []stack.Slice) {
	if len(slices) < 2 {
		return
	}
	for _, challenger := range slices[1:] {
		if len(challenger.Trees) < essentialCount {
			continue
		}
		children := challenger.Trees[:essentialCount]
		scratch := tree.NewNode(node.Symbol, children, false, table.StateError)
		if Select(node, scratch) {
			node.SetChildren(children)
		}
	}
}

// finishAccept pops v to empty, finalizes each resulting slice into a
// root tree (spec.md §4.C Accept), and runs tree selection against
// whatever has already been accepted for this parse.
func (p *Parser) finishAccept(v int) {
	for _, sl := range p.stack.PopAll(v) {
		trees := sl.Trees
		// The bottom frame holds the parser's epsilon placeholder, which
		// covers no input and never becomes part of the accepted tree.
		if len(trees) > 0 && trees[0] == p.epsilon {
			trees = trees[1:]
		}
		root, errAdd := spliceAcceptSlice(trees)
		if root == nil {
			continue
		}
		root.ErrorSize += errAdd
		if p.finished == nil || Select(p.finished, root) {
			p.finished = root
		}
		p.debugger.accept(v, root)
	}
	p.stack.RemoveVersion(v)
}

// spliceAcceptSlice implements the accept finalizer of spec.md §4.C:
// scanning right to left for the last non-extra tree (the root), splicing
// its own children back into the slice in its place, and reporting the
// size of any non-extra siblings that preceded it (accumulated error
// spans) for the caller to add to error_size. Sizes are read before
// SetChildren mutates root, resolving the §9 Open Question in favor of
// not double-counting.
func spliceAcceptSlice(trees []*tree.Tree) (*tree.Tree, uint32) {
	rootIdx := -1
	for i := len(trees) - 1; i >= 0; i-- {
		if !trees[i].Extra {
			rootIdx = i
			break
		}
	}
	if rootIdx < 0 {
		return nil, 0
	}
	root := trees[rootIdx]
	var errAdd uint32
	for _, t := range trees[:rootIdx] {
		if !t.Extra {
			errAdd += t.Size
		}
	}
	children := make([]*tree.Tree, 0, len(trees)-1+len(root.Children))
	children = append(children, trees[:rootIdx]...)
	children = append(children, root.Children...)
	children = append(children, trees[rootIdx+1:]...)
	root.SetChildren(children)
	return root, errAdd
}
