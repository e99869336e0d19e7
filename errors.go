package glr

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/parsekit/glr/stack"
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// reduceActionComparator orders distinct (ReduceSym, ReduceCount) pairs so
// the treeset below dedups candidate reductions while still visiting them
// in a deterministic order, following the teacher's stateComparator
// pattern for treeset.NewWith (lr/tables.go).
func reduceActionComparator(a, b interface{}) int {
	x, y := a.(table.ParseAction), b.(table.ParseAction)
	if x.ReduceSym != y.ReduceSym {
		return int(x.ReduceSym) - int(y.ReduceSym)
	}
	return x.ReduceCount - y.ReduceCount
}

// handleError implements the error handler of spec.md §4.E: reduce every
// reducible prefix at state, push a STATE_ERROR marker, and fold any
// extra live versions the fan-out created back into the original slot.
func (p *Parser) handleError(version int, state table.State) {
	reduceActs := treeset.NewWith(reduceActionComparator)
	hasShiftOrRecover := false

	for _, sym := range p.lang.AllSymbols() {
		for _, act := range p.lang.Actions(state, sym.ID) {
			switch act.Kind {
			case table.ActionReduce:
				if act.ReduceCount <= 0 {
					continue
				}
				reduceActs.Add(act)
			case table.ActionShift, table.ActionRecover:
				hasShiftOrRecover = true
			}
		}
	}

	var successes []int
	for _, raw := range reduceActs.Values() {
		act := raw.(table.ParseAction)
		if v, ok := p.attemptErrorReduce(version, act); ok {
			successes = append(successes, v)
		}
	}

	if len(successes) > 0 && !hasShiftOrRecover {
		p.stack.RenumberVersion(successes[0], version)
		successes = successes[1:]
	}

	marker := tree.NewErrorLeaf(0, 0)
	p.stack.Push(version, marker, false, table.StateError)
	marker.Release()

	for _, v := range successes {
		m := tree.NewErrorLeaf(0, 0)
		p.stack.Push(v, m, false, table.StateError)
		m.Release()
		p.stack.Merge(version, v)
	}

	p.debugger.error(version, state)
}

// attemptErrorReduce speculatively forks version and performs one
// fragile reduce at state, discarding it if the pop runs into the
// stack's own error boundary (spec.md §4.E step 2: "discard reductions
// that stopped at an error boundary" — unlike an ordinary reduce, this
// speculative one never escalates to §4.F repair, since it is already
// running inside error handling).
func (p *Parser) attemptErrorReduce(version int, act table.ParseAction) (int, bool) {
	v := p.stack.DuplicateVersion(version)
	trailingCount := p.countTrailingExtra(v)
	status, slices := p.stack.PopCount(v, act.ReduceCount+trailingCount)
	if status != stack.PopOk {
		p.stack.RemoveVersion(v)
		return -1, false
	}

	trees := slices[0].Trees
	essential := trees[:act.ReduceCount]
	trailing := trees[act.ReduceCount:]

	belowState := p.stack.TopState(v)
	node := tree.NewNode(act.ReduceSym, essential, true, belowState)
	nextState := belowState
	if sa := p.lang.LastAction(belowState, act.ReduceSym); sa.Kind == table.ActionShift {
		nextState = sa.ToState
	}
	p.stack.Push(v, node, !node.IsLeaf(), nextState)
	node.Release()
	for _, extra := range trailing {
		p.stack.Push(v, extra, false, nextState)
		extra.Release()
	}
	return v, true
}
