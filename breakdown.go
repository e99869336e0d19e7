package glr

import (
	"github.com/parsekit/glr/stack"
	"github.com/parsekit/glr/table"
)

// BreakdownResult reports whether breakdownTop made progress (spec.md
// §4.D, §9 tagged variants).
type BreakdownResult uint8

const (
	BreakdownAborted BreakdownResult = iota
	BreakdownPerformed
)

// breakdownTop replaces the top-of-stack composite trees with their
// children, one child at a time, when the current top is a run of
// "pending" trees (spec.md §4.D). Breaking a reused composite apart often
// exposes a smaller prefix the parser can still make progress with — in
// particular, a prefix the reuse cursor can still reuse piecemeal, or one
// that the error repair search (§4.F) can reach.
func (p *Parser) breakdownTop(version int) BreakdownResult {
	status, slices := p.stack.PopPending(version)
	if status != stack.PopOk || len(slices) == 0 || len(slices[0].Trees) == 0 {
		return BreakdownAborted
	}
	for _, composite := range slices[0].Trees {
		state := p.stack.TopState(version)
		for _, child := range composite.Children {
			var next table.State
			if child.IsError {
				next = table.StateError
			} else {
				act := p.lang.LastAction(state, child.Symbol)
				if act.Kind == table.ActionShift {
					next = act.ToState
				} else {
					next = table.StateError
				}
			}
			isPending := !child.IsLeaf()
			p.stack.Push(version, child, isPending, next)
			state = next
		}
		p.debugger.breakdown(version, composite.Symbol)
	}
	return BreakdownPerformed
}
