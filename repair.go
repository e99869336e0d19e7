package glr

import (
	"github.com/parsekit/glr/stack"
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// repairCandidate is one (symbol, count) the search still considers
// viable, count already adjusted down by count_above_error (spec.md §4.F
// Setup).
type repairCandidate struct {
	symbol table.Sym
	count  int
}

// repairSession is the mutable record threaded through one error-repair
// search (spec.md §3 "Repair session").
type repairSession struct {
	lookaheadSymbol table.Sym
	treesAboveError []*tree.Tree
	candidates      []repairCandidate

	foundRepair   bool
	bestSymbol    table.Sym
	bestCount     int
	bestNextState table.State
	bestSkipCount int

	visited int // frames inspected so far, checked against Parser.cfg.reductionBudget
}

// repair runs the error repair search of spec.md §4.F after a reduce
// attempted at origState popped into the stack's error boundary. On
// success it splices a repaired node into v and returns true (the caller
// should retry v with the same lookahead, exactly as for an ordinary
// successful reduce). On failure it removes v and returns false.
//
// Grounded in tree-sitter's ts_parser__repair_error and its helpers
// (original_source/src/runtime/parser.c).
func (p *Parser) repair(v int, origState table.State, errSlices []stack.Slice, la *tree.Tree) bool {
	aboveError := errSlices[0].Trees
	countAboveError := tree.ArrayEssentialCount(aboveError)

	session := &repairSession{
		lookaheadSymbol: la.Symbol,
		treesAboveError: aboveError,
	}
	for _, sym := range p.lang.AllSymbols() {
		for _, cand := range p.lang.Actions(origState, sym.ID) {
			if cand.Kind == table.ActionReduce && cand.ReduceCount > countAboveError {
				session.candidates = append(session.candidates, repairCandidate{
					symbol: cand.ReduceSym,
					count:  cand.ReduceCount - countAboveError,
				})
			}
		}
	}
	if len(session.candidates) == 0 {
		p.stack.RemoveVersion(v)
		return false
	}

	// v's top frame is the synthetic error-boundary marker handleError
	// pushed; the search walks the stack below that boundary (§4.F
	// Search), not the marker's own zero-width ErrorSym leaf.
	p.stack.DropErrorBoundary(v)

	status, slices := p.stack.Iterate(v, func(_ int, frameState table.State, soFar []*tree.Tree) stack.IterateAction {
		return p.repairCallback(session, frameState, soFar)
	})
	if status != stack.PopOk || !session.foundRepair || len(slices) == 0 {
		p.stack.RemoveVersion(v)
		return false
	}

	if !p.nodeBudgetOK() {
		p.stack.RemoveVersion(v)
		return false
	}

	repaired := slices[len(slices)-1]
	children := repaired.Trees
	kept := append([]*tree.Tree(nil), children[:session.bestCount]...)
	skipped := append([]*tree.Tree(nil), children[session.bestCount:]...)
	errNode := tree.NewErrorNode(skipped)

	all := make([]*tree.Tree, 0, len(kept)+1+len(aboveError))
	all = append(all, kept...)
	all = append(all, errNode)
	all = append(all, aboveError...)

	node := tree.NewNode(session.bestSymbol, all, true, session.bestNextState)
	// Iterate only inspected v: remove the frames the chosen window covers
	// so the repaired node replaces them instead of sitting on top of them.
	for range children {
		if !p.stack.DropErrorBoundary(v) {
			p.stack.PopCount(v, 1)
		}
	}
	p.stack.RenumberVersion(repaired.Version, v)
	p.stack.Push(v, node, !node.IsLeaf(), session.bestNextState)
	node.Release()

	p.debugger.repair(v, session.bestSymbol, session.bestSkipCount)
	return true
}

// repairCallback is the per-frame visitor for the repair search (spec.md
// §4.F Search), grounded in tree-sitter's ts_parser__error_repair_callback:
// prune candidates that can never improve on a found repair, try each
// surviving candidate's shift action, and validate the chain before
// accepting it.
func (p *Parser) repairCallback(session *repairSession, frameState table.State, soFar []*tree.Tree) stack.IterateAction {
	session.visited++
	if p.cfg.reductionBudget > 0 && session.visited > p.cfg.reductionBudget {
		p.budgetExceeded = true
		return stack.IterStop
	}

	treeCount := len(soFar)
	result := stack.IterNone
	survivors := session.candidates[:0:0]
	for _, cand := range session.candidates {
		if cand.count > treeCount {
			survivors = append(survivors, cand)
			continue
		}
		skipCount := treeCount - cand.count
		if session.foundRepair && skipCount >= session.bestSkipCount {
			continue // drops the candidate: it can never beat the incumbent
		}
		repairAct := p.lang.LastAction(frameState, cand.symbol)
		if repairAct.Kind != table.ActionShift {
			survivors = append(survivors, cand)
			continue
		}
		stateAfterRepair := repairAct.ToState
		if !p.lang.HasAction(stateAfterRepair, session.lookaheadSymbol) {
			survivors = append(survivors, cand)
			continue
		}
		if p.isValidRepair(soFar, session.treesAboveError, frameState, cand.symbol, cand.count, session.lookaheadSymbol) {
			result |= stack.IterPop
			session.foundRepair = true
			session.bestSymbol = cand.symbol
			session.bestCount = cand.count
			session.bestNextState = stateAfterRepair
			session.bestSkipCount = skipCount
			continue // found repairs are also removed from the set
		}
		survivors = append(survivors, cand)
	}
	session.candidates = survivors
	if len(session.candidates) == 0 {
		result |= stack.IterStop
	}
	return result
}

// isValidRepair simulates shifting the goalCount bottom-most non-extra
// trees of belowWindow (oldest first), then every tree of aboveError,
// confirming the resulting state can reduce goalSymbol (spec.md §4.F
// Validate, grounded in ts_parser__is_valid_repair).
func (p *Parser) isValidRepair(belowWindow, aboveError []*tree.Tree, startState table.State, goalSymbol table.Sym, goalCount int, lookahead table.Sym) bool {
	state := startState
	countBelow := 0
	for _, t := range belowWindow {
		act := p.lang.LastAction(state, t.Symbol)
		if act.Kind != table.ActionShift {
			return false
		}
		if act.ShiftExtra || t.Extra {
			continue
		}
		state = act.ToState
		countBelow++
		if countBelow == goalCount {
			for _, above := range aboveError {
				aboveAct := p.lang.LastAction(state, above.Symbol)
				if aboveAct.Kind != table.ActionShift {
					return false
				}
				if aboveAct.ShiftExtra || above.Extra {
					continue
				}
				state = aboveAct.ToState
			}
			for _, cand := range p.lang.Actions(state, lookahead) {
				if cand.Kind == table.ActionReduce && cand.ReduceSym == goalSymbol {
					return true
				}
			}
			return false
		}
	}
	return false
}
