package glr

import (
	"testing"

	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// buildRepairGrammar models a state 0 that shifts symbol 10 to state 1,
// where state 1 reduces symbol 20 (count 1) on the EOF lookahead — just
// enough table for isValidRepair to walk without a full parse.
func buildRepairGrammar() *table.Language {
	b := table.NewBuilder("repair")
	b.Symbol(10, "a", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(20, "A", table.SymbolMetadata{Structural: true, Visible: true, Named: true})
	b.Action(0, 10, table.Shift(1, false))
	b.Action(1, table.EOFSym, table.Reduce(20, 1, false, false, false))
	return b.Build()
}

func TestIsValidRepairAcceptsMatchingChain(t *testing.T) {
	p := &Parser{lang: buildRepairGrammar()}
	a := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	ok := p.isValidRepair([]*tree.Tree{a}, nil, 0, 20, 1, table.EOFSym)
	if !ok {
		t.Fatalf("expected a single shiftable 'a' leading to a reduce of A to validate")
	}
}

func TestIsValidRepairRejectsShortWindow(t *testing.T) {
	p := &Parser{lang: buildRepairGrammar()}
	ok := p.isValidRepair(nil, nil, 0, 20, 1, table.EOFSym)
	if ok {
		t.Errorf("expected an empty window to never reach goalCount, got valid")
	}
}

func TestIsValidRepairRejectsUnregisteredGoalSymbol(t *testing.T) {
	p := &Parser{lang: buildRepairGrammar()}
	a := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	// Symbol 99 has no reduce registered at state 1 for any lookahead.
	ok := p.isValidRepair([]*tree.Tree{a}, nil, 0, 99, 1, table.EOFSym)
	if ok {
		t.Errorf("expected no action for goalSymbol 99 to invalidate the repair")
	}
}

func TestIsValidRepairSkipsExtraTreesWithoutCounting(t *testing.T) {
	p := &Parser{lang: buildRepairGrammar()}
	extra := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	extra.Extra = true
	real := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	// Both trees have a shift on symbol 10 from state 0. The extra tree is
	// skipped: the walk stays at state 0 and the essential counter does not
	// move. The non-extra tree then shifts to state 1 and counts as 1, so
	// goalCount 2 is never reached and the repair is rejected.
	ok := p.isValidRepair([]*tree.Tree{extra, real}, nil, 0, 20, 2, table.EOFSym)
	if ok {
		t.Errorf("expected goalCount 2 against a grammar with only one shift transition to fail")
	}
}

func TestIsValidRepairWalksAboveErrorTrees(t *testing.T) {
	p := &Parser{lang: buildRepairGrammar()}
	a := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	// aboveError is non-empty but contains a tree with no shift action at
	// the post-goalCount state (state 1 has no action for symbol 10), so
	// the walk must fail even though the below-window alone would validate.
	above := tree.NewLeaf(10, 0, 1, table.INDEPENDENT, 0)
	ok := p.isValidRepair([]*tree.Tree{a}, []*tree.Tree{above}, 0, 20, 1, table.EOFSym)
	if ok {
		t.Errorf("expected an unshiftable above-error tree to invalidate the repair")
	}
}
