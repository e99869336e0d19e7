package glr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

func TestParseSingleIdent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.parser")
	defer teardown()

	p := newExprParser()
	result, err := p.Parse("a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Symbol != symE {
		t.Fatalf("expected root symbol E, got %d", result.Symbol)
	}
	if len(result.Children) != 1 {
		t.Fatalf("expected E -> id (1 child), got %d", len(result.Children))
	}
}

func TestParseLeftRecursiveChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.parser")
	defer teardown()

	p := newExprParser()
	result, err := p.Parse("a+b+c", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Symbol != symE {
		t.Fatalf("expected root symbol E, got %d", result.Symbol)
	}
	if len(result.Children) != 3 {
		t.Fatalf("expected E -> E + id (3 children) at the top, got %d", len(result.Children))
	}
	if result.ErrorSize != 0 {
		t.Fatalf("expected a clean parse, got error_size=%d", result.ErrorSize)
	}

	leaves := tree.Flatten(result, nil)
	if len(leaves) != 5 {
		t.Fatalf("expected 5 leaves (a + b + c), got %d", len(leaves))
	}
}

func TestParseWithWhitespace(t *testing.T) {
	p := newExprParser()
	result, err := p.Parse("a + b", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaves := tree.Flatten(result, nil)
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(leaves))
	}
	// the '+' leaf carries one char of padding for the space before it.
	plus := leaves[1]
	if plus.Padding != 1 {
		t.Fatalf("expected '+' to carry 1 char of padding, got %d", plus.Padding)
	}
}

func TestIncrementalReuseAppend(t *testing.T) {
	p := newExprParser()
	first, err := p.Parse("a+b", nil)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}

	var reused []table.Sym
	p.SetDebugger(&Debugger{
		OnShift: func(_ int, sym table.Sym, _ table.State) { reused = append(reused, sym) },
	})
	second, err := p.Parse("a+b+c", first)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if len(second.Children) != 3 {
		t.Fatalf("expected top-level E -> E + id, got %d children", len(second.Children))
	}
	leaves := tree.Flatten(second, nil)
	if len(leaves) != 5 {
		t.Fatalf("expected 5 leaves in the reparsed tree, got %d", len(leaves))
	}
}

func TestAcceptProducesNoError(t *testing.T) {
	p := newExprParser()
	result, err := p.Parse("a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ErrorSize != 0 {
		t.Fatalf("expected error_size 0 for a clean parse, got %d", result.ErrorSize)
	}
}

func TestParseEmptyInputFails(t *testing.T) {
	p := newExprParser()
	_, err := p.Parse("", nil)
	if err == nil {
		t.Fatalf("expected empty input (no id token available) to fail")
	}
}

func TestParseRespectsMaxNodes(t *testing.T) {
	// a+b+c reduces three times (id, id+id, (id+id)+id); a budget of one
	// internal node must fail on the second reduce.
	p := newExprParser(WithMaxNodes(1))
	_, err := p.Parse("a+b+c", nil)
	if err == nil {
		t.Fatalf("expected a one-node budget to be exhausted by a+b+c")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected a *ParseError, got %T", err)
	}
	if pe.Kind != ErrResource {
		t.Errorf("expected ErrResource, got %v", pe.Kind)
	}
}

func TestParseMaxNodesZeroIsUnbounded(t *testing.T) {
	p := newExprParser() // default Config leaves maxNodes at 0
	result, err := p.Parse("a+b+c", nil)
	if err != nil {
		t.Fatalf("unexpected error with no node budget set: %v", err)
	}
	if result.Symbol != symE {
		t.Fatalf("expected a normal parse result, got symbol %d", result.Symbol)
	}
}
