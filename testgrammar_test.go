package glr

import (
	"github.com/parsekit/glr/lex"
	"github.com/parsekit/glr/table"
)

// Shared toy grammar for the tests in this package:
//
//	E -> E '+' id
//	E -> id
//
// hand-assembled the way a generated table would arrive at runtime
// (table.Builder, spec.md §1's "the build pipeline... is out of scope").
// Terminal ids come straight from text/scanner via lex.StdLexer: an
// identifier lexes to lex.SymIdent, '+' lexes to its own rune value.
const (
	symE table.Sym = -1000 // E, the only nonterminal

	stateStart table.State = 0 // epsilon on top, nothing shifted yet
	stateID    table.State = 1 // id just shifted from stateStart
	stateE     table.State = 2 // E just reduced/goto'd to
	statePlus  table.State = 3 // '+' just shifted from stateE
	stateID2   table.State = 4 // id just shifted from statePlus
)

func buildExprGrammar() *table.Language {
	b := table.NewBuilder("expr")
	b.Symbol(lex.SymIdent, "id", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(table.Sym('+'), "+", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(symE, "E", table.SymbolMetadata{Structural: true, Visible: true, Named: true})

	// stateStart: shift id, goto E.
	b.Action(stateStart, lex.SymIdent, table.Shift(stateID, false))
	b.Action(stateStart, symE, table.Shift(stateE, false)) // GOTO(stateStart, E) = stateE

	// stateID: E -> id . — reduce on both lookaheads in FOLLOW(E).
	b.Action(stateID, table.Sym('+'), table.Reduce(symE, 1, false, false, false))
	b.Action(stateID, table.EOFSym, table.Reduce(symE, 1, false, false, false))

	// stateE: S' -> E . accept on $, shift '+' to continue.
	b.Action(stateE, table.Sym('+'), table.Shift(statePlus, false))
	b.Action(stateE, table.EOFSym, table.Accept)

	// statePlus: E -> E '+' . id — shift id.
	b.Action(statePlus, lex.SymIdent, table.Shift(stateID2, false))

	// stateID2: E -> E '+' id . — reduce on both lookaheads, GOTO back to
	// stateE since popping 3 frames always exposes stateStart here (this
	// toy grammar is not recursive enough to expose any other state).
	b.Action(stateID2, table.Sym('+'), table.Reduce(symE, 3, false, false, false))
	b.Action(stateID2, table.EOFSym, table.Reduce(symE, 3, false, false, false))

	return b.Build()
}

func newExprParser(opts ...Option) *Parser {
	lang := buildExprGrammar()
	lexer := lex.NewStdLexer()
	return NewParser(lang, lexer, opts...)
}
