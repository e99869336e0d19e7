/*
Package lex defines the lexer contract the GLR driver's lookahead source
(glr/lookahead.go, spec.md §4.A) falls back to whenever the reuse cursor
cannot supply the next tree: set the input, reset to a position, start in
a given lex state, and finish to get one token.

The generated lexer function is named in spec.md §1 as an external
collaborator; this package gives it a concrete shape plus two reference
implementations (StdLexer, backed by text/scanner, and MachineLexer,
backed by timtadh/lexmachine) rather than a full lexer-generator.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lex

import "github.com/parsekit/glr/table"

// Result is what Finish returns: the recognized symbol (table.ErrorSym if
// the lexer could not match anything), how much whitespace preceded it,
// how many characters it covers, whether it was produced in a way the
// driver should treat as fragile, and — for error results — the first
// character that could not be matched.
type Result struct {
	Symbol         table.Sym
	Padding        uint32
	Size           uint32
	Fragile        bool
	HasUnexpected  bool
	UnexpectedChar rune
}

// Lexer is the interface the driver depends on (spec.md §6).
type Lexer interface {
	// SetInput loads a new input string/buffer for subsequent lexing.
	SetInput(input string)
	// Reset repositions the lexer to a character offset, discarding any
	// partially-scanned token.
	Reset(position uint32)
	// Start begins scanning one token in the given lex state.
	Start(state table.LexState)
	// Finish completes the in-progress scan and returns its result.
	Finish() Result
}
