package lex

import (
	"strings"
	"text/scanner"

	"github.com/parsekit/glr/table"
)

// Symbol ids text/scanner's special token classes translate to. These sit
// below table.EOFSym (-2) so they can never collide with a grammar's own
// rune-valued terminals (ordinary runes, including '+' or a unicode
// letter scanned on its own, are always >= 0) or with the two reserved
// ids ErrorSym/EOFSym — text/scanner's own negative constants (Ident=-2,
// Int=-3, …) would otherwise collide with EOFSym directly.
const (
	SymIdent table.Sym = -10 - iota
	SymInt
	SymFloat
	SymChar
	SymString
	SymRawString
	SymComment
)

func stdSymbol(tok rune) table.Sym {
	switch tok {
	case scanner.Ident:
		return SymIdent
	case scanner.Int:
		return SymInt
	case scanner.Float:
		return SymFloat
	case scanner.Char:
		return SymChar
	case scanner.String:
		return SymString
	case scanner.RawString:
		return SymRawString
	case scanner.Comment:
		return SymComment
	default:
		return table.Sym(tok)
	}
}

// StdLexer is a single-lex-state default implementation backed by the
// standard library's text/scanner, adapted from the teacher's StdScanner
// (lr/glr/glr.go). It ignores the requested lex state (there is only one)
// — grammars needing mode-switching lexing should use MachineLexer.
type StdLexer struct {
	src     string
	pos     uint32
	scan    scanner.Scanner
	started bool
}

var _ Lexer = (*StdLexer)(nil)

// NewStdLexer creates a lexer with no input loaded yet; call SetInput
// before the first Start/Finish cycle.
func NewStdLexer() *StdLexer {
	return &StdLexer{}
}

// SetInput loads new source text and resets position to 0.
func (l *StdLexer) SetInput(input string) {
	l.src = input
	l.pos = 0
	l.initScanner()
}

func (l *StdLexer) initScanner() {
	l.scan = scanner.Scanner{}
	l.scan.Init(strings.NewReader(l.src[l.pos:]))
	l.scan.Filename = "input"
	l.scan.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanChars | scanner.ScanComments
}

// Reset repositions the lexer to a character offset.
func (l *StdLexer) Reset(position uint32) {
	l.pos = position
	if int(l.pos) > len(l.src) {
		l.pos = uint32(len(l.src))
	}
	l.initScanner()
}

// Start begins a scan; lex state is ignored (single-mode lexer).
func (l *StdLexer) Start(_ table.LexState) {
	l.started = true
}

// Finish scans exactly one token and returns it.
func (l *StdLexer) Finish() Result {
	if !l.started {
		l.Start(0)
	}
	l.started = false
	before := l.scan.Pos().Offset
	tok := l.scan.Scan()
	if tok == scanner.EOF {
		return Result{Symbol: table.EOFSym}
	}
	// Position is the start of the token Scan just returned (distinct
	// from Pos(), which is the position right after it) — the gap
	// between before and tokStart is exactly the whitespace/comment run
	// Scan skipped to get there.
	tokStart := l.scan.Position.Offset
	after := l.scan.Pos().Offset
	padding := tokStart - before
	size := after - tokStart
	if size == 0 {
		size = len(l.scan.TokenText())
	}
	return Result{
		Symbol:  stdSymbol(tok),
		Padding: uint32(padding),
		Size:    uint32(size),
	}
}
