/*
glrepl is a small interactive driver over a toy arithmetic-expression
grammar, demonstrating incremental reparsing: each line you enter is
parsed by reusing whatever the previous line's tree has in common with
it, the way an editor would feed successive buffer states to the same
parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/timtadh/lexmachine"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/parsekit/glr"
	"github.com/parsekit/glr/lex"
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// Toy grammar: E -> E ('+'|'-') (id|number) | (id|number). Structurally
// identical to the hand-verified one in the package's own test suite
// (testgrammar_test.go), just with two operators and two operand kinds
// registered at the same states instead of one of each, so a REPL user
// can type things like "a+1-b" and "x+y".
const (
	symE table.Sym = -1000

	stateStart table.State = 0
	stateAtom  table.State = 1
	stateE     table.State = 2
	stateOp    table.State = 3
	stateAtom2 table.State = 4
)

func buildGrammar() *table.Language {
	b := table.NewBuilder("expr")
	b.Symbol(lex.SymIdent, "id", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(lex.SymInt, "number", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(table.Sym('+'), "+", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(table.Sym('-'), "-", table.SymbolMetadata{Structural: true, Visible: true})
	b.Symbol(symE, "E", table.SymbolMetadata{Structural: true, Visible: true, Named: true})

	operands := []table.Sym{lex.SymIdent, lex.SymInt}
	operators := []table.Sym{table.Sym('+'), table.Sym('-')}
	followOfE := append(append([]table.Sym{}, operators...), table.EOFSym)

	for _, op := range operands {
		b.Action(stateStart, op, table.Shift(stateAtom, false))
		b.Action(stateOp, op, table.Shift(stateAtom2, false))
	}
	b.Action(stateStart, symE, table.Shift(stateE, false)) // GOTO(stateStart, E)

	for _, sym := range followOfE {
		b.Action(stateAtom, sym, table.Reduce(symE, 1, false, false, false))
		b.Action(stateAtom2, sym, table.Reduce(symE, 3, false, false, false))
	}

	for _, op := range operators {
		b.Action(stateE, op, table.Shift(stateOp, false))
	}
	b.Action(stateE, table.EOFSym, table.Accept)

	return b.Build()
}

// buildLexer compiles a single-lex-state lexmachine lexer for the toy
// grammar (lex.MachineLexer rather than lex.StdLexer — this REPL is the
// package's demonstrated caller for the lexmachine-backed adapter, the
// way the teacher's own trepl used a hand-assembled lexer for its own toy
// grammar).
func buildLexer() (*lex.MachineLexer, error) {
	return lex.NewMachineLexer(map[table.LexState]lex.StateBuilder{
		0: func(lx *lexmachine.Lexer) error {
			lx.Add([]byte(`( |\t)+`), lex.Skip)
			lx.Add([]byte(`[a-zA-Z][a-zA-Z0-9]*`), lex.MakeToken(int(lex.SymIdent)))
			lx.Add([]byte(`[0-9]+`), lex.MakeToken(int(lex.SymInt)))
			lx.Add([]byte(`\+`), lex.MakeToken(int(table.Sym('+'))))
			lx.Add([]byte(`\-`), lex.MakeToken(int(table.Sym('-'))))
			return nil
		},
	})
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	gtrace.SyntaxTracer.SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	initDisplay()
	pterm.Info.Println("Welcome to glrepl — type an expression, <ctrl>D to quit")

	lang := buildGrammar()
	lexer, err := buildLexer()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	p := glr.NewParser(lang, lexer, glr.WithDebugger(glr.NewPrettyDebugger(lang)))

	repl, err := readline.New("glr> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	defer repl.Close()

	var previous *tree.Tree
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		result, err := p.Parse(line, previous)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		printTree(lang, result)
		previous = result
	}
	pterm.Info.Println("Good bye!")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: "  >>", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: "  Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
}

// printTree renders t with pterm's leveled-list tree widget, following the
// teacher's own indentedListFrom/leveledElem pattern (terex/terexlang/trepl)
// rather than building pterm.TreeNode values by hand.
func printTree(lang *table.Language, t *tree.Tree) {
	ll := leveledTree(lang, t, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledTree(lang *table.Language, t *tree.Tree, ll pterm.LeveledList, level int) pterm.LeveledList {
	label := lang.SymbolName(t.Symbol)
	if t.IsError {
		label = fmt.Sprintf("ERROR(%d)", t.Size)
	}
	if t.ErrorSize > 0 {
		label = fmt.Sprintf("%s [error_size=%d]", label, t.ErrorSize)
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: label})
	for _, c := range t.Children {
		ll = leveledTree(lang, c, ll, level+1)
	}
	return ll
}
