/*
Package glr implements the incremental GLR parser driver: a version-
forking LR engine that, given a compiled table (package table) and a
character input, produces a concrete syntax tree (package tree),
optionally reusing unchanged subtrees from a previously-parsed tree.

The driver treats its parse stack (package stack), its lexer (package
lex) and its tree allocator (package tree) as external collaborators —
see each package's doc comment — and focuses purely on the control flow
described by lookahead.go (A), cursor.go (B), engine.go (C), breakdown.go
(D), errors.go (E), repair.go (F) and select.go (G).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glr

import (
	"fmt"

	"github.com/parsekit/glr/lex"
	"github.com/parsekit/glr/stack"
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// ErrorKind tags why Parse returned a nil tree (spec.md §7 error
// taxonomy — only the resource-failure and impossible-state cases ever
// surface this way; syntactic and lexer errors are recovered in-band and
// show up as error nodes in a returned tree instead).
type ErrorKind uint8

const (
	ErrNoAccept    ErrorKind = iota // every version died without accepting
	ErrResource                     // a stack/tree primitive failed, or the reduction budget was exhausted
	ErrImpossible                   // a malformed table entry was observed
)

// ParseError is returned alongside a nil tree for the failure cases of
// spec.md §7 that are not recoverable in-band.
type ParseError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("glr: %s", e.Detail)
}

// Config holds the ambient knobs every parser in this corpus carries —
// none of them are named by spec.md directly, but a driver with no way
// to plug in a debugger or bound pathological grammars would not be a
// complete library (SPEC_FULL.md §5).
type Config struct {
	startState      table.State
	debugger        *Debugger
	maxCycles       int
	reductionBudget int
	maxNodes        int
}

// Option configures a Parser at construction time.
type Option func(*Config)

// WithStartState overrides the LR state the initial stack version begins
// in (default 0).
func WithStartState(s table.State) Option {
	return func(c *Config) { c.startState = s }
}

// WithDebugger attaches a Debugger receiving structural events.
func WithDebugger(d *Debugger) Option {
	return func(c *Config) { c.debugger = d }
}

// WithMaxCycles bounds how many outer main-loop cycles (spec.md §5) a
// single Parse call may run before it is treated as a resource failure.
// Zero (the default) means unbounded.
func WithMaxCycles(n int) Option {
	return func(c *Config) { c.maxCycles = n }
}

// WithReductionBudget bounds how many candidate frames the error repair
// search (§4.F) may visit per reduce before giving up on that repair
// attempt as a resource failure rather than looping indefinitely over a
// malformed table. Zero (the default) means unbounded.
func WithReductionBudget(n int) Option {
	return func(c *Config) { c.reductionBudget = n }
}

// WithMaxNodes bounds how many internal (non-leaf) tree nodes a single
// Parse call may allocate via reduce and error repair, simulating the
// tree allocator's own resource failure (spec.md §7). Zero (the default)
// means unbounded.
func WithMaxNodes(n int) Option {
	return func(c *Config) { c.maxNodes = n }
}

// Parser drives one grammar (Language) over one input at a time; it is
// not safe for concurrent use by multiple goroutines (spec.md §1, §5 —
// "no thread safety of a single parser instance").
type Parser struct {
	lang *table.Language
	lex  lex.Lexer
	cfg  Config

	debugger *Debugger
	epsilon  *tree.Tree

	stack    *stack.Root
	finished *tree.Tree

	budgetExceeded bool
	nodesAllocated int
}

// nodeBudgetOK charges one internal-node allocation against cfg.maxNodes,
// reporting whether the parse may still create it. It sets the same
// budgetExceeded flag an exhausted reduction budget sets, so run's check
// after each consumeLookahead call surfaces it as the same resource
// failure (spec.md §7) regardless of which budget ran out.
func (p *Parser) nodeBudgetOK() bool {
	if p.cfg.maxNodes == 0 {
		return true
	}
	p.nodesAllocated++
	if p.nodesAllocated > p.cfg.maxNodes {
		p.budgetExceeded = true
		return false
	}
	return true
}

// NewParser creates a parser for lang, reading tokens from lexer.
func NewParser(lang *table.Language, lexer lex.Lexer, opts ...Option) *Parser {
	cfg := Config{startState: 0}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Parser{
		lang:     lang,
		lex:      lexer,
		cfg:      cfg,
		debugger: cfg.debugger,
		epsilon:  tree.NewLeaf(table.ErrorSym, 0, 0, table.INDEPENDENT, cfg.startState),
	}
	return p
}

// SetDebugger replaces the parser's Debugger (spec.md §6 set_debugger).
func (p *Parser) SetDebugger(d *Debugger) { p.debugger = d }

// Parse produces a tree for input (spec.md §6 parse). If previous is
// non-nil, it is consulted node-by-node for reuse (spec.md §1); nil
// performs a full parse from scratch. previous must already have had
// AssignParents run on it — true of any tree this function itself
// returned, and of nothing else.
func (p *Parser) Parse(input string, previous *tree.Tree) (*tree.Tree, error) {
	p.lex.SetInput(input)
	p.stack = stack.NewRoot(p.lang.Name, p.epsilon)
	p.finished = nil

	v := p.stack.NewVersion()
	if !p.stack.Push(v, p.epsilon, false, p.cfg.startState) {
		return nil, &ParseError{Kind: ErrResource, Detail: "failed to push initial stack frame"}
	}

	cursor := NewCursor(previous)
	if err := p.run(cursor); err != nil {
		return nil, err
	}
	if p.finished == nil {
		return nil, &ParseError{Kind: ErrNoAccept, Detail: "no version reached accept"}
	}
	tree.AssignParents(p.finished)
	return p.finished, nil
}

// run is the main loop of spec.md §5: each outer cycle computes the
// current maximum stack position, then walks every active version in
// index order, advancing each until its own position races past that
// cycle's maximum. Newly forked versions (from conflicts, recovery or
// error handling) simply appear later in ActiveVersions() and get their
// own turn within the same or a later cycle — nothing special is needed
// to schedule them.
func (p *Parser) run(cursor *Cursor) error {
	cycles := 0
	for {
		active := p.stack.ActiveVersions()
		if len(active) == 0 {
			return nil
		}
		cycles++
		if p.cfg.maxCycles > 0 && cycles > p.cfg.maxCycles {
			return &ParseError{Kind: ErrResource, Detail: "exceeded max parse cycles"}
		}

		var maxPos uint32
		for _, v := range active {
			if pos := p.stack.TopPosition(v); pos > maxPos {
				maxPos = pos
			}
		}

		for _, v := range active {
			for p.stack.IsActive(v) {
				if p.stack.TopPosition(v) > maxPos {
					break
				}
				la := p.getLookahead(v, cursor)
				result := p.consumeLookahead(v, la)
				if p.budgetExceeded {
					return &ParseError{Kind: ErrResource, Detail: "exceeded reduction or node allocation budget"}
				}
				if result != ConsumeUpdated {
					break
				}
			}
		}

		p.stack.Condense()
	}
}
