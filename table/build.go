package table

import "sort"

// Builder hand-assembles a Language a table-generator would otherwise
// produce. It exists for tests, for the REPL's toy expression grammar, and
// for any caller that already has a table (serialized elsewhere) and just
// wants to load it — the parser driver itself never builds tables, only
// consumes them (spec.md §1: "the build pipeline that produces the parse
// table is also out of scope").
type Builder struct {
	name      string
	lexStates map[State]LexState
	symbols   map[Sym]Symbol
	order     []Sym
	actions   *actionMatrix
}

// NewBuilder starts a new table under construction.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		lexStates: make(map[State]LexState),
		symbols:   make(map[Sym]Symbol),
		actions:   newActionMatrix(),
	}
}

// Symbol registers a symbol (terminal or nonterminal) with its metadata.
// Registering the same id twice overwrites the earlier registration.
func (b *Builder) Symbol(id Sym, name string, meta SymbolMetadata) *Builder {
	if _, seen := b.symbols[id]; !seen {
		b.order = append(b.order, id)
	}
	b.symbols[id] = Symbol{ID: id, Name: name, Meta: meta}
	return b
}

// LexState maps an LR state to the lex state the lexer should start in
// when that state is on top of the stack.
func (b *Builder) LexState(state State, ls LexState) *Builder {
	b.lexStates[state] = ls
	return b
}

// Action registers one action for (state, symbol). Registering more than
// one action for the same cell models a shift/reduce or reduce/reduce
// conflict; registering order is preserved (Actions()/LastAction() use it).
func (b *Builder) Action(state State, sym Sym, a ParseAction) *Builder {
	b.actions.add(state, sym, a)
	return b
}

// Build finalizes the table. The returned Language is immutable; further
// calls to the Builder do not affect it.
func (b *Builder) Build() *Language {
	order := append([]Sym(nil), b.order...)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	symbols := make(map[Sym]Symbol, len(b.symbols))
	for k, v := range b.symbols {
		symbols[k] = v
	}
	lexStates := make(map[State]LexState, len(b.lexStates))
	for k, v := range b.lexStates {
		lexStates[k] = v
	}
	actions := newActionMatrix()
	for k, v := range b.actions.cells {
		actions.set(k.state, k.sym, append([]ParseAction(nil), v...))
	}
	return &Language{
		Name:        b.name,
		lexStates:   lexStates,
		symbols:     symbols,
		symbolOrder: order,
		actions:     actions,
	}
}
