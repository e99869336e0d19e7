package glr

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"

	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// tracer traces with key 'glr.parser', following the teacher's per-package
// tracer() convention (lr/glr/glr.go) instead of a package-global logger.
func tracer() tracing.Trace {
	return tracing.Select("glr.parser")
}

// Debugger receives structural events during a parse (§9 "Global state":
// logging and debug-graph emission are per-parser configurable callbacks,
// never process-wide state). A nil field is simply not called.
type Debugger struct {
	OnShift    func(version int, sym table.Sym, toState table.State)
	OnReduce   func(version int, sym table.Sym, count int, fragile bool)
	OnAccept   func(version int, t *tree.Tree)
	OnError    func(version int, state table.State)
	OnRepair   func(version int, sym table.Sym, skipCount int)
	OnBreakdown func(version int, sym table.Sym)
}

func (d *Debugger) shift(version int, sym table.Sym, toState table.State) {
	if d != nil && d.OnShift != nil {
		d.OnShift(version, sym, toState)
	}
}

func (d *Debugger) reduce(version int, sym table.Sym, count int, fragile bool) {
	if d != nil && d.OnReduce != nil {
		d.OnReduce(version, sym, count, fragile)
	}
}

func (d *Debugger) accept(version int, t *tree.Tree) {
	if d != nil && d.OnAccept != nil {
		d.OnAccept(version, t)
	}
}

func (d *Debugger) error(version int, state table.State) {
	if d != nil && d.OnError != nil {
		d.OnError(version, state)
	}
}

func (d *Debugger) repair(version int, sym table.Sym, skipCount int) {
	if d != nil && d.OnRepair != nil {
		d.OnRepair(version, sym, skipCount)
	}
}

func (d *Debugger) breakdown(version int, sym table.Sym) {
	if d != nil && d.OnBreakdown != nil {
		d.OnBreakdown(version, sym)
	}
}

// NewPrettyDebugger builds a Debugger that renders events with pterm,
// intended for cmd/glrepl and for interactive debugging sessions — the
// ambient colored-console counterpart to the teacher's tracing output.
func NewPrettyDebugger(lang *table.Language) *Debugger {
	d := &Debugger{}
	d.OnShift = func(version int, sym table.Sym, toState table.State) {
		pterm.Debug.Printfln("v%d: shift %s -> state %d", version, lang.SymbolName(sym), toState)
	}
	d.OnReduce = func(version int, sym table.Sym, count int, fragile bool) {
		label := lang.SymbolName(sym)
		if fragile {
			pterm.Warning.Printfln("v%d: reduce %s/%d (fragile)", version, label, count)
		} else {
			pterm.Info.Printfln("v%d: reduce %s/%d", version, label, count)
		}
	}
	d.OnAccept = func(version int, t *tree.Tree) {
		pterm.Success.Printfln("v%d: accept %s", version, fmt.Sprint(t))
	}
	d.OnError = func(version int, state table.State) {
		pterm.Error.Printfln("v%d: syntax error at state %d", version, state)
	}
	d.OnRepair = func(version int, sym table.Sym, skipCount int) {
		pterm.Info.Printfln("v%d: repaired via %s, skipped %d", version, lang.SymbolName(sym), skipCount)
	}
	d.OnBreakdown = func(version int, sym table.Sym) {
		pterm.Debug.Printfln("v%d: broke down %s", version, lang.SymbolName(sym))
	}
	return d
}
