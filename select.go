package glr

import "github.com/parsekit/glr/tree"

// Select implements the tree-selection rule of spec.md §4.G: given the
// existing tree and a challenger covering the same span, reports whether
// the challenger should replace it. Smaller error_size wins outright; on
// a tie, the deterministic pre-order structural comparison breaks it
// (the structurally "lower" tree under tree.Compare wins); full equality
// keeps the existing tree. This is the only disambiguation policy in the
// engine, and the only reason two valid parses of an ambiguous grammar
// ever produce different trees.
func Select(existing, challenger *tree.Tree) bool {
	if existing == nil {
		return true
	}
	if challenger == nil {
		return false
	}
	if existing.ErrorSize != challenger.ErrorSize {
		return challenger.ErrorSize < existing.ErrorSize
	}
	return tree.Compare(existing, challenger) > 0
}
