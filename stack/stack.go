/*
Package stack implements the GSS (graph-structured stack) primitives the
GLR driver treats as an external collaborator (spec.md §1, §6): a set of
"versions", each a stack of (state, tree) frames, that the driver can push
onto, pop from, fork, and merge back together.

Design Notes (SPEC_FULL.md §3 Open Question): this implementation models
each version as a persistent, copy-on-write linked list of frames rather
than a true fan-in DAG with multiple predecessor paths per node. Versions
that fork (DuplicateVersion) share their existing tail by pointer and only
diverge once one of them is pushed to or popped from; Merge/Condense
collapse versions whose top frame is pointer-identical. Every operation
§6 lists is implemented; the simplification only removes the ability to
enumerate more than one predecessor path through a single frame, which the
driver never needs — reduce and repair search always walk one version's
own history (see glr/repair.go).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package stack

import (
	"github.com/parsekit/glr/table"
	"github.com/parsekit/glr/tree"
)

// frame is one (state, tree) entry in a version's persistent stack.
type frame struct {
	state    table.State
	t        *tree.Tree
	pending  bool // composite tree pushed after another pending tree (§4.D)
	position uint32
	parent   *frame
}

// PopStatus is the tagged result of a pop operation (§6 StackPopStatus).
type PopStatus uint8

const (
	PopOk PopStatus = iota
	PopStoppedAtError
	PopFailed
)

// Slice is the (version, trees) pair a pop operation yields: the popped
// children, left-to-right (§3 "Stack slice").
type Slice struct {
	Version int
	Trees   []*tree.Tree
}

// IterateAction is the bitmask a repair-search callback (§4.F) returns
// from Iterate to request that the current prefix be popped into a slice,
// that iteration stop, both, or neither.
type IterateAction uint8

const (
	IterNone IterateAction = 0
	IterPop  IterateAction = 1 << 0
	IterStop IterateAction = 1 << 1
)

// Root owns every version created under one parse run (dss.NewRoot in the
// teacher). A parse always starts a fresh Root.
type Root struct {
	Name    string
	tops    []*frame
	active  []bool
	epsilon *tree.Tree
}

// NewRoot creates an empty GSS root. epsilon is pushed as the placeholder
// tree under the start state (mirrors the teacher's dss.NewRoot(name,
// epsilonSymbolValue) / start.Push(stateID, epsilon) pattern).
func NewRoot(name string, epsilon *tree.Tree) *Root {
	return &Root{Name: name, epsilon: epsilon}
}

// NewVersion creates a new, empty version and returns its id.
func (r *Root) NewVersion() int {
	r.tops = append(r.tops, nil)
	r.active = append(r.active, true)
	return len(r.tops) - 1
}

// VersionCount returns how many version slots exist, including dead ones.
func (r *Root) VersionCount() int {
	return len(r.tops)
}

// ActiveVersions returns the ids of all live versions, in index order.
func (r *Root) ActiveVersions() []int {
	out := make([]int, 0, len(r.tops))
	for i, ok := range r.active {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// IsActive reports whether version v is still live.
func (r *Root) IsActive(v int) bool {
	return v >= 0 && v < len(r.active) && r.active[v]
}

// TopState returns the state on top of version v, or table.StateError if
// the version is empty or dead.
func (r *Root) TopState(v int) table.State {
	f := r.frameAt(v)
	if f == nil {
		return table.StateError
	}
	return f.state
}

// TopPosition returns the input character offset immediately after the
// last tree pushed onto version v (0 if empty).
func (r *Root) TopPosition(v int) uint32 {
	f := r.frameAt(v)
	if f == nil {
		return 0
	}
	return f.position
}

// TopTree returns the tree on top of version v, or nil.
func (r *Root) TopTree(v int) *tree.Tree {
	f := r.frameAt(v)
	if f == nil {
		return nil
	}
	return f.t
}

func (r *Root) frameAt(v int) *frame {
	if !r.IsActive(v) {
		return nil
	}
	return r.tops[v]
}

// Push pushes t onto version v in the given state, marking it pending if
// is_pending is true (§4.D: composite trees pushed after another pending
// tree stay eligible for breakdown). Returns false if v is dead.
func (r *Root) Push(v int, t *tree.Tree, isPending bool, state table.State) bool {
	if !r.IsActive(v) {
		return false
	}
	var parent *frame
	var pos uint32
	if v < len(r.tops) {
		parent = r.tops[v]
	}
	if parent != nil {
		pos = parent.position
	}
	t.Retain()
	r.tops[v] = &frame{
		state:    state,
		t:        t,
		pending:  isPending,
		position: pos + t.TotalChars(),
		parent:   parent,
	}
	return true
}

// PopCount pops n frames from version v, left to right in the returned
// slice. If an error-state frame (table.StateError) is encountered before
// n frames are collected, popping stops there and PopStoppedAtError is
// returned together with whatever was collected above the boundary — the
// caller (engine.go's Reduce) uses this to trigger error repair (§4.F).
func (r *Root) PopCount(v int, n int) (PopStatus, []Slice) {
	if !r.IsActive(v) {
		return PopFailed, nil
	}
	f := r.tops[v]
	trees := make([]*tree.Tree, 0, n)
	for i := 0; i < n; i++ {
		if f == nil {
			return PopFailed, nil
		}
		if f.state == table.StateError {
			reverse(trees)
			r.tops[v] = f
			return PopStoppedAtError, []Slice{{Version: v, Trees: trees}}
		}
		trees = append(trees, f.t)
		f = f.parent
	}
	reverse(trees)
	r.tops[v] = f
	return PopOk, []Slice{{Version: v, Trees: trees}}
}

// DropErrorBoundary replaces v's current top frame with the frame below
// it, for the one caller (glr/repair.go) that receives v sitting exactly
// on the synthetic error-boundary marker PopCount stops on (the frame
// handleError pushed at table.StateError). Error repair search inspects
// "the stack below the error boundary" (§4.F Search), not the marker
// itself, so the search must start one frame past it. Reports false
// without modifying anything if v's top isn't at table.StateError.
func (r *Root) DropErrorBoundary(v int) bool {
	if !r.IsActive(v) {
		return false
	}
	f := r.tops[v]
	if f == nil || f.state != table.StateError {
		return false
	}
	r.tops[v] = f.parent
	return true
}

// PopPending pops frames from the top of version v while they are marked
// pending, stopping at (and not including) the first non-pending frame.
// Used by breakdown.go (§4.D) to strip a run of composite trees off the
// top of the stack.
func (r *Root) PopPending(v int) (PopStatus, []Slice) {
	if !r.IsActive(v) {
		return PopFailed, nil
	}
	f := r.tops[v]
	var trees []*tree.Tree
	for f != nil && f.pending {
		trees = append(trees, f.t)
		f = f.parent
	}
	reverse(trees)
	r.tops[v] = f
	return PopOk, []Slice{{Version: v, Trees: trees}}
}

// PopAll pops every frame from version v, returning them left to right.
func (r *Root) PopAll(v int) []Slice {
	if !r.IsActive(v) {
		return nil
	}
	f := r.tops[v]
	var trees []*tree.Tree
	for f != nil {
		trees = append(trees, f.t)
		f = f.parent
	}
	reverse(trees)
	r.tops[v] = nil
	return []Slice{{Version: v, Trees: trees}}
}

// Iterate walks version v's frames from the top downward without
// modifying the stack, calling cb at each frame with the state recorded
// at that frame and the trees visited so far. soFar[0] is always the
// tree at the current depth (the frame just visited); soFar[len(soFar)-1]
// is the first frame visited (depth 0, nearest the top) — so soFar reads
// left-to-right in the same oldest-first order the trees originally
// occupied on the stack. cb's returned IterateAction controls whether the
// current prefix is collected into a result slice (IterPop) and/or
// iteration halts (IterStop). This backs the error-repair search of
// §4.F, which needs to inspect (not consume) the stack below an error
// boundary while searching for a viable repair depth.
func (r *Root) Iterate(v int, cb func(depth int, state table.State, soFar []*tree.Tree) IterateAction) (PopStatus, []Slice) {
	if !r.IsActive(v) {
		return PopFailed, nil
	}
	var slices []Slice
	var collected []*tree.Tree
	f := r.tops[v]
	depth := 0
	for f != nil {
		collected = append([]*tree.Tree{f.t}, collected...)
		action := cb(depth, f.state, collected)
		if action&IterPop != 0 {
			cp := append([]*tree.Tree(nil), collected...)
			slices = append(slices, Slice{Version: v, Trees: cp})
		}
		if action&IterStop != 0 {
			break
		}
		f = f.parent
		depth++
	}
	return PopOk, slices
}

// DuplicateVersion forks version v: the new version shares v's current
// frame chain by pointer (no copy) and diverges only once it is pushed to
// or popped from independently. Mirrors stack.Fork() in the teacher.
func (r *Root) DuplicateVersion(v int) int {
	nv := r.NewVersion()
	if r.IsActive(v) {
		r.tops[nv] = r.tops[v]
	}
	return nv
}

// RenumberVersion moves src's frame chain onto dst's slot and marks src
// dead. Used when a reduction's resulting version should become the
// caller's version slot (§4.C "renumber it onto the caller's version
// slot").
func (r *Root) RenumberVersion(src, dst int) {
	if !r.IsActive(src) {
		return
	}
	r.ensure(dst)
	r.tops[dst] = r.tops[src]
	r.active[dst] = true
	if src != dst {
		r.tops[src] = nil
		r.active[src] = false
	}
}

// RemoveVersion marks v dead. Its frame chain remains reachable from any
// other version that still shares part of it (Go's GC reclaims the rest).
func (r *Root) RemoveVersion(v int) {
	if v >= 0 && v < len(r.active) {
		r.active[v] = false
		r.tops[v] = nil
	}
}

// Merge collapses b into a if both versions currently sit on the
// identical frame object (same pointer) — i.e. their entire histories
// from this point down are indistinguishable. Returns true if a merge
// happened (b is then dead).
func (r *Root) Merge(a, b int) bool {
	if !r.IsActive(a) || !r.IsActive(b) || a == b {
		return false
	}
	if r.tops[a] == r.tops[b] {
		r.RemoveVersion(b)
		return true
	}
	return false
}

// MergeFrom merges every version with index >= startVersionCount into an
// earlier, structurally-identical version, in ascending order. Used after
// a fan-out (e.g. the error handler's extra versions, §4.E) to collapse
// the group back down.
func (r *Root) MergeFrom(startVersionCount int) {
	for v := startVersionCount; v < len(r.tops); v++ {
		if !r.active[v] {
			continue
		}
		for u := 0; u < startVersionCount; u++ {
			if r.active[u] && r.Merge(u, v) {
				break
			}
		}
	}
}

// Condense scans all active versions for duplicate top frames (pointer
// identity) and merges them, matching the main loop's "between cycles,
// the stack is condensed (duplicate tops merged)" (spec.md §2 data flow).
// Returns true if anything changed.
func (r *Root) Condense() bool {
	changed := false
	active := r.ActiveVersions()
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if r.Merge(active[i], active[j]) {
				changed = true
			}
		}
	}
	return changed
}

// Clear drops every version. The Root can be reused for a new parse.
func (r *Root) Clear() {
	r.tops = nil
	r.active = nil
}

func (r *Root) ensure(v int) {
	for len(r.tops) <= v {
		r.tops = append(r.tops, nil)
		r.active = append(r.active, false)
	}
}

func reverse(ts []*tree.Tree) {
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}
