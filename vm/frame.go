package vm

import (
	"ember/gc"
	"ember/lang/function"
	"ember/lang/value"
)

// Scope is a fixed-size, heap-shared vector of local variable slots (spec
// §3 "local scope... shared via a handle so closures can capture it").
// Backed by a gc.Cell so aliasing through a captured-scope chain goes
// through the same borrow discipline as any other shared interior-mutable
// cell.
type Scope struct {
	cell *gc.Cell[[]value.Value]
}

// NewScope allocates a scope of the given length, every slot initialized
// to None (spec §4.4: unset local slots read as the canonical empty
// value, not a placeholder Boolean).
func NewScope(a *gc.Arena, length int) *Scope {
	slots := make([]value.Value, length)
	for i := range slots {
		slots[i] = value.None()
	}
	return &Scope{cell: gc.NewCell(a, slots)}
}

// Get reads the slot at index, or InvalidVar if out of range.
func (s *Scope) Get(index int) (value.Value, error) {
	var result value.Value
	var outErr error
	s.cell.Borrow(func(slots []value.Value) {
		if index < 0 || index >= len(slots) {
			outErr = errInvalidVar(index)
			return
		}
		result = slots[index]
	})
	return result, outErr
}

// Set writes v into the slot at index, or InvalidVar if out of range.
func (s *Scope) Set(index int, v value.Value) error {
	var outErr error
	s.cell.BorrowMut(func(slots *[]value.Value) {
		if index < 0 || index >= len(*slots) {
			outErr = errInvalidVar(index)
			return
		}
		(*slots)[index] = v
	})
	return outErr
}

// Len reports the scope's fixed slot count.
func (s *Scope) Len() int {
	var n int
	s.cell.Borrow(func(slots []value.Value) { n = len(slots) })
	return n
}

// Trace visits every occupied slot, for GC rooting.
func (s *Scope) Trace(vis *gc.Visitor) {
	s.cell.Borrow(func(slots []value.Value) {
		for _, v := range slots {
			v.Trace(vis)
		}
	})
}

// CapturedScope is one link in a closure's captured-scope chain (spec §3
// "Closure"): its own head scope, plus a link to the enclosing captured
// scope it was formed inside, plus the number of variables of its own
// scope that were actually captured (capturedLen, for bounds-checking
// addressing separately from the full local scope length).
//
// Addressing (spec's resolved semantics, see DESIGN.md's "CapturedScope
// parent-counting" entry): walk `parents` parent links from this scope, then
// read/write the resulting level's own head scope. parents == 0 means no
// walk at all — it addresses this scope's own head scope directly, not
// its immediate parent.
type CapturedScope struct {
	parent      *CapturedScope
	capturedLen int
	scope       *Scope
}

// NewCapturedScope links scope as a new level on top of parent (parent may
// be nil for a closure with no enclosing captured scope).
func NewCapturedScope(parent *CapturedScope, capturedLen int, scope *Scope) *CapturedScope {
	return &CapturedScope{parent: parent, capturedLen: capturedLen, scope: scope}
}

func (c *CapturedScope) level(parents int) (*CapturedScope, error) {
	level := c
	for i := 0; i < parents; i++ {
		if level.parent == nil {
			return nil, errInvalidParent()
		}
		level = level.parent
	}
	return level, nil
}

// Get reads variable `v` at `parents` levels up the chain.
func (c *CapturedScope) Get(parents, v int) (value.Value, error) {
	level, err := c.level(parents)
	if err != nil {
		return value.Value{}, err
	}
	if v < 0 || v >= level.capturedLen {
		return value.Value{}, errInvalidVar(v)
	}
	return level.scope.Get(v)
}

// Set writes variable `v` at `parents` levels up the chain.
func (c *CapturedScope) Set(parents, v int, val value.Value) error {
	level, err := c.level(parents)
	if err != nil {
		return err
	}
	if v < 0 || v >= level.capturedLen {
		return errInvalidVar(v)
	}
	return level.scope.Set(v, val)
}

// Trace visits this level's own scope and recurses up the parent chain.
// Called by the Visitor itself (via vis.Visit) once per distinct
// CapturedScope reached, so it must not re-mark itself — it only walks
// outward from here.
func (c *CapturedScope) Trace(vis *gc.Visitor) {
	c.scope.Trace(vis)
	if c.parent != nil {
		vis.Visit(c.parent)
	}
}

// Frame is one call-frame activation record (spec §3 "Frame"): an
// instruction cursor into a chunk, the frame's own local scope, and the
// captured-scope chain it closes over (nil for a non-closure call).
type Frame struct {
	ip       int
	chunk    *function.Chunk
	locals   *Scope
	captured *CapturedScope

	// produced counts this frame's own net contribution to the shared
	// operand stack, tracked op-by-op as the dispatch loop executes this
	// frame's instructions (see Machine.exec's credit/debit calls) rather
	// than derived from a before/after stack-height snapshot. A snapshot
	// diff is ambiguous: a chunk that pops a pre-existing operand and then
	// pushes a fresh value of its own returns the height to exactly where
	// it started, even though it manifestly produced something (spec §8
	// scenario C). Floored at zero — popping beyond what this frame itself
	// pushed reaches into operands that predate the call and isn't this
	// frame's to "owe back". On frame exit, produced == 0 means the chunk
	// genuinely left nothing of its own behind, so the canonical empty
	// value is synthesized (spec §4.3).
	produced int
}

// credit records that this frame itself just pushed n operands.
func (f *Frame) credit(n int) { f.produced += n }

// debit records that this frame itself just popped n operands, floored at
// zero so popping into pre-existing (non-frame-owned) operands never goes
// negative.
func (f *Frame) debit(n int) {
	f.produced -= n
	if f.produced < 0 {
		f.produced = 0
	}
}

// NewFrame creates a frame over chunk with a fresh local scope, optionally
// closing over captured (nil for a plain top-level or non-closure call).
func NewFrame(a *gc.Arena, chunk *function.Chunk, captured *CapturedScope) *Frame {
	return &Frame{
		chunk:    chunk,
		locals:   NewScope(a, chunk.LocalScopeLen),
		captured: captured,
	}
}

// Step fetches the instruction at the frame's cursor and advances it.
// Returns ok == false once the chunk's instruction stream is exhausted.
func (f *Frame) Step() (function.Instr, bool) {
	instr, ok := f.chunk.Instr(f.ip)
	if !ok {
		return function.Instr{}, false
	}
	f.ip++
	return instr, true
}

// Trace visits the frame's own chunk (rooting any heap-backed constants
// embedded in its instructions — see Chunk.Trace), local scope, and
// captured-scope chain.
func (f *Frame) Trace(vis *gc.Visitor) {
	if f.chunk != nil {
		vis.Visit(f.chunk)
	}
	f.locals.Trace(vis)
	if f.captured != nil {
		vis.Visit(f.captured)
	}
}
