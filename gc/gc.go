// Package gc specifies the rooting/tracing contract the runtime core relies
// on. It does not implement a tracing collector — per spec, the collector
// itself is an external collaborator. What lives here is the shape every
// heap-backed value in lang/value, lang/module, lang/function and vm must
// conform to so that a real mark-and-sweep (or mark-and-compact) collector
// can enumerate every live reference reachable from a fiber's stacks.
package gc

import (
	"fmt"
	"sync/atomic"
)

// Arena is the ambient allocator passed into constructors that create
// GC-managed cells. The present implementation delegates actual memory
// management to the host Go runtime's own collector; Arena exists so that
// call sites match the spec's constructor shapes (`new_chunk(arena, ...)`,
// `Scope.new(arena, ...)`) and so a future tracing collector has a single
// seam to hook into without changing any call site.
type Arena struct {
	id       uint64
	allocs   int64
	handleID uint64
}

var arenaSeq uint64

// NewArena creates a fresh arena. Arenas are cheap; a host typically owns
// exactly one for the lifetime of a program.
func NewArena() *Arena {
	return &Arena{id: atomic.AddUint64(&arenaSeq, 1)}
}

// Handle hands out a monotonically increasing id, used as the per-object
// identity behind heap-value equality (lang/value's Object.Identity). It
// carries no collection semantics.
func (a *Arena) Handle() uint64 {
	return atomic.AddUint64(&a.handleID, 1)
}

// Traceable is implemented by every heap-backed object the core allocates.
// Trace must call visitor.Visit on every Traceable it directly references,
// so that a mark phase starting from the roots named in the rooting
// contract below reaches the full live set, cycles included.
type Traceable interface {
	Trace(v *Visitor)
}

// Visitor accumulates the traced set during a mark pass. It is supplied by
// whatever external collector drives collection; the core only ever calls
// Visit, never inspects the accumulated set itself.
type Visitor struct {
	seen map[Traceable]struct{}
}

// NewVisitor returns a Visitor ready to mark from a set of roots.
func NewVisitor() *Visitor {
	return &Visitor{seen: make(map[Traceable]struct{})}
}

// Visit marks obj and, if this is its first visit, recurses into it. Returns
// true if obj was newly marked (useful for callers that want to count the
// live set without building their own visited-set bookkeeping).
func (vis *Visitor) Visit(obj Traceable) bool {
	if obj == nil {
		return false
	}
	if _, ok := vis.seen[obj]; ok {
		return false
	}
	vis.seen[obj] = struct{}{}
	obj.Trace(vis)
	return true
}

// Marked reports whether obj has already been reached by this pass.
func (vis *Visitor) Marked(obj Traceable) bool {
	_, ok := vis.seen[obj]
	return ok
}

// Len returns how many distinct objects this pass has reached so far.
func (vis *Visitor) Len() int {
	return len(vis.seen)
}

// borrowState tracks the single-writer/multi-reader discipline a Cell
// enforces. It is not a concurrency primitive — the core's execution model
// is single-threaded (spec §5) — it exists purely to turn a
// borrow-while-already-borrowed programmer error into an immediate panic
// instead of silent data corruption, mirroring the GC-aware RefCell the
// design notes call for.
type borrowState struct {
	readers int
	writer  bool
}

// Cell is a GC-rooted, interior-mutable slot. It is the Go analogue of the
// Gc<RefCell<T>> shape every heap value in the original design wraps: a
// stable identity (for pointer/identity equality and GC tracing) around a
// mutable payload.
type Cell[T any] struct {
	handle uint64
	value  T
	borrow borrowState
}

// NewCell allocates a new cell holding v.
func NewCell[T any](a *Arena, v T) *Cell[T] {
	return &Cell[T]{handle: a.Handle(), value: v}
}

// Handle returns a stable per-cell identity, usable for Hash()/Inspect()
// implementations that need a cheap, deterministic-within-a-run identity.
func (c *Cell[T]) Handle() uint64 {
	return c.handle
}

// Borrow calls f with shared read access to the cell's value. Any number of
// shared borrows may be outstanding at once; a concurrent exclusive borrow
// is a programmer error and panics.
func (c *Cell[T]) Borrow(f func(v T)) {
	if c.borrow.writer {
		panic(fmt.Sprintf("gc: cell %d already mutably borrowed", c.handle))
	}
	c.borrow.readers++
	defer func() { c.borrow.readers-- }()
	f(c.value)
}

// BorrowMut calls f with exclusive write access to the cell's value. Any
// outstanding borrow (shared or exclusive) is a programmer error and
// panics.
func (c *Cell[T]) BorrowMut(f func(v *T)) {
	if c.borrow.writer || c.borrow.readers > 0 {
		panic(fmt.Sprintf("gc: cell %d already borrowed", c.handle))
	}
	c.borrow.writer = true
	defer func() { c.borrow.writer = false }()
	f(&c.value)
}

// Get is a convenience for the common case of copying out a small value
// under a shared borrow.
func (c *Cell[T]) Get() T {
	var out T
	c.Borrow(func(v T) { out = v })
	return out
}

// Set is a convenience for replacing the held value wholesale under an
// exclusive borrow.
func (c *Cell[T]) Set(v T) {
	c.BorrowMut(func(cur *T) { *cur = v })
}
