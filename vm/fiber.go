package vm

import (
	"github.com/google/uuid"

	"ember/gc"
	"ember/lang/function"
	"ember/lang/value"
)

// Fiber aggregates a Machine with an identity for a logical thread of
// control (spec §2's dependency order: "machine... → fiber"). The core
// itself never logs or otherwise reports diagnostics — ID exists purely
// so a host driver can correlate log records (slog attribute "fiber_id")
// across calls into the same fiber; it never affects execution
// semantics.
type Fiber struct {
	ID uuid.UUID

	arena   *gc.Arena
	machine *Machine
}

// NewFiber creates a fiber with a fresh machine allocating through a.
func NewFiber(a *gc.Arena) *Fiber {
	return &Fiber{ID: uuid.New(), arena: a, machine: NewMachine(a)}
}

// NewFiberWithHint is NewFiber but pre-sizes the underlying machine's
// operand stack per a host's configured internal/config.Config.OperandStackHint.
func NewFiberWithHint(a *gc.Arena, operandStackHint int) *Fiber {
	return &Fiber{ID: uuid.New(), arena: a, machine: NewMachineWithHint(a, operandStackHint)}
}

// Machine returns the fiber's underlying machine.
func (f *Fiber) Machine() *Machine { return f.machine }

// FrameDepth reports the fiber's current call-frame depth, for host-side
// dispatch-error attribution (internal/hostio.DispatchError).
func (f *Fiber) FrameDepth() int { return f.machine.FrameDepth() }

// Invoke runs fn with args to completion on this fiber's machine and
// returns its single result value.
func (f *Fiber) Invoke(fn *function.Function, args []value.Value) (value.Value, error) {
	return f.machine.Invoke(fn, args)
}

// Trace visits this fiber's machine, for GC rooting.
func (f *Fiber) Trace(vis *gc.Visitor) {
	f.machine.Trace(vis)
}
