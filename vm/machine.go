// Package vm implements the execution engine (spec §3 "Execution Engine",
// §4 "Operational Semantics"): the operand stack, the frame stack, the
// dispatch loop, and the call protocol that ties functions, modules, and
// values together at runtime.
package vm

import (
	"ember/gc"
	"ember/lang/function"
	"ember/lang/module"
	"ember/lang/value"
)

// Machine is a single stack machine: one shared operand stack and one
// frame stack, driven by a dispatch loop (run). A chunk call issued from
// inside a chunk (OpCall) starts a nested run loop via Call and invoke, so
// the host's Go call stack grows with the depth of nested chunk calls.
type Machine struct {
	arena        *gc.Arena
	operandStack *OperandStack
	frames       []*Frame
}

// NewMachine returns an empty machine allocating through a.
func NewMachine(a *gc.Arena) *Machine {
	return &Machine{arena: a, operandStack: NewOperandStack()}
}

// NewMachineWithHint is NewMachine but pre-sizes the operand stack's
// backing slice to operandStackHint, per a host's configured sizing hint.
func NewMachineWithHint(a *gc.Arena, operandStackHint int) *Machine {
	return &Machine{arena: a, operandStack: NewOperandStackWithCapacity(operandStackHint)}
}

// OperandStack exposes the machine's shared operand stack, e.g. so a host
// driver can push the entry function and its arguments before calling
// Call, or externals can push/pop values mid-call.
func (m *Machine) OperandStack() *OperandStack { return m.operandStack }

// FrameDepth reports how many call frames are currently live. A host's
// diagnostics sink reads this after a failed Invoke/Call to attribute a
// dispatch error to the depth it occurred at (frames are left on the
// stack when exec returns an error, so this reflects the depth at the
// point of failure, not after unwinding).
func (m *Machine) FrameDepth() int { return len(m.frames) }

// Invoke runs fn with args as a fresh top-level call and returns its
// single result value, per spec §4.3's call protocol. This is the entry
// point a host driver uses to run an entry-point chunk function or call
// an external directly, without hand-assembling operand-stack pushes.
func (m *Machine) Invoke(fn *function.Function, args []value.Value) (value.Value, error) {
	if err := m.invoke(fn, args); err != nil {
		return value.Value{}, err
	}
	return m.operandStack.PopValue()
}

// Call implements the Call(arity) instruction (spec §4.3): pop arity
// values as arguments, pop one Fn/Method operand as the callee, arity
// check, then dispatch to a chunk (push a frame and run to completion) or
// an external (invoke natively and push its result). Used both as the
// OpCall instruction handler and as the machine's direct external API for
// a host that prefers operand-stack style invocation.
func (m *Machine) Call(arity uint8) error {
	args := make([]value.Value, arity)
	for i := int(arity) - 1; i >= 0; i-- {
		v, err := m.operandStack.PopValue()
		if err != nil {
			return err
		}
		args[i] = v
	}
	fn, err := m.operandStack.PopCallable()
	if err != nil {
		return err
	}
	return m.invoke(fn, args)
}

func (m *Machine) invoke(fn *function.Function, args []value.Value) error {
	if int(fn.Arity) != len(args) {
		return errWrongArity(fn.Arity, uint8(len(args)))
	}
	if fn.Proto.IsChunk() {
		frame := NewFrame(m.arena, fn.Proto.Chunk, nil)
		for i, a := range args {
			if err := frame.locals.Set(i, a); err != nil {
				return err
			}
		}
		entryDepth := len(m.frames)
		m.frames = append(m.frames, frame)
		return m.run(entryDepth)
	}

	ext := fn.Proto.External
	result, err := ext.Fn(args)
	if err != nil {
		return err
	}
	m.operandStack.PushValue(result)
	return nil
}

// run drives the dispatch loop until the frame stack returns to
// entryDepth — i.e. until the frame this call pushed, and anything it in
// turn called, has fully completed.
func (m *Machine) run(entryDepth int) error {
	for len(m.frames) > entryDepth {
		top := m.frames[len(m.frames)-1]
		instr, ok := top.Step()
		if !ok {
			if top.produced == 0 {
				m.operandStack.PushValue(value.None())
			}
			m.frames = m.frames[:len(m.frames)-1]
			continue
		}
		if err := m.exec(top, instr); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) exec(f *Frame, instr function.Instr) error {
	switch instr.Op {
	case function.OpPushValue:
		m.operandStack.PushValue(instr.Value)
		f.credit(1)
		return nil
	case function.OpPushMod:
		mod, _ := instr.Owner.(*module.Module)
		m.operandStack.PushMod(mod)
		f.credit(1)
		return nil
	case function.OpPushFn:
		m.operandStack.PushFn(instr.Fn)
		f.credit(1)
		return nil
	case function.OpPop:
		if _, err := m.operandStack.Pop(); err != nil {
			return err
		}
		f.debit(1)
		return nil
	case function.OpPushVar:
		v, err := f.locals.Get(instr.Var)
		if err != nil {
			return err
		}
		m.operandStack.PushValue(v)
		f.credit(1)
		return nil
	case function.OpPopVar:
		v, err := m.operandStack.PopValue()
		if err != nil {
			return err
		}
		f.debit(1)
		return f.locals.Set(instr.Var, v)
	case function.OpAdd, function.OpSubtract, function.OpMultiply, function.OpDivide:
		return m.execArith(f, instr.Op)
	case function.OpCall:
		f.debit(int(instr.Arity) + 1)
		if err := m.Call(instr.Arity); err != nil {
			return err
		}
		f.credit(1)
		return nil
	default:
		return errInvalidOperandKind(OperandValue, OperandValue)
	}
}

func (m *Machine) execArith(f *Frame, op function.Op) error {
	rhs, err := m.operandStack.PopValue()
	if err != nil {
		return err
	}
	f.debit(1)
	lhs, err := m.operandStack.PopValue()
	if err != nil {
		return err
	}
	f.debit(1)
	result, err := arith(op, lhs, rhs)
	if err != nil {
		return err
	}
	m.operandStack.PushValue(result)
	f.credit(1)
	return nil
}

// arith implements spec §4.1's closure-and-typing rule: Integer paired
// with Integer stays Integer; any pairing involving Float widens to
// Float; anything non-numeric is TypeMismatch.
//
// Integer overflow wraps per Go's native two's-complement int64 semantics
// (undocumented by spec — an open question resolved here, see
// DESIGN.md). Integer division by zero is DivisionByZero (Go panics on
// the native operator, so it is guarded explicitly); float division by
// zero instead follows IEEE-754 defaults and never errors.
func arith(op function.Op, lhs, rhs value.Value) (value.Value, error) {
	if lhs.IsInteger() && rhs.IsInteger() {
		a, b := lhs.AsInteger(), rhs.AsInteger()
		switch op {
		case function.OpAdd:
			return value.Int(a + b), nil
		case function.OpSubtract:
			return value.Int(a - b), nil
		case function.OpMultiply:
			return value.Int(a * b), nil
		case function.OpDivide:
			if b == 0 {
				return value.Value{}, errDivisionByZero()
			}
			return value.Int(a / b), nil
		}
	}

	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return value.Value{}, errTypeMismatch()
	}
	switch op {
	case function.OpAdd:
		return value.Float(lf + rf), nil
	case function.OpSubtract:
		return value.Float(lf - rf), nil
	case function.OpMultiply:
		return value.Float(lf * rf), nil
	case function.OpDivide:
		return value.Float(lf / rf), nil
	}
	return value.Value{}, errTypeMismatch()
}

func asFloat(v value.Value) (float64, bool) {
	switch {
	case v.IsInteger():
		return float64(v.AsInteger()), true
	case v.IsFloat():
		return v.AsFloat(), true
	default:
		return 0, false
	}
}

// Trace visits the operand stack and every live frame, for GC rooting of
// the machine's own root set.
func (m *Machine) Trace(vis *gc.Visitor) {
	m.operandStack.Trace(vis)
	for _, f := range m.frames {
		f.Trace(vis)
	}
}
