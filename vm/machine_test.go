package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember/gc"
	"ember/lang/function"
	"ember/lang/ident"
	"ember/lang/module"
	"ember/lang/value"
)

func buildArithChunk(a *gc.Arena, op function.Op, lhs, rhs value.Value) *function.Chunk {
	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushValue, Value: lhs})
	b.Append(function.Instr{Op: function.OpPushValue, Value: rhs})
	b.Append(function.Instr{Op: op})
	return b.Build(a)
}

func TestMachine_Invoke_IntegerArithmeticStaysInteger(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpAdd, value.Int(3), value.Int(4))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsInteger())
	assert.True(t, result.Equals(value.Int(7)))
}

func TestMachine_Invoke_MixedFloatWidens(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpMultiply, value.Int(2), value.Float(1.5))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsFloat())
	assert.Equal(t, 3.0, result.AsFloat())
}

func TestMachine_Invoke_NonNumericIsTypeMismatch(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpAdd, value.Bool(true), value.Int(1))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	_, err := m.Invoke(fn, nil)
	require.Error(t, err)
	execErr, ok := err.(*ExecError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeMismatch, execErr.Kind)
}

func TestMachine_Invoke_IntegerDivisionByZeroIsFatal(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpDivide, value.Int(1), value.Int(0))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	_, err := m.Invoke(fn, nil)
	require.Error(t, err)
	execErr, ok := err.(*ExecError)
	require.True(t, ok)
	assert.Equal(t, ErrDivisionByZero, execErr.Kind)
}

func TestMachine_Invoke_FloatDivisionByZeroFollowsIEEE754(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpDivide, value.Float(1), value.Float(0))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsFloat())
	assert.True(t, result.AsFloat() > 0)
	assert.Equal(t, "+Inf", result.Inspect())
}

// TestMachine_PushThenPop_LeavesStackUnchanged covers the stack-discipline
// property: PushValue(v) followed by Pop returns the stack to empty.
func TestMachine_PushThenPop_LeavesStackUnchanged(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(2)})
	b.Append(function.Instr{Op: function.OpPop})
	chunk := b.Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsNone())
	assert.Equal(t, 0, m.OperandStack().Len())
}

// TestMachine_PushValue covers spec §8 scenario A: a single PushValue
// with no other instructions leaves that value as the call's result.
func TestMachine_PushValue(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(2)})
	chunk := b.Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.Equals(value.Int(2)))
}

// TestMachine_MixedArithmeticSubtract covers spec §8 scenario E: Integer
// minus Float widens to Float and keeps sign.
func TestMachine_MixedArithmeticSubtract(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpSubtract, value.Int(2), value.Float(5.0))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsFloat())
	assert.Equal(t, -3.0, result.AsFloat())
}

// TestMachine_IntegerDivideTruncatesTowardZero covers spec §8 scenario F.
func TestMachine_IntegerDivideTruncatesTowardZero(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := buildArithChunk(a, function.OpDivide, value.Int(20), value.Int(6))
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsInteger())
	assert.True(t, result.Equals(value.Int(3)))
}

// TestMachine_ChunkCallLeavesResidualAsResult covers spec §8 scenario C: the
// caller's own stack already has a value, the callee's chunk discards its
// first operand-stack entry then pushes a fresh constant — the call's
// result is that residual, not anything left over from the caller.
func TestMachine_ChunkCallLeavesResidualAsResult(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPop})
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(3)})
	calleeChunk := b.Build(a)
	callee := function.NewChunkFunction(a, mod, in.Intern("callee"), 0, false, calleeChunk)

	m := NewMachine(a)
	m.OperandStack().PushValue(value.Int(2))
	m.OperandStack().PushFn(callee)
	require.NoError(t, m.Call(0))

	result, err := m.OperandStack().PopValue()
	require.NoError(t, err)
	assert.True(t, result.Equals(value.Int(3)))
	assert.Equal(t, 0, m.OperandStack().Len())
}

func TestMachine_Invoke_EmptyChunkReturnsNone(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := function.NewChunkBuilder().Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, nil)
	require.NoError(t, err)
	assert.True(t, result.IsNone())
}

func TestMachine_Invoke_WrongArityIsRejected(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := function.NewChunkBuilder().Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 2, false, chunk)

	m := NewMachine(a)
	_, err := m.Invoke(fn, []value.Value{value.Int(1)})
	require.Error(t, err)
	execErr, ok := err.(*ExecError)
	require.True(t, ok)
	assert.Equal(t, ErrWrongArity, execErr.Kind)
}

func TestMachine_Invoke_LocalVarReadWrite(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))

	b := function.NewChunkBuilder()
	v0 := b.NextVar()
	b.Append(function.Instr{Op: function.OpPushVar, Var: v0})
	b.Append(function.Instr{Op: function.OpPopVar, Var: v0})
	b.Append(function.Instr{Op: function.OpPushVar, Var: v0})
	chunk := b.Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("main"), 1, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(fn, []value.Value{value.Int(99)})
	require.NoError(t, err)
	assert.True(t, result.Equals(value.Int(99)))
}

// TestMachine_Call_CalleePushedBeforeArgs exercises the call protocol
// directly at the operand-stack level (spec §4.3): push the callee, then
// arguments in order, then issue Call(arity).
func TestMachine_Call_CalleePushedBeforeArgs(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	double := function.NewExternalFunction(a, mod, in.Intern("double"), 1, false, &function.External{
		Fn: func(args []value.Value) (value.Value, error) {
			return value.Int(args[0].AsInteger() * 2), nil
		},
	})

	m := NewMachine(a)
	m.OperandStack().PushFn(double)
	m.OperandStack().PushValue(value.Int(21))
	require.NoError(t, m.Call(1))

	result, err := m.OperandStack().PopValue()
	require.NoError(t, err)
	assert.True(t, result.Equals(value.Int(42)))
}

func TestMachine_Invoke_CallsExternalFromChunk(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	doubleID := in.Intern("double")
	double := function.NewExternalFunction(a, mod, doubleID, 1, false, &function.External{
		Fn: func(args []value.Value) (value.Value, error) {
			return value.Int(args[0].AsInteger() * 2), nil
		},
	})

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushFn, Fn: double})
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(3)})
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(4)})
	b.Append(function.Instr{Op: function.OpAdd})
	b.Append(function.Instr{Op: function.OpCall, Arity: 1})
	chunk := b.Build(a)
	mainFn := function.NewChunkFunction(a, mod, in.Intern("main"), 0, false, chunk)

	m := NewMachine(a)
	result, err := m.Invoke(mainFn, nil)
	require.NoError(t, err)
	assert.True(t, result.Equals(value.Int(14)))
}

func TestMachine_Trace_ReachesOperandStack(t *testing.T) {
	a := gc.NewArena()
	tup := value.NewTuple(a, []value.Value{value.Int(1)})

	m := NewMachine(a)
	m.OperandStack().PushValue(value.FromObject(tup))

	vis := gc.NewVisitor()
	m.Trace(vis)
	assert.True(t, vis.Marked(tup))
}
