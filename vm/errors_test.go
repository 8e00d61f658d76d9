package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ember/lang/ident"
)

func TestExecError_MessagesPerKind(t *testing.T) {
	cases := []struct {
		name string
		err  *ExecError
		want string
	}{
		{"empty stack", errEmptyOperandStack(), "empty operand stack"},
		{"invalid operand kind", errInvalidOperandKind(OperandValue, OperandFn), "invalid operand kind: expected Value, received Fn"},
		{"invalid var", errInvalidVar(3), "invalid variable: 3"},
		{"invalid parent", errInvalidParent(), "invalid parent"},
		{"wrong arity", errWrongArity(2, 1), "wrong arity: expected 2, received 1"},
		{"type mismatch", errTypeMismatch(), "type mismatch"},
		{"division by zero", errDivisionByZero(), "division by zero"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.err.Error())
		})
	}
}

func TestExecError_MethodNotFoundMessage(t *testing.T) {
	in := ident.NewInterner()
	err := errMethodNotFound(in.Intern("speak"))
	assert.Equal(t, "method not found: speak", err.Error())
}

func TestExecError_NilIsSafe(t *testing.T) {
	var err *ExecError
	assert.Equal(t, "vm: unknown error", err.Error())
}

func TestOperandKind_String(t *testing.T) {
	assert.Equal(t, "Mod", OperandMod.String())
	assert.Equal(t, "Fn", OperandFn.String())
	assert.Equal(t, "Method", OperandMethod.String())
	assert.Equal(t, "Value", OperandValue.String())
}
