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

func TestClosureObject_InspectAndIdentity(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := function.NewChunkBuilder().Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("f"), 0, false, chunk)

	closure := NewClosureObject(a, fn, nil)
	assert.Equal(t, "Closure", closure.Kind())
	assert.Equal(t, "<closure f>", closure.Inspect())
	assert.NotZero(t, closure.Identity())
}

func TestClosureObject_TraceReachesFunctionAndCapturedChain(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := function.NewChunkBuilder().Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("f"), 0, false, chunk)

	scope := NewScope(a, 1)
	require.NoError(t, scope.Set(0, value.Int(1)))
	captured := NewCapturedScope(nil, 1, scope)

	closure := NewClosureObject(a, fn, captured)
	vis := gc.NewVisitor()
	vis.Visit(closure)
	assert.True(t, vis.Marked(fn))
	assert.True(t, vis.Marked(captured))
}

func TestClosureObject_AsValue(t *testing.T) {
	a := gc.NewArena()
	in := ident.NewInterner()
	mod := module.New(in.Intern("root"))
	chunk := function.NewChunkBuilder().Build(a)
	fn := function.NewChunkFunction(a, mod, in.Intern("f"), 0, false, chunk)

	closure := NewClosureObject(a, fn, nil)
	v := value.FromObject(closure)
	assert.True(t, v.IsObj())
	assert.Equal(t, closure, v.AsObject())
}
