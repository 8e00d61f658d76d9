package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterner_InternIsIdempotent(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", a.String())
}

func TestInterner_DistinctNamesDistinctIdents(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotEqual(t, a, b)
}

func TestNewNumber_String(t *testing.T) {
	assert.Equal(t, "#0", NewNumber(0).String())
	assert.Equal(t, "#42", NewNumber(42).String())
}

func TestLess_StringOrdering(t *testing.T) {
	in := NewInterner()
	a := in.Intern("aaa")
	b := in.Intern("bbb")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestLess_NumberBeforeString(t *testing.T) {
	in := NewInterner()
	num := NewNumber(5)
	str := in.Intern("zzz")
	assert.True(t, num.Less(str))
	assert.False(t, str.Less(num))
}

func TestSorted_OrdersDeterministically(t *testing.T) {
	in := NewInterner()
	c := in.Intern("c")
	a := in.Intern("a")
	b := in.Intern("b")

	got := Sorted([]Ident{c, a, b})
	assert.Equal(t, []Ident{a, b, c}, got)
}
