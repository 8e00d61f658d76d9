// Package value implements the tagged-union runtime value (spec §3
// "Value") and the field-access operations structs and enums expose (spec
// §4.6). Style is grounded on funvibe-funxy's internal/vm/value.go: a
// small stack-allocated struct (type tag + inline bits for primitives, an
// interface slot for heap objects) rather than boxing every primitive —
// adapted here to Ember's value set (Boolean/Integer/Float/String/Tuple/
// Struct/Enum/Closure/Optional) instead of funxy's (Nil/Int/Float/Bool/Obj).
package value

import (
	"fmt"
	"math"

	"ember/gc"
)

// Tag identifies which case of Value is held.
type Tag uint8

const (
	TagBoolean Tag = iota
	TagInteger
	TagFloat
	TagNone // the "none" case of Optional — a dedicated primitive, not an Object
	TagObj  // String, Tuple, Struct, Enum, Closure, or Optional-some
)

// Value is a stack-allocated tagged union. Primitives (Boolean, Integer,
// Float, None) never touch the heap; everything else holds a reference
// through Obj, which the GC traces when the Value itself is reachable from
// a root (operand stack slot, local scope slot, or captured scope slot).
type Value struct {
	tag  Tag
	bits uint64
	obj  Object
}

// Bool constructs a Boolean value.
func Bool(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{tag: TagBoolean, bits: bits}
}

// Int constructs an Integer value.
func Int(n int64) Value {
	return Value{tag: TagInteger, bits: uint64(n)}
}

// Float constructs a Float value.
func Float(f float64) Value {
	return Value{tag: TagFloat, bits: math.Float64bits(f)}
}

// None constructs the "none" case of Optional.
func None() Value {
	return Value{tag: TagNone}
}

// Some constructs the "some" case of Optional, wrapping inner.
func Some(a *gc.Arena, inner Value) Value {
	return FromObject(newSome(a, inner))
}

// FromObject wraps any heap Object as a Value.
func FromObject(o Object) Value {
	return Value{tag: TagObj, obj: o}
}

// IsBoolean, IsInteger, IsFloat, IsNone, IsObj report the value's tag.
func (v Value) IsBoolean() bool { return v.tag == TagBoolean }
func (v Value) IsInteger() bool { return v.tag == TagInteger }
func (v Value) IsFloat() bool   { return v.tag == TagFloat }
func (v Value) IsNone() bool    { return v.tag == TagNone }
func (v Value) IsObj() bool     { return v.tag == TagObj }

// AsBoolean returns the held boolean; callers must check IsBoolean first.
func (v Value) AsBoolean() bool { return v.bits == 1 }

// AsInteger returns the held integer; callers must check IsInteger first.
func (v Value) AsInteger() int64 { return int64(v.bits) }

// AsFloat returns the held float; callers must check IsFloat first.
func (v Value) AsFloat() float64 { return math.Float64frombits(v.bits) }

// AsObject returns the held heap object; callers must check IsObj first.
func (v Value) AsObject() Object { return v.obj }

// AsString type-asserts the held object as a *StringObject, the only
// Object kind TagObj is expected to ever hold in that position when used
// this way. ok is false if the value isn't a TagObj *StringObject.
func (v Value) AsString() (*StringObject, bool) {
	if v.tag != TagObj {
		return nil, false
	}
	s, ok := v.obj.(*StringObject)
	return s, ok
}

// AsTuple type-asserts the held object as a *TupleObject.
func (v Value) AsTuple() (*TupleObject, bool) {
	if v.tag != TagObj {
		return nil, false
	}
	t, ok := v.obj.(*TupleObject)
	return t, ok
}

// AsStruct type-asserts the held object as a *StructObject.
func (v Value) AsStruct() (*StructObject, bool) {
	if v.tag != TagObj {
		return nil, false
	}
	s, ok := v.obj.(*StructObject)
	return s, ok
}

// AsEnum type-asserts the held object as an *EnumObject.
func (v Value) AsEnum() (*EnumObject, bool) {
	if v.tag != TagObj {
		return nil, false
	}
	e, ok := v.obj.(*EnumObject)
	return e, ok
}

// AsOptional type-asserts the held object as an *OptionalObject (the "some"
// case — "none" is TagNone and holds no object at all).
func (v Value) AsOptional() (*OptionalObject, bool) {
	if v.tag != TagObj {
		return nil, false
	}
	o, ok := v.obj.(*OptionalObject)
	return o, ok
}

// Equals implements spec §3's equality rule: primitives compare by value,
// heap-backed values compare by identity (two distinct allocations are
// unequal even with equal fields).
func (v Value) Equals(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagBoolean, TagInteger:
		return v.bits == other.bits
	case TagFloat:
		return v.bits == other.bits
	case TagNone:
		return true
	case TagObj:
		return objectEquals(v.obj, other.obj)
	default:
		return false
	}
}

// Inspect renders a debug string for the value.
func (v Value) Inspect() string {
	switch v.tag {
	case TagBoolean:
		return fmt.Sprintf("%t", v.AsBoolean())
	case TagInteger:
		return fmt.Sprintf("%d", v.AsInteger())
	case TagFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case TagNone:
		return "none"
	case TagObj:
		if v.obj == nil {
			return "<nil>"
		}
		return v.obj.Inspect()
	default:
		return "<?>"
	}
}

// trace visits the heap object (if any) this value holds, for GC rooting.
func (v Value) trace(vis *gc.Visitor) {
	if v.tag == TagObj {
		if t, ok := v.obj.(gc.Traceable); ok {
			vis.Visit(t)
		}
	}
}

// Trace implements gc.Traceable so a Value can be visited wherever the
// rooting contract requires marking a slot that holds one (operand stack,
// local scope, captured scope).
func (v Value) Trace(vis *gc.Visitor) { v.trace(vis) }
