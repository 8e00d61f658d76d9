package value

import (
	"fmt"
	"strings"

	"ember/gc"
	"ember/lang/ident"
	"ember/lang/types"
)

// Object is implemented by every heap-backed value (String, Tuple, Struct,
// Enum, and — in package vm — Closure). Equality on Objects is identity
// equality: two distinct allocations are never equal even with equal
// fields (spec §3 "Equality on heap-backed values is pointer/identity
// equality").
type Object interface {
	// Kind names this object's runtime type, for error messages and
	// disassembly (e.g. "String", "Tuple", "Struct Point", "Closure").
	Kind() string
	// Inspect renders a debug representation.
	Inspect() string
	// Identity returns a stable per-allocation id; two Objects are equal
	// iff they report the same Identity from the same concrete type.
	Identity() uint64
}

func objectEquals(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
		return false
	}
	return a.Identity() == b.Identity()
}

// StringObject is a shared, interior-mutable UTF-8 buffer.
type StringObject struct {
	cell *gc.Cell[string]
}

// NewString allocates a new string object.
func NewString(a *gc.Arena, s string) *StringObject {
	return &StringObject{cell: gc.NewCell(a, s)}
}

func (s *StringObject) Kind() string    { return "String" }
func (s *StringObject) Inspect() string { return fmt.Sprintf("%q", s.Get()) }
func (s *StringObject) Identity() uint64 { return s.cell.Handle() }
func (s *StringObject) Trace(*gc.Visitor) {}

// Get returns the current string contents.
func (s *StringObject) Get() string { return s.cell.Get() }

// Set replaces the string contents in place (interior mutation).
func (s *StringObject) Set(v string) { s.cell.Set(v) }

// TupleObject is a shared vector of values with a fixed length established
// at creation (spec §3 "Tuple"). It is distinct from a Struct using a Tuple
// layout: a plain Tuple has no type descriptor at all.
type TupleObject struct {
	cell *gc.Cell[[]Value]
}

// NewTuple allocates a tuple holding exactly the given values; its length
// never changes thereafter.
func NewTuple(a *gc.Arena, fields []Value) *TupleObject {
	stored := append([]Value(nil), fields...)
	return &TupleObject{cell: gc.NewCell(a, stored)}
}

func (t *TupleObject) Kind() string    { return "Tuple" }
func (t *TupleObject) Identity() uint64 { return t.cell.Handle() }
func (t *TupleObject) Inspect() string {
	var b strings.Builder
	b.WriteByte('(')
	t.cell.Borrow(func(fields []Value) {
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Inspect())
		}
	})
	b.WriteByte(')')
	return b.String()
}
func (t *TupleObject) Trace(v *gc.Visitor) {
	t.cell.Borrow(func(fields []Value) {
		for _, f := range fields {
			f.trace(v)
		}
	})
}

// Len returns the tuple's fixed field count.
func (t *TupleObject) Len() int {
	return len(t.cell.Get())
}

// Field returns the value at index, or InvalidField if out of range.
func (t *TupleObject) Field(index int) (Value, error) {
	var out Value
	var err error
	t.cell.Borrow(func(fields []Value) {
		if index < 0 || index >= len(fields) {
			err = invalidTupleField(index)
			return
		}
		out = fields[index]
	})
	return out, err
}

// SetField replaces the value at index without resizing the tuple.
func (t *TupleObject) SetField(index int, v Value) error {
	var err error
	t.cell.BorrowMut(func(fields *[]Value) {
		if index < 0 || index >= len(*fields) {
			err = invalidTupleField(index)
			return
		}
		(*fields)[index] = v
	})
	return err
}

// fieldStorage is the field data backing a Struct or Enum variant value:
// either a tuple's positional vector, or a map's identifier->value mapping.
// Mirrors original_source's core::value::StructProto (Tuple | Map).
type fieldStorage struct {
	kind   types.Kind
	tuple  []Value
	fields map[ident.Ident]Value
}

func newTupleStorage(arity uint8) fieldStorage {
	fields := make([]Value, arity)
	for i := range fields {
		fields[i] = None()
	}
	return fieldStorage{kind: types.KindTuple, tuple: fields}
}

func newMapStorage(keys []ident.Ident) fieldStorage {
	m := make(map[ident.Ident]Value, len(keys))
	for _, k := range keys {
		m[k] = None()
	}
	return fieldStorage{kind: types.KindMap, fields: m}
}

func (fs *fieldStorage) tupleField(index int) (Value, error) {
	if fs.kind != types.KindTuple {
		return Value{}, invalidKind(types.KindTuple, fs.kind)
	}
	if index < 0 || index >= len(fs.tuple) {
		return Value{}, invalidTupleField(index)
	}
	return fs.tuple[index], nil
}

func (fs *fieldStorage) setTupleField(index int, v Value) error {
	if fs.kind != types.KindTuple {
		return invalidKind(types.KindTuple, fs.kind)
	}
	if index < 0 || index >= len(fs.tuple) {
		return invalidTupleField(index)
	}
	fs.tuple[index] = v
	return nil
}

func (fs *fieldStorage) mapField(id ident.Ident) (Value, error) {
	if fs.kind != types.KindMap {
		return Value{}, invalidKind(types.KindMap, fs.kind)
	}
	v, ok := fs.fields[id]
	if !ok {
		return Value{}, invalidMapField(id)
	}
	return v, nil
}

func (fs *fieldStorage) setMapField(id ident.Ident, v Value) error {
	if fs.kind != types.KindMap {
		return invalidKind(types.KindMap, fs.kind)
	}
	if _, ok := fs.fields[id]; !ok {
		return invalidMapField(id)
	}
	fs.fields[id] = v
	return nil
}

func (fs *fieldStorage) trace(v *gc.Visitor) {
	switch fs.kind {
	case types.KindTuple:
		for _, f := range fs.tuple {
			f.trace(v)
		}
	case types.KindMap:
		for _, f := range fs.fields {
			f.trace(v)
		}
	}
}

func (fs *fieldStorage) inspect() string {
	var b strings.Builder
	switch fs.kind {
	case types.KindTuple:
		b.WriteByte('(')
		for i, f := range fs.tuple {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Inspect())
		}
		b.WriteByte(')')
	case types.KindMap:
		b.WriteByte('{')
		first := true
		for _, k := range ident.Sorted(mapKeys(fs.fields)) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(k.String())
			b.WriteString(": ")
			b.WriteString(fs.fields[k].Inspect())
		}
		b.WriteByte('}')
	}
	return b.String()
}

func mapKeys(m map[ident.Ident]Value) []ident.Ident {
	out := make([]ident.Ident, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// buildTupleStorage validates construction invariants for a Tuple layout:
// fail MissingField if too few fields were supplied, InvalidField if too
// many (spec §4.6 "Construction invariants").
func buildTupleStorage(arity uint8, provided []Value) (fieldStorage, error) {
	if len(provided) < int(arity) {
		return fieldStorage{}, missingTupleField(len(provided))
	}
	if len(provided) > int(arity) {
		return fieldStorage{}, invalidTupleField(int(arity))
	}
	return fieldStorage{kind: types.KindTuple, tuple: append([]Value(nil), provided...)}, nil
}

// buildMapStorage validates construction invariants for a Map layout: fail
// MissingField for any declared key not provided, InvalidField for any
// provided key not declared.
func buildMapStorage(keys []ident.Ident, provided map[ident.Ident]Value) (fieldStorage, error) {
	declared := make(map[ident.Ident]struct{}, len(keys))
	for _, k := range keys {
		declared[k] = struct{}{}
	}
	for k := range provided {
		if _, ok := declared[k]; !ok {
			return fieldStorage{}, invalidMapField(k)
		}
	}
	fields := make(map[ident.Ident]Value, len(keys))
	for _, k := range keys {
		v, ok := provided[k]
		if !ok {
			return fieldStorage{}, missingMapField(k)
		}
		fields[k] = v
	}
	return fieldStorage{kind: types.KindMap, fields: fields}, nil
}

// StructObject is a Value::Struct: a reference to a shared Struct
// descriptor plus the field storage of that instance.
type StructObject struct {
	Descriptor *types.Struct
	cell       *gc.Cell[fieldStorage]
}

// NewStruct constructs a struct value. For a Tuple-layout descriptor,
// tupleFields must supply exactly the declared arity of fields, in order.
// For a Map-layout descriptor, tupleFields is ignored in favor of
// mapFields, which must supply exactly the declared key set.
func NewStruct(a *gc.Arena, desc *types.Struct, tupleFields []Value, mapFields map[ident.Ident]Value) (*StructObject, error) {
	var storage fieldStorage
	var err error
	switch desc.Layout.Kind {
	case types.KindTuple:
		storage, err = buildTupleStorage(desc.Layout.Arity, tupleFields)
	case types.KindMap:
		storage, err = buildMapStorage(desc.Layout.Keys, mapFields)
	}
	if err != nil {
		return nil, err
	}
	return &StructObject{Descriptor: desc, cell: gc.NewCell(a, storage)}, nil
}

func (s *StructObject) Kind() string     { return "Struct " + s.Descriptor.Ident.String() }
func (s *StructObject) Identity() uint64 { return s.cell.Handle() }
func (s *StructObject) Inspect() string  { return s.Descriptor.Ident.String() + s.cell.Get().inspect() }
func (s *StructObject) Trace(v *gc.Visitor) {
	s.cell.Borrow(func(fs fieldStorage) { fs.trace(v) })
}

// TupleField implements spec §4.6's tuple_field for Struct values.
func (s *StructObject) TupleField(index int) (Value, error) {
	var out Value
	var err error
	s.cell.Borrow(func(fs fieldStorage) { out, err = fs.tupleField(index) })
	return out, err
}

// SetTupleField implements spec §4.6's set_tuple_field for Struct values.
func (s *StructObject) SetTupleField(index int, v Value) error {
	var err error
	s.cell.BorrowMut(func(fs *fieldStorage) { err = fs.setTupleField(index, v) })
	return err
}

// MapField implements spec §4.6's map_field for Struct values.
func (s *StructObject) MapField(id ident.Ident) (Value, error) {
	var out Value
	var err error
	s.cell.Borrow(func(fs fieldStorage) { out, err = fs.mapField(id) })
	return out, err
}

// SetMapField implements spec §4.6's set_map_field for Struct values.
func (s *StructObject) SetMapField(id ident.Ident, v Value) error {
	var err error
	s.cell.BorrowMut(func(fs *fieldStorage) { err = fs.setMapField(id, v) })
	return err
}

// EnumObject is a Value::Enum: a reference to a shared Enum descriptor, the
// index of the variant this value holds, and that variant's field storage.
type EnumObject struct {
	Descriptor   *types.Enum
	VariantIndex int
	cell         *gc.Cell[fieldStorage]
}

// NewEnum constructs an enum value for the named variant, validating
// construction invariants the same way NewStruct does for that variant's
// layout.
func NewEnum(a *gc.Arena, desc *types.Enum, variant ident.Ident, tupleFields []Value, mapFields map[ident.Ident]Value) (*EnumObject, error) {
	idx, ok := desc.VariantIndex(variant)
	if !ok {
		return nil, invalidMapField(variant)
	}
	layout := desc.Variants[idx].Layout
	var storage fieldStorage
	var err error
	switch layout.Kind {
	case types.KindTuple:
		storage, err = buildTupleStorage(layout.Arity, tupleFields)
	case types.KindMap:
		storage, err = buildMapStorage(layout.Keys, mapFields)
	}
	if err != nil {
		return nil, err
	}
	return &EnumObject{Descriptor: desc, VariantIndex: idx, cell: gc.NewCell(a, storage)}, nil
}

func (e *EnumObject) Kind() string {
	return "Enum " + e.Descriptor.Ident.String() + "::" + e.Descriptor.Variants[e.VariantIndex].Ident.String()
}
func (e *EnumObject) Identity() uint64 { return e.cell.Handle() }
func (e *EnumObject) Inspect() string {
	return e.Descriptor.Ident.String() + "::" + e.Descriptor.Variants[e.VariantIndex].Ident.String() + e.cell.Get().inspect()
}
func (e *EnumObject) Trace(v *gc.Visitor) {
	e.cell.Borrow(func(fs fieldStorage) { fs.trace(v) })
}

// TupleField implements spec §4.6's tuple_field for Enum values.
func (e *EnumObject) TupleField(index int) (Value, error) {
	var out Value
	var err error
	e.cell.Borrow(func(fs fieldStorage) { out, err = fs.tupleField(index) })
	return out, err
}

// SetTupleField implements spec §4.6's set_tuple_field for Enum values.
func (e *EnumObject) SetTupleField(index int, v Value) error {
	var err error
	e.cell.BorrowMut(func(fs *fieldStorage) { err = fs.setTupleField(index, v) })
	return err
}

// MapField implements spec §4.6's map_field for Enum values.
func (e *EnumObject) MapField(id ident.Ident) (Value, error) {
	var out Value
	var err error
	e.cell.Borrow(func(fs fieldStorage) { out, err = fs.mapField(id) })
	return out, err
}

// SetMapField implements spec §4.6's set_map_field for Enum values.
func (e *EnumObject) SetMapField(id ident.Ident, v Value) error {
	var err error
	e.cell.BorrowMut(func(fs *fieldStorage) { err = fs.setMapField(id, v) })
	return err
}

// OptionalObject holds the "some" case of an Optional value; "none" is the
// dedicated Value tag TagNone and needs no heap allocation at all (spec §9's
// Open Question resolution: a real Option sentinel instead of the source's
// Boolean(false) placeholder).
type OptionalObject struct {
	handle uint64
	Inner  Value
}

func newSome(a *gc.Arena, inner Value) *OptionalObject {
	return &OptionalObject{handle: a.Handle(), Inner: inner}
}

func (o *OptionalObject) Kind() string     { return "Optional" }
func (o *OptionalObject) Identity() uint64 { return o.handle }
func (o *OptionalObject) Inspect() string  { return "Some(" + o.Inner.Inspect() + ")" }
func (o *OptionalObject) Trace(v *gc.Visitor) { o.Inner.trace(v) }
