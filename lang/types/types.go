// Package types implements the compile-time shape of user-defined types —
// Struct and Enum descriptors, their layouts and method tables (spec §3
// "Type descriptor").
package types

import "ember/lang/ident"

// Kind names a struct/enum layout's shape, used in InvalidKind error
// messages. Grounded on original_source's core::typ::Kind, which exists for
// exactly this Display purpose.
type Kind uint8

const (
	KindTuple Kind = iota
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Layout describes the field shape of a struct or a single enum variant:
// either a fixed-arity Tuple or a fixed key-set Map.
type Layout struct {
	Kind  Kind
	Arity uint8         // valid when Kind == KindTuple
	Keys  []ident.Ident // valid when Kind == KindMap; declared key set
}

// TupleLayout builds a Tuple-shaped layout of the given arity.
func TupleLayout(arity uint8) Layout {
	return Layout{Kind: KindTuple, Arity: arity}
}

// MapLayout builds a Map-shaped layout with the given declared keys.
func MapLayout(keys []ident.Ident) Layout {
	return Layout{Kind: KindMap, Keys: append([]ident.Ident(nil), keys...)}
}

// HasKey reports whether ident is a declared key of a Map layout.
func (l Layout) HasKey(id ident.Ident) bool {
	for _, k := range l.Keys {
		if k == id {
			return true
		}
	}
	return false
}

// MethodTable is the identifier -> function method set shared by Struct and
// Enum descriptors. Function is declared as `any` here and asserted back to
// *lang/function.Function at the call sites that need it, to avoid an
// import cycle: lang/function imports lang/value, which imports this
// package, so types cannot import function — see lang/function for the
// concrete type.
type MethodTable struct {
	methods map[ident.Ident]any
}

// NewMethodTable returns an empty method table.
func NewMethodTable() *MethodTable {
	return &MethodTable{methods: make(map[ident.Ident]any)}
}

// Define inserts fn under name, replacing any prior entry.
func (mt *MethodTable) Define(name ident.Ident, fn any) {
	mt.methods[name] = fn
}

// Lookup returns the function registered under name, if any.
func (mt *MethodTable) Lookup(name ident.Ident) (any, bool) {
	fn, ok := mt.methods[name]
	return fn, ok
}

// Struct is a heap-allocated, shared descriptor for a user-defined struct
// type: an identifier, a layout, and a method table.
type Struct struct {
	Ident  ident.Ident
	Layout Layout
	Methods *MethodTable
}

// NewStruct constructs a Struct descriptor.
func NewStruct(id ident.Ident, layout Layout) *Struct {
	return &Struct{Ident: id, Layout: layout, Methods: NewMethodTable()}
}

// EnumVariant is one case of an Enum descriptor: its own identifier and
// layout.
type EnumVariant struct {
	Ident  ident.Ident
	Layout Layout
}

// Enum is a heap-allocated, shared descriptor for a user-defined enum type:
// an identifier, an ordered vector of variants, and a method table.
type Enum struct {
	Ident    ident.Ident
	Variants []EnumVariant
	Methods  *MethodTable
}

// NewEnum constructs an Enum descriptor with the given variants, in
// declaration order.
func NewEnum(id ident.Ident, variants []EnumVariant) *Enum {
	return &Enum{Ident: id, Variants: variants, Methods: NewMethodTable()}
}

// VariantIndex returns the declared index of the named variant.
func (e *Enum) VariantIndex(name ident.Ident) (int, bool) {
	for i, v := range e.Variants {
		if v.Ident == name {
			return i, true
		}
	}
	return 0, false
}

// Descriptor is the tagged union over Struct and Enum descriptors (spec's
// "Type descriptor — a tagged record — either a Struct or an Enum").
type Descriptor struct {
	Struct *Struct
	Enum   *Enum
}

// OfStruct wraps a Struct descriptor.
func OfStruct(s *Struct) Descriptor { return Descriptor{Struct: s} }

// OfEnum wraps an Enum descriptor.
func OfEnum(e *Enum) Descriptor { return Descriptor{Enum: e} }

// IsStruct reports whether this descriptor names a struct.
func (d Descriptor) IsStruct() bool { return d.Struct != nil }

// IsEnum reports whether this descriptor names an enum.
func (d Descriptor) IsEnum() bool { return d.Enum != nil }

// Ident returns the descriptor's own identifier regardless of which case it
// is.
func (d Descriptor) Ident() ident.Ident {
	if d.Struct != nil {
		return d.Struct.Ident
	}
	return d.Enum.Ident
}
