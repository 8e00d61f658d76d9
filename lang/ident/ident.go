// Package ident implements the hashable, orderable identifiers used as keys
// for type fields, module members and method tables (spec §3 "Identifier").
package ident

import "sort"

// Ident is either a GC-interned string or a small integer index. Once
// created it is immutable; two string Idents naming the same string always
// compare equal and hash identically, because Ident is a plain comparable
// struct and equality compares the name itself.
type Ident struct {
	name string
	num  int
	kind kind
}

type kind uint8

const (
	kindString kind = iota
	kindNumber
)

// NewNumber builds a purely-numeric identifier, used by compiler-generated
// synthetic names (e.g. the canonical top-level function ident 0, mirroring
// core::fun::Fn::new_chunk's `Ident::new_number(0)` in the original design).
func NewNumber(n int) Ident {
	return Ident{num: n, kind: kindNumber}
}

// String returns the human-readable form used in error messages and
// disassembly.
func (id Ident) String() string {
	if id.kind == kindNumber {
		return "#" + itoa(id.num)
	}
	return id.name
}

// Less gives Idents a total order, used to keep module/type member listings
// deterministic (the original keys its tables with a BTreeMap for the same
// reason).
func (id Ident) Less(other Ident) bool {
	if id.kind != other.kind {
		return id.kind < other.kind
	}
	if id.kind == kindNumber {
		return id.num < other.num
	}
	return id.name < other.name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Interner assigns each distinct string identifier a single shared Ident,
// caching it for later lookups of the same name; equality on string idents
// still compares their name strings. Created once per arena (spec's "created during compilation
// or at runtime via intern; immutable once created").
type Interner struct {
	table map[string]Ident
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]Ident)}
}

// Intern returns the canonical Ident for name, creating it on first use.
func (in *Interner) Intern(name string) Ident {
	if id, ok := in.table[name]; ok {
		return id
	}
	id := Ident{name: name, kind: kindString}
	in.table[name] = id
	return id
}

// Sorted returns idents in their total order, used by module/type listings
// that need deterministic iteration (disassembly, error messages).
func Sorted(idents []Ident) []Ident {
	out := make([]Ident, len(idents))
	copy(out, idents)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
