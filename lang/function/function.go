// Package function implements the function and chunk model: an immutable
// compiled chunk body, the ChunkBuilder contract a compiler front end uses
// to produce one, and the Function wrapper that gives a chunk (or a native
// external) an owning module, identifier, arity and method flag (spec §3
// "Chunk"/"Function", §6 "Compiler-to-VM"/"Function construction").
package function

import (
	"ember/gc"
	"ember/lang/ident"
	"ember/lang/value"
)

// Owner is the minimal view of a Module a Function needs to keep: its own
// identifier, for qualified-name lookup and error messages. Function does
// not import the module package directly to avoid a dependency cycle
// (Module's function table holds *Function); module.Module satisfies this
// interface.
type Owner interface {
	Ident() ident.Ident
}

// Instr is one bytecode instruction. Every instruction is self-contained —
// operands are inline, never fetched from a side constant pool (spec
// §4.1's rationale: "every instruction is self-contained").
type Instr struct {
	Op    Op
	Value value.Value // valid when Op == OpPushValue
	Fn    *Function   // valid when Op == OpPushFn
	Owner Owner       // valid when Op == OpPushMod
	Var   int         // valid when Op == OpPushVar / OpPopVar
	Arity uint8       // valid when Op == OpCall
}

// Op names one instruction in the authoritative instruction set (spec
// §4.1's table). There are no jumps or branches — chunks execute linearly
// to completion, a deliberate minimum the spec calls out as an
// acknowledged gap left for a future control-flow extension.
type Op uint8

const (
	OpPushValue Op = iota
	OpPushMod
	OpPushFn
	OpPop
	OpPushVar
	OpPopVar
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpCall
)

func (op Op) String() string {
	switch op {
	case OpPushValue:
		return "PushValue"
	case OpPushMod:
		return "PushMod"
	case OpPushFn:
		return "PushFn"
	case OpPop:
		return "Pop"
	case OpPushVar:
		return "PushVar"
	case OpPopVar:
		return "PopVar"
	case OpAdd:
		return "Add"
	case OpSubtract:
		return "Subtract"
	case OpMultiply:
		return "Multiply"
	case OpDivide:
		return "Divide"
	case OpCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Chunk is an immutable compiled body: the number of local-scope slots it
// requires, plus its instruction vector. Built once by a ChunkBuilder and
// never mutated thereafter.
type Chunk struct {
	handle         uint64
	LocalScopeLen  int
	Instrs         []Instr
}

// Instr returns the instruction at index, and whether index was in range.
func (c *Chunk) Instr(index int) (Instr, bool) {
	if index < 0 || index >= len(c.Instrs) {
		return Instr{}, false
	}
	return c.Instrs[index], true
}

// Len returns the number of instructions in the chunk.
func (c *Chunk) Len() int { return len(c.Instrs) }

// Trace visits every heap-backed constant embedded directly in this
// chunk's instructions: PushValue operands carrying a heap value, PushFn
// function references, and PushMod module references (when the owner
// embedded in the instruction is itself GC-traceable). A chunk is shared
// by every frame currently executing it, so it is traced once via the
// owning frame (Frame.Trace) rather than per-frame.
func (c *Chunk) Trace(vis *gc.Visitor) {
	for _, instr := range c.Instrs {
		switch instr.Op {
		case OpPushValue:
			instr.Value.Trace(vis)
		case OpPushFn:
			vis.Visit(instr.Fn)
		case OpPushMod:
			if tr, ok := instr.Owner.(gc.Traceable); ok {
				vis.Visit(tr)
			}
		}
	}
}

// ChunkBuilder is the contract a compiler front end uses to produce a
// Chunk: allocate local slots, append instructions, then build. Mirrors
// original_source's compiler::generator::ChunkBuilder one for one.
type ChunkBuilder struct {
	localScopeLen int
	instrs        []Instr
}

// NewChunkBuilder returns an empty builder.
func NewChunkBuilder() *ChunkBuilder {
	return &ChunkBuilder{}
}

// NextVar allocates the next local slot and returns its index.
func (b *ChunkBuilder) NextVar() int {
	v := b.localScopeLen
	b.localScopeLen++
	return v
}

// Append adds one instruction to the chunk under construction.
func (b *ChunkBuilder) Append(instr Instr) {
	b.instrs = append(b.instrs, instr)
}

// Build finalizes the chunk. The builder must not be reused afterward.
func (b *ChunkBuilder) Build(a *gc.Arena) *Chunk {
	return &Chunk{
		handle:        a.Handle(),
		LocalScopeLen: b.localScopeLen,
		Instrs:        append([]Instr(nil), b.instrs...),
	}
}

// External is a native callable a host registers in place of a compiled
// chunk body. The runtime retains it via an opaque Trace: the trace
// contract does nothing unless the host's closure itself captures
// GC-traced state and implements gc.Traceable over it.
type External struct {
	Fn    func(args []value.Value) (value.Value, error)
	Trace gc.Traceable // optional; nil if the closure captures no GC state
}

// Proto is the tagged union over a chunk body or a native external.
type Proto struct {
	Chunk    *Chunk
	External *External
}

// ChunkProto wraps a compiled chunk body.
func ChunkProto(c *Chunk) Proto { return Proto{Chunk: c} }

// ExternalProto wraps a native callable.
func ExternalProto(e *External) Proto { return Proto{External: e} }

// IsChunk reports whether this prototype is a compiled chunk.
func (p Proto) IsChunk() bool { return p.Chunk != nil }

// Function is an immutable function object: owning module, identifier,
// arity, method flag, and a prototype that is either a Chunk or an
// External.
type Function struct {
	handle   uint64
	Module   Owner
	Ident    ident.Ident
	Arity    uint8
	IsMethod bool
	Proto    Proto
}

// NewChunkFunction constructs a Function whose body is a compiled chunk
// (spec §6 "new_chunk(arena, arity, chunk) -> Function").
func NewChunkFunction(a *gc.Arena, owner Owner, id ident.Ident, arity uint8, isMethod bool, chunk *Chunk) *Function {
	return &Function{
		handle:   a.Handle(),
		Module:   owner,
		Ident:    id,
		Arity:    arity,
		IsMethod: isMethod,
		Proto:    ChunkProto(chunk),
	}
}

// NewExternalFunction constructs a Function whose body is a native
// callable (spec §6 "new_external(arena, arity, native_callable) ->
// Function").
func NewExternalFunction(a *gc.Arena, owner Owner, id ident.Ident, arity uint8, isMethod bool, ext *External) *Function {
	return &Function{
		handle:   a.Handle(),
		Module:   owner,
		Ident:    id,
		Arity:    arity,
		IsMethod: isMethod,
		Proto:    ExternalProto(ext),
	}
}

// Trace implements gc.Traceable: functions keep their external's captured
// state alive (if any); chunk prototypes reference no further heap state
// beyond the constant Values already embedded in their instructions, which
// are traced when the chunk's owning frame is traced.
func (f *Function) Trace(v *gc.Visitor) {
	if f.Proto.External != nil && f.Proto.External.Trace != nil {
		v.Visit(f.Proto.External.Trace)
	}
}
