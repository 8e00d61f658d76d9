package main

import (
	"ember/gc"
	"ember/lang/function"
	"ember/lang/ident"
	"ember/lang/module"
	"ember/lang/value"
)

// buildDemo stands up the small program the "run"/"disasm" subcommands
// operate on. The core has no compiler front end in scope (spec §1: the
// compiler is an external collaborator), so there is no chunk file format
// to load from disk; the host driver builds its top-level chunk directly
// through lang/function.ChunkBuilder, exactly as spec §6 describes: "the
// host creates a GC arena, a module, a top-level function... constructs a
// fiber/machine, pushes the top-level function... and issues Call(0)."
//
// The demo computes double(3 + 4) by calling an external function from a
// freshly built chunk, exercising integer arithmetic and the call
// protocol's dispatch to an External prototype.
func buildDemo(a *gc.Arena) (mainFn *function.Function, mod *module.Module, interner *ident.Interner) {
	interner = ident.NewInterner()

	rootID := interner.Intern("root")
	mod = module.New(rootID)

	doubleID := interner.Intern("double")
	doubleFn := function.NewExternalFunction(a, mod, doubleID, 1, false, &function.External{
		Fn: func(args []value.Value) (value.Value, error) {
			return value.Int(args[0].AsInteger() * 2), nil
		},
	})
	mod.DefineFunction(doubleID, doubleFn)

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushFn, Fn: doubleFn})
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(3)})
	b.Append(function.Instr{Op: function.OpPushValue, Value: value.Int(4)})
	b.Append(function.Instr{Op: function.OpAdd})
	b.Append(function.Instr{Op: function.OpCall, Arity: 1})
	chunk := b.Build(a)

	mainID := interner.Intern("main")
	mainFn = function.NewChunkFunction(a, mod, mainID, 0, false, chunk)
	mod.DefineFunction(mainID, mainFn)
	return mainFn, mod, interner
}
