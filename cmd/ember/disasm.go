package main

import (
	"fmt"
	"io"

	"ember/lang/function"
)

// disassemble writes a human-readable instruction listing for fn's chunk
// to w. Only chunk-bodied functions can be disassembled; an external has
// no instruction stream.
func disassemble(w io.Writer, fn *function.Function) error {
	if !fn.Proto.IsChunk() {
		fmt.Fprintf(w, "%s: <external>\n", fn.Ident)
		return nil
	}
	chunk := fn.Proto.Chunk
	fmt.Fprintf(w, "%s: arity=%d locals=%d\n", fn.Ident, fn.Arity, chunk.LocalScopeLen)
	for i := 0; i < chunk.Len(); i++ {
		instr, _ := chunk.Instr(i)
		fmt.Fprintf(w, "  %04d %s\n", i, formatInstr(instr))
	}
	return nil
}

func formatInstr(instr function.Instr) string {
	switch instr.Op {
	case function.OpPushValue:
		return fmt.Sprintf("%s %s", instr.Op, instr.Value.Inspect())
	case function.OpPushMod:
		if instr.Owner != nil {
			return fmt.Sprintf("%s %s", instr.Op, instr.Owner.Ident())
		}
		return instr.Op.String()
	case function.OpPushFn:
		if instr.Fn != nil {
			return fmt.Sprintf("%s %s", instr.Op, instr.Fn.Ident)
		}
		return instr.Op.String()
	case function.OpPushVar, function.OpPopVar:
		return fmt.Sprintf("%s %d", instr.Op, instr.Var)
	case function.OpCall:
		return fmt.Sprintf("%s %d", instr.Op, instr.Arity)
	default:
		return instr.Op.String()
	}
}
