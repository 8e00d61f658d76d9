package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"ember/gc"
	"ember/internal/config"
	"ember/internal/hostio"
	"ember/lang/function"
	"ember/lang/ident"
	"ember/lang/module"
	"ember/lang/value"
	"ember/vm"
)

// runREPL reads one arithmetic expression per line ("<lhs> <op> <rhs>",
// op one of + - * /) and evaluates it on a fiber shared across every
// line (each parsed chunk leaves exactly one value, which Invoke pops, and
// a failing operator has already popped both operands, so the operand
// stack is empty again after every line). There is no lexer/parser
// in scope for the full language (spec §1: out of scope), so the REPL's
// input grammar is deliberately this minimal — just enough to exercise
// the arithmetic opcodes interactively. cfg's OperandStackHint sizes the
// shared fiber's operand stack up front, and HistoryPath names where a
// future readline-style history would persist (not yet implemented).
func runREPL(in io.Reader, out io.Writer, log *slog.Logger, cfg *config.Config) error {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Fprintln(out, "ember repl — enter expressions like `3 + 4`, Ctrl-D to exit")
	}

	a := gc.NewArena()
	interner := ident.NewInterner()
	mod := module.New(interner.Intern("repl"))
	fiber := vm.NewFiberWithHint(a, cfg.OperandStackHint)

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		chunk, err := parseExpr(a, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		fn := function.NewChunkFunction(a, mod, ident.NewNumber(0), 0, false, chunk)
		result, err := fiber.Invoke(fn, nil)
		if err != nil {
			hostio.DispatchError(log, fiber.ID, fiber.FrameDepth(), line, err)
			hostio.FiberFinished(log, fiber.ID, err)
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, result.Inspect())
	}
	return scanner.Err()
}

// parseExpr builds a one-shot chunk for "<lhs> <op> <rhs>".
func parseExpr(a *gc.Arena, line string) (*function.Chunk, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected `<number> <op> <number>`, got %q", line)
	}
	lhs, err := parseNumber(fields[0])
	if err != nil {
		return nil, err
	}
	rhs, err := parseNumber(fields[2])
	if err != nil {
		return nil, err
	}
	var op function.Op
	switch fields[1] {
	case "+":
		op = function.OpAdd
	case "-":
		op = function.OpSubtract
	case "*":
		op = function.OpMultiply
	case "/":
		op = function.OpDivide
	default:
		return nil, fmt.Errorf("unknown operator %q", fields[1])
	}

	b := function.NewChunkBuilder()
	b.Append(function.Instr{Op: function.OpPushValue, Value: lhs})
	b.Append(function.Instr{Op: function.OpPushValue, Value: rhs})
	b.Append(function.Instr{Op: op})
	return b.Build(a), nil
}

func parseNumber(tok string) (value.Value, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return value.Int(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return value.Float(f), nil
	}
	return value.Value{}, fmt.Errorf("not a number: %q", tok)
}
