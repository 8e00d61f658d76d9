package main

import (
	"fmt"
	"io"
	"log/slog"

	"ember/gc"
	"ember/internal/config"
	"ember/internal/hostio"
	"ember/vm"
)

// runDemo executes buildDemo's top-level function on a fresh fiber and
// writes its result to w, per spec §6's host-driver sequence: a fresh
// arena, a fiber/machine, Call(0) against the entry function. cfg's
// OperandStackHint sizes the fiber's operand stack up front.
func runDemo(w io.Writer, log *slog.Logger, cfg *config.Config) error {
	a := gc.NewArena()
	mainFn, _, _ := buildDemo(a)

	fiber := vm.NewFiberWithHint(a, cfg.OperandStackHint)
	hostio.FiberStarted(log, fiber.ID, mainFn.Ident.String())

	result, err := fiber.Invoke(mainFn, nil)
	if err != nil {
		hostio.DispatchError(log, fiber.ID, fiber.FrameDepth(), mainFn.Ident.String(), err)
		hostio.FiberFinished(log, fiber.ID, err)
		return fmt.Errorf("running %s: %w", mainFn.Ident, err)
	}
	hostio.FiberFinished(log, fiber.ID, nil)

	fmt.Fprintln(w, result.Inspect())
	return nil
}
