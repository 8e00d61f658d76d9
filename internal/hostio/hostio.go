// Package hostio owns the host driver's structured diagnostics sink. The
// runtime core itself never logs (spec §6: the core exposes no CLI or
// logging of its own); only cmd/ember and this package produce output,
// using log/slog for leveled, structured records.
package hostio

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// NewLogger returns a slog.Logger writing leveled, structured text to
// os.Stderr, at the given minimum level.
func NewLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// DispatchError logs one engine dispatch failure with the attributes a
// host needs to correlate it back to a specific fiber and instruction:
// fiber_id, frame_depth, and op.
func DispatchError(log *slog.Logger, fiberID uuid.UUID, frameDepth int, op string, err error) {
	log.Error("dispatch error",
		slog.String("fiber_id", fiberID.String()),
		slog.Int("frame_depth", frameDepth),
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}

// FiberStarted logs a fiber beginning a top-level call, tagged with its
// correlation id.
func FiberStarted(log *slog.Logger, fiberID uuid.UUID, entry string) {
	log.Debug("fiber started",
		slog.String("fiber_id", fiberID.String()),
		slog.String("entry", entry),
	)
}

// FiberFinished logs a fiber's top-level call completing, successfully or
// not.
func FiberFinished(log *slog.Logger, fiberID uuid.UUID, err error) {
	if err != nil {
		log.Error("fiber finished with error",
			slog.String("fiber_id", fiberID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	log.Debug("fiber finished", slog.String("fiber_id", fiberID.String()))
}
