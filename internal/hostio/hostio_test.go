package hostio

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDispatchError_IncludesCorrelationAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)
	id := uuid.New()

	DispatchError(log, id, 3, "Call", errors.New("wrong arity: expected 1, received 0"))

	out := buf.String()
	assert.Contains(t, out, "dispatch error")
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "frame_depth=3")
	assert.Contains(t, out, "op=Call")
	assert.Contains(t, out, "wrong arity")
}

func TestFiberStarted_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)
	id := uuid.New()

	FiberStarted(log, id, "main")

	out := buf.String()
	assert.Contains(t, out, "fiber started")
	assert.Contains(t, out, "entry=main")
}

func TestFiberFinished_BranchesOnError(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)
	id := uuid.New()

	FiberFinished(log, id, nil)
	assert.Contains(t, buf.String(), "fiber finished")
	assert.NotContains(t, buf.String(), "level=ERROR")

	buf.Reset()
	FiberFinished(log, id, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	log := NewLogger(slog.LevelInfo)
	assert.NotNil(t, log)
	assert.False(t, log.Enabled(nil, slog.LevelDebug))
	assert.True(t, log.Enabled(nil, slog.LevelInfo))
}
