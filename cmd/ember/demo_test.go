package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember/gc"
	"ember/internal/config"
)

func TestBuildDemo_DefinesMainAndExternalDouble(t *testing.T) {
	a := gc.NewArena()
	mainFn, mod, _ := buildDemo(a)
	assert.Equal(t, "main", mainFn.Ident.String())

	doubleFn, err := mod.Function(mod.Functions()[0])
	require.NoError(t, err)
	assert.False(t, doubleFn.Proto.IsChunk())
}

func TestRunDemo_PrintsResult(t *testing.T) {
	var out bytes.Buffer
	log := logger()
	cfg, err := config.Parse([]byte(""))
	require.NoError(t, err)
	require.NoError(t, runDemo(&out, log, cfg))
	assert.Equal(t, "14", strings.TrimSpace(out.String()))
}

func TestDisassemble_MainChunkListing(t *testing.T) {
	a := gc.NewArena()
	mainFn, _, _ := buildDemo(a)

	var out bytes.Buffer
	require.NoError(t, disassemble(&out, mainFn))
	text := out.String()
	assert.Contains(t, text, "main: arity=0")
	assert.Contains(t, text, "Call 1")
}

func TestDisassemble_ExternalHasNoInstructions(t *testing.T) {
	a := gc.NewArena()
	_, mod, _ := buildDemo(a)
	doubleFn, err := mod.Function(mod.Functions()[0])
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, disassemble(&out, doubleFn))
	assert.Contains(t, out.String(), "<external>")
}
