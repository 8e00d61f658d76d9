package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, DefaultOperandStackHint, cfg.OperandStackHint)
	assert.Equal(t, DefaultGCCycleAllocs, cfg.GCCycleAllocs)
	assert.Equal(t, DefaultHistoryPath, cfg.HistoryPath)
}

func TestParse_Overrides(t *testing.T) {
	doc := `
operand_stack_hint: 4096
gc_cycle_allocs: 1000
history_path: /tmp/ember_history
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.OperandStackHint)
	assert.Equal(t, 1000, cfg.GCCycleAllocs)
	assert.Equal(t, "/tmp/ember_history", cfg.HistoryPath)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("operand_stack_hint: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOperandStackHint, cfg.OperandStackHint)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operand_stack_hint: 512\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.OperandStackHint)
}
