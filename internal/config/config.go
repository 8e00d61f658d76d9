// Package config loads the host driver's small YAML configuration
// document (stack size, GC-cycle trigger knobs, REPL history path),
// mirroring funvibe-funxy's internal/ext.Config shape: a plain struct with
// yaml tags, a Load(path) entry point (funxy's LoadConfig), and defaults
// filled in after parsing.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied when a field is omitted from the document.
const (
	DefaultOperandStackHint = 256
	DefaultGCCycleAllocs    = 1 << 16
	DefaultHistoryPath      = ".ember_history"
)

// Config is the host driver's configuration document (ember.yaml).
type Config struct {
	// OperandStackHint sizes the initial capacity hint for a fiber's
	// operand stack; purely an allocation tuning knob, never a hard cap.
	OperandStackHint int `yaml:"operand_stack_hint,omitempty"`

	// GCCycleAllocs is how many gc.Arena handles are issued between
	// collector-trigger check-ins. The core never runs a collector
	// itself (see DESIGN.md); this knob exists for a host that wires one
	// in.
	GCCycleAllocs int `yaml:"gc_cycle_allocs,omitempty"`

	// HistoryPath names a REPL input-history file. The REPL does not read
	// or write it.
	HistoryPath string `yaml:"history_path,omitempty"`
}

// Load reads and parses path, filling in defaults for omitted fields. A
// missing file is not an error — it is treated as an empty document, so
// the host driver can run with no config file present at all.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.setDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses config content from bytes, filling in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.OperandStackHint <= 0 {
		c.OperandStackHint = DefaultOperandStackHint
	}
	if c.GCCycleAllocs <= 0 {
		c.GCCycleAllocs = DefaultGCCycleAllocs
	}
	if c.HistoryPath == "" {
		c.HistoryPath = DefaultHistoryPath
	}
}
