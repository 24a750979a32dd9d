// Package config loads the YAML settings file that governs one
// boundsafe run: which modules to load, how many to analyze at once,
// and how results are rendered.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level boundsafe.yaml shape.
type Config struct {
	// Modules lists the module source files to load, in analysis order.
	Modules []string `yaml:"modules"`

	// Concurrency is the number of modules analyzed in parallel; 0 or 1
	// means sequential. Passed straight through to pipeline.Config.
	Concurrency int `yaml:"concurrency,omitempty"`

	// FailFast stops launching further modules once one has reported at
	// least one error.
	FailFast bool `yaml:"fail_fast,omitempty"`

	// JSON selects machine-readable output (one report per line) instead
	// of the default human-readable rendering.
	JSON bool `yaml:"json,omitempty"`

	// Color controls ANSI coloring of human-readable output. Defaults to
	// true; set false for CI logs or non-terminal redirection.
	Color *bool `yaml:"color,omitempty"`
}

// ColorEnabled reports whether output should be colored, defaulting to
// true when Color is unset.
func (c *Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// Load reads and parses a boundsafe.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses boundsafe.yaml content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("%s: no modules defined", path)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%s: concurrency must not be negative", path)
	}
	return nil
}
