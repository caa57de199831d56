// Package config loads the optional skuld.yml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const SourceFileExt = ".sk"

// Config represents the top-level skuld.yml configuration.
type Config struct {
	// GuardLog enables one log record per guard failure on stderr.
	GuardLog bool `yaml:"guard_log"`

	// Color controls ANSI output: "auto" (default, on when stdout is a
	// terminal), "always" or "never".
	Color string `yaml:"color,omitempty"`

	// MaxCallDepth caps script recursion. Zero keeps the built-in default.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`
}

// Default returns the configuration used when no skuld.yml exists.
func Default() *Config {
	return &Config{Color: "auto"}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses skuld.yml content from bytes.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find searches for skuld.yml starting from dir and walking up to parent
// directories. Returns the path and nil error if found, or empty string
// and nil error if not found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"skuld.yml", "skuld.yaml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be auto, always or never, got %q", path, c.Color)
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("%s: max_call_depth must not be negative", path)
	}
	return nil
}
