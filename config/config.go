// Package config loads the compiler settings from a bantam.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bantam-compiler/diagnostics"
	"bantam-compiler/semant"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "bantam.yaml"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// EntryClass and EntryMethod name the program entry point.
	EntryClass  string `yaml:"entry_class"`
	EntryMethod string `yaml:"entry_method"`

	Format diagnostics.Format    `yaml:"format"`
	Color  diagnostics.ColorMode `yaml:"color"`

	// MaxErrors limits how many diagnostics are printed; 0 prints all.
	// Analysis always runs to completion.
	MaxErrors int `yaml:"max_errors"`
}

func Default() *Config {
	return &Config{
		EntryClass:  semant.DefaultEntryClass,
		EntryMethod: semant.DefaultEntryMethod,
		Format:      diagnostics.FormatText,
		Color:       diagnostics.ColorAuto,
	}
}

// Load reads path over the defaults. A missing DefaultFile is not an error;
// any other missing file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.EntryClass == "" || c.EntryMethod == "" {
		return fmt.Errorf("%w: entry_class and entry_method must not be empty", ErrInvalid)
	}
	switch c.Format {
	case diagnostics.FormatText, diagnostics.FormatJSON, diagnostics.FormatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	switch c.Color {
	case diagnostics.ColorAuto, diagnostics.ColorAlways, diagnostics.ColorNever:
	default:
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalid, c.Color)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("%w: max_errors must not be negative", ErrInvalid)
	}
	return nil
}
