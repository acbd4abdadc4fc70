// Package config loads the interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "MOX_CONFIG"
	EnvCPUProfile = "CPUPROFILE"
)

const (
	DefaultPrompt       = "> "
	DefaultMaxCallDepth = 1 << 14
)

var ErrNegativeCallDepth = errors.New("max_call_depth must not be negative")

// Config controls the command line driver and the interpreter.
type Config struct {
	// Prompt printed before each REPL line.
	Prompt string `yaml:"prompt"`
	// Maximum depth of nested calls before a "Stack overflow." runtime error.
	MaxCallDepth int `yaml:"max_call_depth"`
	// If set, a CPU profile is written to this file.
	CPUProfile string `yaml:"cpu_profile"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{Prompt: DefaultPrompt, MaxCallDepth: DefaultMaxCallDepth}
}

// Load parses the YAML file at path. Unknown keys are rejected.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	// Keys missing from the file keep their default value.
	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", abs, err)
	}

	cfg.CPUProfile = strings.TrimSpace(cfg.CPUProfile)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg.normalize(), nil
}

// FromEnv loads the file named by MOX_CONFIG (defaults if unset) and applies
// the CPUPROFILE override.
func FromEnv() (Config, error) {
	cfg := Default()

	if path, has := os.LookupEnv(EnvConfigPath); has && path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if prof_out, has := os.LookupEnv(EnvCPUProfile); has && prof_out != "" {
		cfg.CPUProfile = prof_out
	}

	return cfg, nil
}

// Validate reports settings which cannot be normalized to a default.
func (c Config) Validate() error {
	if c.MaxCallDepth < 0 {
		return ErrNegativeCallDepth
	}
	return nil
}

// normalize replaces a zero call depth with the default.
func (c Config) normalize() Config {
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	return c
}
