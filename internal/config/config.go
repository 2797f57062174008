package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory (and alongside the
// script being run) before falling back to defaults.
const ConfigFileName = "matrixlang.yaml"

// RuntimeConfig represents the optional matrixlang.yaml configuration.
type RuntimeConfig struct {
	// JIT enables the native fast path for eligible lambdas.
	JIT bool `yaml:"jit,omitempty"`

	// JITDebug logs JIT compilation decisions and fallbacks to stderr.
	JITDebug bool `yaml:"jit_debug,omitempty"`

	// Prompt overrides the REPL prompt string.
	Prompt string `yaml:"prompt,omitempty"`

	// Color forces REPL colors on or off; when nil, the terminal is probed.
	Color *bool `yaml:"color,omitempty"`
}

// DefaultRuntimeConfig returns the configuration used when no yaml file is
// present.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		JIT:    false,
		Prompt: "matrix> ",
	}
}

// LoadRuntimeConfig reads matrixlang.yaml from the given directories, first
// hit wins. A missing file is not an error; a malformed one is.
func LoadRuntimeConfig(dirs ...string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	for _, dir := range dirs {
		path := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		if cfg.Prompt == "" {
			cfg.Prompt = DefaultRuntimeConfig().Prompt
		}
		return cfg, nil
	}
	return cfg, nil
}
