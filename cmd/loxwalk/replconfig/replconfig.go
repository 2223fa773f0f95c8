// Package replconfig loads the interactive session's small on-disk
// preferences file, mirroring how the pack's other command-line tools
// keep a settings file next to the binary rather than threading every
// option through flags.
package replconfig

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the REPL's user-tunable preferences. The REPL loop reads
// only Prompt; HistorySize and Color are loaded but nothing consults
// them.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistorySize int    `yaml:"historySize"`
	Color       bool   `yaml:"color"`
}

func defaults() *Config {
	return &Config{Prompt: "> ", HistorySize: 500, Color: true}
}

// Path returns where the preferences file lives: ~/.loxwalk/repl.yaml.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loxwalk/repl.yaml"
	}
	return filepath.Join(home, ".loxwalk", "repl.yaml")
}

// Load reads the preferences file, falling back to defaults when it is
// absent or malformed — a missing or broken config file should never
// prevent the REPL from starting.
func Load() *Config {
	cfg := defaults()
	data, err := os.ReadFile(Path())
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return defaults()
	}
	return cfg
}
