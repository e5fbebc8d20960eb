// Package config loads craftlint's optional yaml config. Precedence is
// CLI flag > local project file > global file; fields are pointers so an
// absent key is distinguishable from a zero value.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Threads    *int     `yaml:"threads"`
	MaxBytes   *int64   `yaml:"max_bytes"`
	Extensions []string `yaml:"extensions"`
	FailOn     *string  `yaml:"fail_on"`
	Format     *string  `yaml:"format"`
	NoColor    *bool    `yaml:"no_color"`
	Baseline   *string  `yaml:"baseline"`
}

func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// localNames is the search order inside the project root; the dotfile wins.
var localNames = []string{".craftlint.yaml", ".craftlint.yml", "craftlint.yaml", "craftlint.yml"}

func LoadLocal(root string) (FileConfig, error) {
	for _, name := range localNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("no local config in %s", root)
}

// LoadGlobal looks in $XDG_CONFIG_HOME/craftlint (or ~/.config/craftlint).
func LoadGlobal() (FileConfig, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return FileConfig{}, fmt.Errorf("no config directory available")
		}
		base = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yml", "config.yaml"} {
		p := filepath.Join(base, "craftlint", name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("no global config found")
}
