// Package config holds the settings of the lox command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// RelPath is the config file location relative to the XDG config directories.
const RelPath = "lox/config.yaml"

type Config struct {
	// Prompt is printed before each REPL line.
	Prompt string `yaml:"prompt"`
	// History is the REPL history file. Empty disables history.
	History string `yaml:"history"`
	// Color enables coloured diagnostics.
	Color bool `yaml:"color"`
}

func Default() Config {
	return Config{
		Prompt:  "> ",
		History: filepath.Join(xdg.DataHome, "lox", ".lox_history"),
		Color:   true,
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Find loads the first config file found in the XDG config directories,
// falling back to the defaults if there is none.
func Find() (Config, error) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return Default(), nil
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}
