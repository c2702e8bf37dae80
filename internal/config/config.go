// Package config loads the optional voltc.toml project file, found by
// searching upward from the input file's directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the voltc.toml content.
type Config struct {
	Output OutputConfig `toml:"output"`
	Limits LimitsConfig `toml:"limits"`
}

// OutputConfig controls where compiled netlists go.
type OutputConfig struct {
	// Path is the default netlist output file. Empty means stdout.
	Path string `toml:"path"`
}

// LimitsConfig bounds recursive expansion and flattening.
type LimitsConfig struct {
	// MaxDepth overrides the recursion limit. Zero keeps the default.
	MaxDepth int `toml:"max_depth"`
}

// Default returns the configuration used when no voltc.toml exists.
func Default() *Config {
	return &Config{}
}

// FindAndLoad searches upward from startDir for voltc.toml and loads it.
// Without a config file the defaults apply; the returned path is empty.
func FindAndLoad(startDir string) (*Config, string, error) {
	path := findConfigFile(startDir)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func findConfigFile(startDir string) string {
	dir := startDir
	for {
		path := filepath.Join(dir, "voltc.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads one config file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
