// Package config handles loaf.toml project configuration: the VM's
// stack-depth guard, whether to trace execution on start, and the
// lambda-ptr suffix length, each with a default so the file's absence
// is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a loaf.toml project configuration.
type Config struct {
	VM VM `toml:"vm"`

	// Dir is the directory containing the loaf.toml file (set at load time).
	Dir string `toml:"-"`
}

// VM configures the bytecode machine's runtime guards.
type VM struct {
	MaxFrames    int  `toml:"max-frames"`
	TraceOnStart bool `toml:"trace-on-start"`

	// LambdaPtrLen is the number of hex characters (out of a UUID's 32)
	// pkg/ir's newPtr keeps when minting a lambda-XXXX label.
	LambdaPtrLen int `toml:"lambda-ptr-len"`
}

const (
	defaultMaxFrames    = 10000
	defaultLambdaPtrLen = 16
)

// Default returns the configuration used when no loaf.toml is found.
func Default() *Config {
	return &Config{VM: VM{MaxFrames: defaultMaxFrames, LambdaPtrLen: defaultLambdaPtrLen}}
}

// Load parses a loaf.toml file from the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, "loaf.toml"))
}

// LoadFile parses a config file at an exact path, regardless of its
// name, for callers (e.g. loafc's "-c") that point at a file directly
// rather than a containing directory.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if c.VM.MaxFrames == 0 {
		c.VM.MaxFrames = defaultMaxFrames
	}
	if c.VM.LambdaPtrLen == 0 {
		c.VM.LambdaPtrLen = defaultLambdaPtrLen
	}

	dir := filepath.Dir(path)
	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir looking for a loaf.toml file. A
// missing file is not an error: it returns the default configuration.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "loaf.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
