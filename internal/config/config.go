// Package config loads the psic configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the configuration file looked up in the working directory
// when no path is given.
const DefaultFile = "psic.toml"

// Config holds the complete psic configuration.
type Config struct {
	Log         LogConfig         `toml:"log"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Build       BuildConfig       `toml:"build"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// DiagnosticsConfig holds diagnostic rendering settings.
type DiagnosticsConfig struct {
	Color string `toml:"color"` // auto, always or never
}

// BuildConfig holds pipeline settings.
type BuildConfig struct {
	Jobs int `toml:"jobs"` // files checked in parallel; 0 means one per CPU
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:         LogConfig{Level: "info"},
		Diagnostics: DiagnosticsConfig{Color: "auto"},
	}
}

// Load reads the configuration at path. An empty path means DefaultFile,
// which may be absent; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a TOML document over the defaults and validates it.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the value ranges of cfg.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Diagnostics.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid diagnostics.color %q", c.Diagnostics.Color)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("invalid build.jobs %d", c.Build.Jobs)
	}
	return nil
}

// Jobs returns the number of files to check in parallel.
func (c *Config) Jobs() int {
	if c.Build.Jobs > 0 {
		return c.Build.Jobs
	}
	return runtime.NumCPU()
}
