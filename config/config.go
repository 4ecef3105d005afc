// Package config loads run parameters from TOML files.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML files can use strings such as
// "500ms" or "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds the tunable parameters of a run. The zero value of each
// field means "use the engine default".
type Config struct {
	// Workers is the worker-pool size; 0 uses GOMAXPROCS.
	Workers int `toml:"workers"`

	// MaxPoolSize caps the candidate pool of a single layer; 0 disables
	// the cap.
	MaxPoolSize int `toml:"max_pool_size"`

	// ProgressInterval throttles progress lines during pruning; 0
	// disables them.
	ProgressInterval Duration `toml:"progress_interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ProgressInterval: Duration{5 * time.Second},
	}
}

// Load reads a TOML configuration file. Unknown keys are an error so
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("load config %s: workers must not be negative", path)
	}
	if cfg.MaxPoolSize < 0 {
		return Config{}, fmt.Errorf("load config %s: max_pool_size must not be negative", path)
	}
	return cfg, nil
}
