// Package config holds the tunable parameters of the analyses. They are
// read from a TOML file, and command-line flags take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	ValueRange ValueRangeConfig `toml:"value_range"`
	Frontend   FrontendConfig   `toml:"frontend"`
}

// ValueRangeConfig bounds the precision of the value-range analysis.
// Finite interval bounds beyond ±RangeBound are widened to infinity and
// sets of more than MaxValues integers are replaced by their hull.
type ValueRangeConfig struct {
	RangeBound int64 `toml:"range_bound"`
	MaxValues  int   `toml:"max_values"`
}

// FrontendConfig controls the construction of CFGs from Go code.
type FrontendConfig struct {
	// CallExceptions are the exception kinds a call may throw.
	CallExceptions []string `toml:"call_exceptions"`
}

var defaultConfig = Config{
	ValueRange: ValueRangeConfig{
		RangeBound: 256,
		MaxValues:  10,
	},
	Frontend: FrontendConfig{
		CallExceptions: []string{"panic"},
	},
}

// Default returns the configuration used when no file is given.
func Default() Config {
	res := defaultConfig
	res.Frontend.CallExceptions = append([]string{}, defaultConfig.Frontend.CallExceptions...)
	return res
}

// Parse reads a configuration from r. Settings missing from r keep their
// default values.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeReader(r, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.ValueRange.RangeBound < 0:
		return fmt.Errorf("%w: range_bound %d is negative", ErrInvalid, c.ValueRange.RangeBound)
	case c.ValueRange.MaxValues < 1:
		return fmt.Errorf("%w: max_values must be positive, got %d", ErrInvalid, c.ValueRange.MaxValues)
	}
	for _, kind := range c.Frontend.CallExceptions {
		if kind == "" {
			return fmt.Errorf("%w: empty exception kind", ErrInvalid)
		}
	}
	return nil
}
