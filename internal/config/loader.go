package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/rapidrun/internal/domain/timing"
)

// Environment variable names.
const (
	EnvPrefix     = "RAPIDRUN_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RAPIDRUN_CONFIG is set
//  3. env (prefix RAPIDRUN_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like RAPIDRUN_DATA_FILE -> data_file (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy. Groups starts empty because decoding a list
	// into a populated slice overlays it instead of replacing it.
	cfg := *base
	cfg.Groups = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.Groups = splitGroups(cfg.Groups)
	if len(cfg.Groups) == 0 {
		cfg.Groups = base.Groups
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitGroups expands comma-separated entries, which is how a list arrives
// from a single environment variable.
func splitGroups(in []string) []string {
	var out []string
	for _, g := range in {
		for _, part := range strings.Split(g, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataFile) == "":
		return fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	case len(splitGroups(c.Groups)) == 0:
		return fmt.Errorf("%w: groups must not be empty", ErrInvalidConfig)
	case c.DurationMin < 0:
		return fmt.Errorf("%w: duration_min must not be negative", ErrInvalidConfig)
	case c.DurationMax < c.DurationMin:
		return fmt.Errorf("%w: duration_max must be >= duration_min", ErrInvalidConfig)
	case c.DurationMax > timing.MaxSeconds:
		return fmt.Errorf("%w: duration_max must be <= %d", ErrInvalidConfig, timing.MaxSeconds)
	case c.Marker == "":
		return fmt.Errorf("%w: marker must not be empty", ErrInvalidConfig)
	}
	return nil
}
