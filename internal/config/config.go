// Package config defines process configuration and its loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors are wrapped with this package's sentinel kinds.
package config

import "github.com/okian/rapidrun/internal/domain/model"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// DataFile is the roster flat file loaded at start and written on save.
	DataFile string `koanf:"data_file"`

	// Groups lists the valid group labels.
	Groups []string `koanf:"groups"`

	// DurationMin and DurationMax bound the simulated finish time in seconds.
	DurationMin int `koanf:"duration_min"`
	DurationMax int `koanf:"duration_max"`

	// Marker is the bar character used when visualizing times.
	Marker string `koanf:"marker"`

	// Seed fixes the random source; 0 seeds from the clock.
	Seed uint64 `koanf:"seed"`

	// MetricsFile, when set, receives a Prometheus textfile on save and exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		DataFile:    "horse_database.txt",
		Groups:      append([]string(nil), model.DefaultGroups...),
		DurationMin: 0,
		DurationMax: 90,
		Marker:      "*",
		Seed:        0,
		MetricsFile: "",
	}
}

// GroupSet returns the configured groups as a validated set.
func (c *Config) GroupSet() model.GroupSet {
	return model.NewGroupSet(c.Groups...)
}
