// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
)

// Default values.
const (
	DefaultSynthFromYear = 1900
	DefaultSynthToYear   = 2100
	DefaultCastleYears   = 105
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TablesPath points at a .db/.sqlite or .yaml/.yml table file. Empty
	// means tables are synthesized from the arithmetic anchor.
	TablesPath string `koanf:"tables_path"`

	// SynthFromYear and SynthToYear bound the synthesized year table.
	SynthFromYear int `koanf:"synth_from_year"`
	SynthToYear   int `koanf:"synth_to_year"`

	// LeapCorrection adds one day to month offsets after February in leap years.
	LeapCorrection bool `koanf:"leap_correction"`

	// StrictMatrix rejects grids mapping one value to several positions.
	StrictMatrix bool `koanf:"strict_matrix"`

	// CastleYears is the default castle progression length.
	CastleYears int `koanf:"castle_years"`

	// MetricsTextfile, when set, receives a metrics dump after each command.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// MetricsEnabled turns engine metrics recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsPrefix is inserted into every series name after tzolkin_engine_.
	MetricsPrefix string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels added to every series (file only).
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsLatencyBuckets overrides the calculation latency buckets, in ms.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		SynthFromYear:  DefaultSynthFromYear,
		SynthToYear:    DefaultSynthToYear,
		LeapCorrection: true,
		CastleYears:    DefaultCastleYears,
		MetricsEnabled: true,
	}
}
