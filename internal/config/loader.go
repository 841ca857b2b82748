package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/tzolkin/pkg/metrics"
)

// Environment variables read by Load.
const (
	EnvPrefix = "TZOLKIN_"
	EnvConfig = "TZOLKIN_CONFIG"
)

const maxCastleYears = 1000

// MetricsOptions maps the metrics keys onto manager options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithEnabled(c.MetricsEnabled),
		metrics.WithPrefix(c.MetricsPrefix),
		metrics.WithConstLabels(c.MetricsLabels),
		metrics.WithLatencyBuckets(c.MetricsLatencyBuckets),
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TZOLKIN_CONFIG is set
//  3. env (prefix TZOLKIN_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TZOLKIN_TABLES_PATH -> tables_path. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and combinations.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.SynthFromYear > c.SynthToYear {
		return fmt.Errorf("%w: synth_from_year %d after synth_to_year %d", ErrInvalidConfig, c.SynthFromYear, c.SynthToYear)
	}
	if c.CastleYears < 1 || c.CastleYears > maxCastleYears {
		return fmt.Errorf("%w: castle_years %d outside 1..%d", ErrInvalidConfig, c.CastleYears, maxCastleYears)
	}
	if err := metrics.ValidatePrefix(c.MetricsPrefix); err != nil {
		return fmt.Errorf("%w: metrics_prefix: %w", ErrInvalidConfig, err)
	}
	if err := metrics.ValidateConstLabels(c.MetricsLabels); err != nil {
		return fmt.Errorf("%w: metrics_labels: %w", ErrInvalidConfig, err)
	}
	if err := metrics.ValidateBuckets(c.MetricsLatencyBuckets); err != nil {
		return fmt.Errorf("%w: metrics_latency_buckets: %w", ErrInvalidConfig, err)
	}
	if c.TablesPath != "" {
		switch strings.ToLower(filepath.Ext(c.TablesPath)) {
		case ".db", ".sqlite", ".sqlite3", ".yaml", ".yml":
		default:
			return fmt.Errorf("%w: tables_path %q has no known extension", ErrInvalidConfig, c.TablesPath)
		}
	}
	return nil
}
