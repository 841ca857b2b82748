package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithEnabled turns recording on or off. A disabled manager still registers
// its series but never updates them.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithPrefix is inserted between the subsystem and every series name.
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		m.metricPrefix = strings.TrimSpace(prefix)
	}
}

// WithConstLabels attaches labels to every series, e.g. a deployment name.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		out := make(map[string]string, len(labels))
		for k, v := range labels {
			out[k] = v
		}
		m.customLabels = out
	}
}

// WithLatencyBuckets replaces the calculation latency buckets.
func WithLatencyBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

var labelName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// seriesLabels are the variable labels of the engine series; constant labels
// may not reuse them.
var seriesLabels = map[string]bool{"operation": true, "path": true, "table": true, "grid": true, "check": true}

// ValidateConstLabels rejects names Prometheus would refuse to register.
func ValidateConstLabels(labels map[string]string) error {
	for name := range labels {
		switch {
		case !labelName.MatchString(name), strings.HasPrefix(name, "__"):
			return fmt.Errorf("%w: label name %q", ErrInvalidOption, name)
		case seriesLabels[name]:
			return fmt.Errorf("%w: label %q is used by engine series", ErrInvalidOption, name)
		}
	}
	return nil
}

// ValidatePrefix rejects prefixes that would produce an invalid series name.
func ValidatePrefix(prefix string) error {
	if p := strings.TrimSpace(prefix); p != "" && !labelName.MatchString(p) {
		return fmt.Errorf("%w: prefix %q", ErrInvalidOption, prefix)
	}
	return nil
}

// ValidateBuckets requires strictly increasing bucket bounds.
func ValidateBuckets(buckets []float64) error {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return fmt.Errorf("%w: buckets not increasing at %v", ErrInvalidOption, buckets[i])
		}
	}
	return nil
}
