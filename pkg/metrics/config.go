package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric namespace used when Config.Namespace is empty.
const DefaultNamespace = "proxyflow"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "proxyflow" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}

// Disabled returns a configuration with metrics collection turned off.
func Disabled() Config {
	return Config{}
}

// FromConfig resolves the Registry a component should record into, or nil
// when metrics are disabled. Configurations pointing at the default
// registerer with default labels share DefaultRegistry, since registering the
// same collectors twice on one registerer fails.
func FromConfig(cfg Config) *Registry {
	if !cfg.Enabled {
		return nil
	}
	isDefault := cfg.Registry == nil || cfg.Registry == prometheus.DefaultRegisterer
	if isDefault && (cfg.Namespace == "" || cfg.Namespace == DefaultNamespace) && len(cfg.Labels) == 0 {
		return DefaultRegistry
	}
	return NewRegistryWithConfig(cfg)
}
