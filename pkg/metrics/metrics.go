// Package metrics provides Prometheus instrumentation for proxyflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for proxyflow components.
type Registry struct {
	// Proxy Metrics
	ProxyAttaches       *prometheus.CounterVec
	ProxyAttachRejected *prometheus.CounterVec
	ProxySubscribers    *prometheus.GaugeVec
	ProxyUpstreamRuns   *prometheus.CounterVec
	ProxyEvents         *prometheus.CounterVec
	ProxyErrors         *prometheus.CounterVec
	ProxyEnds           *prometheus.CounterVec
	ProxyTeardowns      *prometheus.CounterVec

	// Multicast Metrics
	MulticastSubscribers *prometheus.GaugeVec
	MulticastEvents      *prometheus.CounterVec

	// Scheduler Metrics
	SchedulerTasksScheduled *prometheus.CounterVec
	SchedulerTasksRun       *prometheus.CounterVec
	SchedulerTaskPanics     *prometheus.CounterVec
	SchedulerPending        *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by proxyflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry honoring the namespace and
// constant labels in cfg.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)

	counter := func(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   subsystem,
				Name:        name,
				Help:        help,
				ConstLabels: cfg.Labels,
			},
			labels,
		)
	}
	gauge := func(subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   subsystem,
				Name:        name,
				Help:        help,
				ConstLabels: cfg.Labels,
			},
			labels,
		)
	}

	return &Registry{
		ProxyAttaches:       counter("proxy", "attach_total", "Total number of sources attached to proxies", "proxy"),
		ProxyAttachRejected: counter("proxy", "attach_rejected_total", "Total number of attach calls rejected because a source was already attached", "proxy"),
		ProxySubscribers:    gauge("proxy", "subscribers", "Number of live proxy subscribers", "proxy"),
		ProxyUpstreamRuns:   counter("proxy", "upstream_runs_total", "Total number of upstream subscriptions started", "proxy"),
		ProxyEvents:         counter("proxy", "events_total", "Total number of events forwarded by proxies", "proxy"),
		ProxyErrors:         counter("proxy", "errors_total", "Total number of upstream errors propagated by proxies", "proxy"),
		ProxyEnds:           counter("proxy", "ends_total", "Total number of upstream completions propagated by proxies", "proxy"),
		ProxyTeardowns:      counter("proxy", "teardowns_total", "Total number of upstream teardowns after the last subscriber left", "proxy"),

		MulticastSubscribers: gauge("multicast", "subscribers", "Number of sinks attached to a multicast stream", "stream"),
		MulticastEvents:      counter("multicast", "events_total", "Total number of events broadcast by multicast streams", "stream"),

		SchedulerTasksScheduled: counter("scheduler", "tasks_scheduled_total", "Total number of tasks scheduled", "scheduler"),
		SchedulerTasksRun:       counter("scheduler", "tasks_run_total", "Total number of task runs", "scheduler"),
		SchedulerTaskPanics:     counter("scheduler", "task_panics_total", "Total number of recovered task panics", "scheduler"),
		SchedulerPending:        gauge("scheduler", "pending_tasks", "Number of tasks waiting on the timeline", "scheduler"),
	}
}
