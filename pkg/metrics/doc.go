// Package metrics provides Prometheus instrumentation for proxyflow components.
//
// # Overview
//
// Proxies, multicast streams and the realtime scheduler record into a
// Registry when their configuration enables metrics:
//
//	reg := prometheus.NewRegistry()
//	p := proxy.NewWithConfig[int](proxy.Config{
//		Name:    "orders",
//		Metrics: metrics.Config{Enabled: true, Registry: reg},
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Available Metrics
//
// ## Proxy Metrics (label: proxy)
//
//   - proxyflow_proxy_attach_total: Sources attached
//   - proxyflow_proxy_attach_rejected_total: Attach calls rejected while a source was active
//   - proxyflow_proxy_subscribers: Live subscribers
//   - proxyflow_proxy_upstream_runs_total: Upstream subscriptions started
//   - proxyflow_proxy_events_total: Events forwarded
//   - proxyflow_proxy_errors_total: Upstream errors propagated
//   - proxyflow_proxy_ends_total: Upstream completions propagated
//   - proxyflow_proxy_teardowns_total: Upstream teardowns after the last subscriber left
//
// ## Multicast Metrics (label: stream)
//
//   - proxyflow_multicast_subscribers: Sinks attached
//   - proxyflow_multicast_events_total: Events broadcast
//
// ## Scheduler Metrics (label: scheduler)
//
//   - proxyflow_scheduler_tasks_scheduled_total
//   - proxyflow_scheduler_tasks_run_total
//   - proxyflow_scheduler_task_panics_total
//   - proxyflow_scheduler_pending_tasks
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.DefaultRegisterer,
//		Namespace: "myapp",
//		Labels:    prometheus.Labels{"version": "1.0"},
//	}
//
// Configurations that target the default registerer with the default
// namespace and no extra labels share DefaultRegistry.
package metrics
