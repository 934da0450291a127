// Package metric provides Prometheus metrics for devkit.
//
//   - prometheus.go: registry, config-loading metrics, HTTP exposition
//
// Registry implements lazyconfig.Observer, so passing it to a loader with
// lazyconfig.WithObserver records every collection and file load. Metrics
// are exposed at /metrics in Prometheus format.
package metric
