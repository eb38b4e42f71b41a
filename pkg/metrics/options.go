// Package metrics exposes Prometheus instruments for the ProtectHire service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithPrefix names every instrument namespace_subsystem_name. Empty parts
// keep the defaults.
func WithPrefix(namespace, subsystem string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets replaces the millisecond buckets used by every latency
// histogram.
func WithLatencyBuckets(ms ...float64) Option {
	return func(m *Manager) {
		if len(ms) > 0 {
			m.histogramBuckets = ms
		}
	}
}

// WithRegisterer registers instruments on r instead of the default registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
