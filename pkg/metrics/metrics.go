package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors. Each engine instance
// owns its own registry so tests can build engines side by side without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal         *prometheus.CounterVec
	BlockedIdentifiers  prometheus.Gauge
	ReportCycles        prometheus.Counter
	DroppedObservations *prometheus.CounterVec
}

// New creates and registers the engine collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "security_events_total",
			Help:      "Security events recorded, by threat level and source kind.",
		}, []string{"level", "source_kind"}),
		BlockedIdentifiers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "argus",
			Name:      "blocked_identifiers",
			Help:      "Distinct source identifiers currently under mitigation.",
		}),
		ReportCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "report_cycles_total",
			Help:      "Intelligence report cycles that emitted a summary.",
		}),
		DroppedObservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "dropped_observations_total",
			Help:      "Observations dropped before the event log, by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.EventsTotal,
		m.BlockedIdentifiers,
		m.ReportCycles,
		m.DroppedObservations,
	)
	return m
}

// Handler returns the HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the backing registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
