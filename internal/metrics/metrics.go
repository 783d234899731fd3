package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes simulation counters to Prometheus scrapes.
type Metrics struct {
	registry *prometheus.Registry

	Cycles           prometheus.Counter
	Events           *prometheus.CounterVec
	Alerts           *prometheus.CounterVec
	Downgrades       prometheus.Counter
	SentinelClusters prometheus.Counter
	InactiveNodes    prometheus.Gauge
}

// New creates and registers the simulation metrics on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bordersentry_cycles_total",
		Help: "Completed simulation cycles.",
	})
	m.Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bordersentry_events_total",
		Help: "Detection events emitted, by final label.",
	}, []string{"label"})
	m.Alerts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bordersentry_alerts_total",
		Help: "Alerts dispatched, by severity.",
	}, []string{"severity"})
	m.Downgrades = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bordersentry_verification_downgrades_total",
		Help: "Detections downgraded to normal by the verification stage.",
	})
	m.SentinelClusters = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bordersentry_sentinel_clusters_total",
		Help: "Cluster-cycles with zero active nodes.",
	})
	m.InactiveNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bordersentry_inactive_nodes",
		Help: "Sensor nodes currently inactive on battery.",
	})

	m.registry.MustRegister(m.Cycles, m.Events, m.Alerts, m.Downgrades, m.SentinelClusters, m.InactiveNodes)
	return m
}

// Handler returns the scrape handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
