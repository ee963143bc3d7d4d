package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quyca"

// Metrics holds the Prometheus counters and gauges for the monitor loop.
type Metrics struct {
	Ticks         prometheus.Counter
	TickErrors    prometheus.Counter
	Regenerations prometheus.Counter
	Temperature   prometheus.Gauge
	// ReadingTier is 0 Normal, 1 Riesgo, 2 Crítico.
	ReadingTier prometheus.Gauge
	// ReadingsRetained is the size of the in-memory reading log.
	ReadingsRetained prometheus.Gauge

	Alerts        *prometheus.CounterVec // labels: tier, source
	Verifications *prometheus.CounterVec // labels: fire={yes,no}

	Subscribers      prometheus.Gauge
	DroppedSnapshots prometheus.Counter
	WSClients        prometheus.Gauge
}

// NewMetrics creates and registers all monitor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total refresh ticks processed.",
		}),
		TickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tick_errors_total",
			Help:      "Ticks whose side effects failed.",
		}),
		Regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_regenerations_total",
			Help:      "Times the 24-hour series was redrawn on a tick.",
		}),
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Latest instantaneous reading in °C.",
		}),
		ReadingTier: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading_tier",
			Help:      "Risk tier of the latest reading: 0 Normal, 1 Riesgo, 2 Crítico.",
		}),
		ReadingsRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "readings_retained",
			Help:      "Readings currently held in the bounded reading log.",
		}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts raised by tier and source.",
		}, []string{"tier", "source"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_verifications_total",
			Help:      "Operator photo verifications by verdict.",
		}, []string{"fire"}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_subscribers",
			Help:      "Active snapshot subscribers.",
		}),
		DroppedSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_dropped_total",
			Help:      "Snapshots skipped because a subscriber was not keeping up.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected WebSocket clients.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Ticks,
		m.TickErrors,
		m.Regenerations,
		m.Temperature,
		m.ReadingTier,
		m.ReadingsRetained,
		m.Alerts,
		m.Verifications,
		m.Subscribers,
		m.DroppedSnapshots,
		m.WSClients,
	}
}
