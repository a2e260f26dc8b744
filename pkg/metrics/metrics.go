// Package metrics exports transfer coordination statistics to Prometheus.
//
// Metrics is a trace.Logger: pass it to the WithTrace option of the group
// types, on its own or next to other loggers in a trace.MultiLogger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/devaccess/devaccess-go/pkg/trace"
)

const namespace = "devaccess"

// Metrics holds the collectors fed from trace events.
type Metrics struct {
	Operations     *prometheus.CounterVec
	Errors         *prometheus.CounterVec
	Transfers      *prometheus.CounterVec
	DataLost       prometheus.Counter
	Duration       *prometheus.HistogramVec
	Updates        *prometheus.CounterVec
	ConsistentSets prometheus.Counter
	Merges         prometheus.Counter
	LastVersion    prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "operations_total",
			Help:      "Completed coordination operations by component and operation.",
		}, []string{"component", "op"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "errors_total",
			Help:      "Failed coordination operations by component and operation.",
		}, []string{"component", "op"}),
		Transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "physical_transfers_total",
			Help:      "Physical transfers performed by batched reads and writes.",
		}, []string{"op"}),
		DataLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "data_lost_total",
			Help:      "Writes that reported lost data.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "duration_seconds",
			Help:      "Duration of reads, writes and waits.",
			Buckets:   []float64{1e-5, 1e-4, 1e-3, 5e-3, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"component", "op"}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "readany",
			Name:      "updates_total",
			Help:      "Updates returned by read-any waits per element.",
		}, []string{"element"}),
		ConsistentSets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consistency",
			Name:      "complete_sets_total",
			Help:      "Generations reported complete by consistency groups.",
		}),
		Merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "group",
			Name:      "merged_elements_total",
			Help:      "Elements replaced while merging transfer group members.",
		}),
		LastVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "last_version",
			Help:      "Newest version number seen in a trace event.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Operations, m.Errors, m.Transfers, m.DataLost, m.Duration,
		m.Updates, m.ConsistentSets, m.Merges, m.LastVersion,
	}
}

// Log updates the collectors from one event.
func (m *Metrics) Log(event trace.Event) {
	component := event.Component.String()

	if event.Category == trace.CategoryError {
		m.Errors.WithLabelValues(component, event.Op).Inc()
		return
	}
	m.Operations.WithLabelValues(component, event.Op).Inc()

	switch {
	case event.Op == "dedup":
		m.Merges.Inc()
	case event.Component == trace.ComponentGroup && event.Category == trace.CategoryTransfer:
		m.Transfers.WithLabelValues(event.Op).Add(float64(event.Elements))
		if event.DataLost {
			m.DataLost.Inc()
		}
	case event.Component == trace.ComponentReadAny && event.Op == "waitAny":
		m.Updates.WithLabelValues(event.ElementName).Inc()
	case event.Component == trace.ComponentConsistency && event.Consistent:
		m.ConsistentSets.Inc()
	}

	if event.Duration > 0 {
		m.Duration.WithLabelValues(component, event.Op).Observe(event.Duration.Seconds())
	}
	if event.Version > 0 {
		m.LastVersion.Set(float64(event.Version))
	}
}

var _ trace.Logger = (*Metrics)(nil)
