package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wsafety/desk/pkg/core/notify"
)

// Metrics counts workflow operations from their notifications
type Metrics struct {
	Issued   *prometheus.CounterVec
	Settled  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// New registers the workflow metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Issued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_operations_issued_total",
			Help: "Total number of workflow operations issued",
		}, []string{"operation"}),
		Settled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_operations_settled_total",
			Help: "Total number of workflow operations settled, by outcome",
		}, []string{"operation", "phase"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "desk_operation_duration_seconds",
			Help:    "Time from issue to settlement of workflow operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}
}

// Notify implements notify.Sink
func (m *Metrics) Notify(msg notify.Message) {
	if !msg.Phase.Terminal() {
		m.Issued.WithLabelValues(msg.Operation).Inc()
		return
	}
	m.Settled.WithLabelValues(msg.Operation, string(msg.Phase)).Inc()
	if msg.Elapsed > 0 {
		m.Duration.WithLabelValues(msg.Operation).Observe(msg.Elapsed.Seconds())
	}
}
