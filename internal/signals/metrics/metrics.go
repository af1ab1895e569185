package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AggregationRuns     *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
	AlertsEmitted       *prometheus.CounterVec
	EventsRecorded      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AggregationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "teampulse_signals_aggregation_runs_total",
			Help: "Total number of aggregation runs by outcome",
		}, []string{"outcome"}),
		AggregationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "teampulse_signals_aggregation_duration_seconds",
			Help:    "Wall time of a single manager aggregation run",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		AlertsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "teampulse_signals_alerts_emitted_total",
			Help: "Total number of alerts emitted by alert type",
		}, []string{"type"}),
		EventsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "teampulse_signals_events_recorded_total",
			Help: "Total number of signal events recorded",
		}),
	}
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	m.AggregationRuns.WithLabelValues(outcome).Inc()
	m.AggregationDuration.Observe(d.Seconds())
}

func (m *Metrics) IncrementAlerts(alertType string) {
	m.AlertsEmitted.WithLabelValues(alertType).Inc()
}

func (m *Metrics) IncrementEventsRecorded() {
	m.EventsRecorded.Inc()
}
