package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	messageTotal    *prometheus.CounterVec
	messageDuration *prometheus.HistogramVec
	messageInFlight prometheus.Gauge

	scoring *scoringCollectors
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	messageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "messages_total",
			Help:      "Total handled scoring requests by subject and status.",
		},
		[]string{"service", "subject", "status"},
	)
	messageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "message_duration_seconds",
			Help:      "Scoring request handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "subject"},
	)
	messageInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "messages_in_flight",
			Help:      "Number of scoring requests being handled.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	scoring := newScoringCollectors()

	registry.MustRegister(messageTotal, messageDuration, messageInFlight)
	scoring.register(registry)

	return &WorkerMetrics{
		registry:        registry,
		messageTotal:    messageTotal,
		messageDuration: messageDuration,
		messageInFlight: messageInFlight,
		scoring:         scoring,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartMessage() {
	m.messageInFlight.Inc()
}

func (m *WorkerMetrics) FinishMessage(service, subject string, duration time.Duration, err error) {
	m.messageInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.messageTotal.WithLabelValues(service, subject, status).Inc()
	m.messageDuration.WithLabelValues(service, subject).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordRank(service, source, category string, percentage float64) {
	m.scoring.recordRank(service, source, category, percentage)
}

func (m *WorkerMetrics) RecordCompare(service, source string, percentage float64) {
	m.scoring.recordCompare(service, source, percentage)
}

func (m *WorkerMetrics) RecordFailure(service, operation, kind string) {
	m.scoring.recordFailure(service, operation, kind)
}
