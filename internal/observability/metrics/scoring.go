package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "resume_ranker"

// scoringCollectors are shared by the API and the worker so both expose the
// same score series.
type scoringCollectors struct {
	rankTotal     *prometheus.CounterVec
	compareTotal  *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	percentage    *prometheus.HistogramVec
}

func newScoringCollectors() *scoringCollectors {
	return &scoringCollectors{
		rankTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "rank_total",
				Help:      "Completed resume rankings by category.",
			},
			[]string{"service", "source", "category"},
		),
		compareTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "compare_total",
				Help:      "Completed resume comparisons.",
			},
			[]string{"service", "source"},
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "failures_total",
				Help:      "Failed scoring operations by error kind.",
			},
			[]string{"service", "operation", "kind"},
		),
		percentage: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "percentage",
				Help:      "Distribution of produced percentages.",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"service", "operation"},
		),
	}
}

func (c *scoringCollectors) register(registry *prometheus.Registry) {
	registry.MustRegister(c.rankTotal, c.compareTotal, c.failuresTotal, c.percentage)
}

func (c *scoringCollectors) recordRank(service, source, category string, percentage float64) {
	c.rankTotal.WithLabelValues(service, labelOrUnknown(source), labelOrUnknown(category)).Inc()
	c.percentage.WithLabelValues(service, "rank").Observe(percentage)
}

func (c *scoringCollectors) recordCompare(service, source string, percentage float64) {
	c.compareTotal.WithLabelValues(service, labelOrUnknown(source)).Inc()
	c.percentage.WithLabelValues(service, "compare").Observe(percentage)
}

func (c *scoringCollectors) recordFailure(service, operation, kind string) {
	c.failuresTotal.WithLabelValues(service, labelOrUnknown(operation), labelOrUnknown(kind)).Inc()
}

func labelOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
