package iiif

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the pipeline runs.
type Metrics struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iiif_requests_total",
			Help: "Total number of image requests processed.",
		}, []string{"format", "quality"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iiif_failures_total",
			Help: "Total number of failed image requests, by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "iiif_process_duration_seconds",
			Help:    "The duration of a whole pipeline run in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // from 5ms to ~10s
		}),
	}

	reg.MustRegister(m.requests, m.failures, m.duration)
	return m
}

func (m *Metrics) observe(req *ImageRequest, start time.Time, err error) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(req.Format.String(), req.Quality.String()).Inc()
	m.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind, ok := KindOf(err)
		label := "unknown"
		if ok {
			label = kind.String()
		}
		m.failures.WithLabelValues(label).Inc()
	}
}
