// Package metrics exposes synchronization counters for prometheus
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "videosync"

// Record outcomes
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Metrics holds the run collectors
type Metrics struct {
	registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	Records       *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	FetchDuration *prometheus.HistogramVec
	Running       prometheus.Gauge
}

// New registers the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Synchronization runs by final status.",
		}, []string{"status"}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Provider records processed by origin and outcome.",
		}, []string{"origin", "result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of synchronization runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of provider fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"origin"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a synchronization run is in progress.",
		}),
	}

	m.registry.MustRegister(m.Runs, m.Records, m.RunDuration, m.FetchDuration, m.Running)
	return m
}

// Handler serves the collectors in the exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
