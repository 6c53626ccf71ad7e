package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunMetrics holds the Prometheus metrics for one partition run. They live in
// a private registry and are exported through a node-exporter textfile.
type RunMetrics struct {
	registry *prometheus.Registry

	BucketsTotal     prometheus.Counter
	MessagesTotal    prometheus.Counter
	PhotosTotal      *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	LastRunSuccess   prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &RunMetrics{
		registry: reg,
		BucketsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chatsplit",
			Name:      "buckets_total",
			Help:      "Number of buckets materialized.",
		}),
		MessagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chatsplit",
			Name:      "messages_total",
			Help:      "Number of messages written into buckets.",
		}),
		PhotosTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatsplit",
			Name:      "photos_total",
			Help:      "Photo relocations by status.",
		}, []string{"status"}), // status: moved, missing, failed
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "chatsplit",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "chatsplit",
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it aborted.",
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "chatsplit",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

// ObserveBucket records one materialized bucket. Safe on a nil receiver.
func (m *RunMetrics) ObserveBucket(messages, moved, missing, failed int) {
	if m == nil {
		return
	}
	m.BucketsTotal.Inc()
	m.MessagesTotal.Add(float64(messages))
	m.PhotosTotal.WithLabelValues("moved").Add(float64(moved))
	m.PhotosTotal.WithLabelValues("missing").Add(float64(missing))
	m.PhotosTotal.WithLabelValues("failed").Add(float64(failed))
}

// ObserveRun records the outcome of a whole run. Safe on a nil receiver.
func (m *RunMetrics) ObserveRun(elapsed time.Duration, success bool, finished time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.Set(elapsed.Seconds())
	if success {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}

func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format, atomically
// replacing path.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
