package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Health struct {
	Writes       prometheus.Counter
	WriteErrors  prometheus.Counter
	Rows         prometheus.Counter
	WriteSeconds prometheus.Histogram
}

// NewHealth registers the write metrics with reg. A nil reg leaves them unregistered.
func NewHealth(reg prometheus.Registerer) *Health {
	factory := promauto.With(reg)

	return &Health{
		Writes: factory.NewCounter(prometheus.CounterOpts{
			Name: "protolist_writes_total",
			Help: "Total number of payloads written to the sink",
		}),
		WriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "protolist_write_errors_total",
			Help: "Total number of failed payload writes",
		}),
		Rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "protolist_rows_total",
			Help: "Total number of rows written to the sink",
		}),
		WriteSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "protolist_write_seconds",
			Help:    "Latency of payload writes",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
