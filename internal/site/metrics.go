package site

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts mutations and best-effort failures.
type Metrics struct {
	pledgesAdded   prometheus.Counter
	donationsAdded prometheus.Counter
	postMutations  *prometheus.CounterVec
	uploadFailures prometheus.Counter
	removeFailures prometheus.Counter
	reloadSeconds  prometheus.Histogram
}

// NewMetrics registers the site metrics on reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		pledgesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flabi_pledges_added_total",
			Help: "per-km pledges recorded",
		}),
		donationsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flabi_donations_added_total",
			Help: "fixed donations recorded",
		}),
		postMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flabi_post_mutations_total",
			Help: "blog post mutations by operation",
		}, []string{"op"}),
		uploadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "flabi_storage_upload_failures_total",
			Help: "image uploads that failed and were skipped",
		}),
		removeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "flabi_storage_remove_failures_total",
			Help: "image removals that failed and were ignored",
		}),
		reloadSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flabi_snapshot_reload_seconds",
			Help:    "time to load all four collections",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}
}
