package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session validation path.
// The hit/miss split is the whole point of the token cache; watch it.
type Metrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheErrors      prometheus.Counter
	ValidateDuration prometheus.Histogram
}

// New creates a Metrics instance with all auth module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stash_session_cache_hits_total",
			Help: "Total session validations served from the token cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stash_session_cache_misses_total",
			Help: "Total session validations that fell back to the session store",
		}),
		CacheErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stash_session_cache_errors_total",
			Help: "Total token cache failures degraded to store lookups",
		}),
		ValidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stash_session_validate_duration_seconds",
			Help:    "Duration of session token validation (auth critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveValidate records the duration of a ValidateToken call.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveValidate(start time.Time) {
	m.ValidateDuration.Observe(time.Since(start).Seconds())
}
