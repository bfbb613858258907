package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the address cache and the provider fallback chain.
type Metrics struct {
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheErrors     prometheus.Counter
	ProviderLookups *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// New registers the address metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "clientreg_address_cache_hits_total",
			Help: "Address cache lookups served from the cache",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "clientreg_address_cache_misses_total",
			Help: "Address cache lookups that fell through to the resolver",
		}),
		CacheErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "clientreg_address_cache_errors_total",
			Help: "Address cache operations that failed and were skipped",
		}),
		ProviderLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clientreg_address_provider_lookups_total",
			Help: "Provider lookups by provider and outcome category",
		}, []string{"provider", "outcome"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clientreg_address_resolve_duration_seconds",
			Help:    "Duration of a full provider fallback pass",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) RecordCacheError() {
	if m == nil {
		return
	}
	m.CacheErrors.Inc()
}

// RecordProviderLookup counts one provider call; outcome is "success" or a
// provider error category.
func (m *Metrics) RecordProviderLookup(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderLookups.WithLabelValues(provider, outcome).Inc()
}

// ObserveResolve records the duration of a resolve call started at start.
func (m *Metrics) ObserveResolve(start time.Time) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
