package i18n

import "github.com/prometheus/client_golang/prometheus"

// Lookup results recorded by the cache.
const (
	resultIdentity = "identity"
	resultHit      = "hit"
	resultMiss     = "miss"
	resultFailed   = "failed"
)

var (
	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_lookups_total",
			Help: "Translation cache lookups by result (identity, hit, miss, failed).",
		},
		[]string{"result"},
	)
	providerErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_provider_errors_total",
			Help: "Translation provider calls that failed and fell back to the original text.",
		},
	)
	writeConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_cache_conflicts_total",
			Help: "Cache inserts that lost a race to a concurrent writer.",
		},
	)
	invalidated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_invalidated_total",
			Help: "Cached translations deleted by invalidation, by entity type.",
		},
		[]string{"entity_type"},
	)
)

func init() {
	prometheus.MustRegister(lookups, providerErrors, writeConflicts, invalidated)
}
