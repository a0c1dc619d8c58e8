package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters are package-level so that per-test Cache instances do
// not attempt duplicate registration.
var (
	lookupCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by namespace and result",
		},
		[]string{"namespace", "result"},
	)

	setCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "cache_sets_total",
			Help:      "Cache writes by namespace",
		},
		[]string{"namespace"},
	)

	invalidationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studytrack",
			Name:      "cache_invalidations_total",
			Help:      "Cache entries invalidated by namespace",
		},
		[]string{"namespace"},
	)
)

func observeLookup(ns Namespace, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	lookupCounter.WithLabelValues(string(ns), result).Inc()
}

func observeSet(ns Namespace) {
	setCounter.WithLabelValues(string(ns)).Inc()
}

func observeInvalidation(ns Namespace) {
	invalidationCounter.WithLabelValues(string(ns)).Inc()
}
