// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evesrp_list_requests_total",
		Help: "Request list loads by scope and outcome.",
	}, []string{"scope", "outcome"})

	ListDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evesrp_list_duration_seconds",
		Help:    "Time to load one page of a request list.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"scope"})

	CanonicalRedirectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evesrp_canonical_redirects_total",
		Help: "List URLs redirected to their canonical filter path.",
	})

	StatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evesrp_status_changes_total",
		Help: "Request status changes by target status.",
	}, []string{"status"})

	APIKeyAuthFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evesrp_api_key_auth_failures_total",
		Help: "Bearer tokens rejected by the API.",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evesrp_choice_cache_lookups_total",
		Help: "Filter choice cache lookups by result.",
	}, []string{"result"})
)
