// Package metrics exposes Prometheus counters for API calls, cache lookups
// and submissions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clickform"

// Registry holds every clickform collector.
var Registry = prometheus.NewRegistry()

var (
	// APIRequests counts remote API calls by HTTP method and outcome
	// (ok, transport, invalid_token, api_error).
	APIRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Remote API requests by method and outcome.",
	}, []string{"method", "outcome"})

	// CacheLookups counts lookup cache reads by resource and result (hit, miss).
	CacheLookups = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Lookup cache reads by resource and result.",
	}, []string{"resource", "result"})

	// Submissions counts orchestration runs by action kind and result.
	Submissions = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Form submissions processed by action kind and result.",
	}, []string{"kind", "result"})
)

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
