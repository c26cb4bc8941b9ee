package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		PurchaseVerifyRequests,
		PurchaseVerifyDuration,
		MarketLookupRequests,
	)
}

var (
	// Count of verify-purchase calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): empty_code|invalid_code|transport_failure
	PurchaseVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_verify_requests_total",
			Help: "Count of marketplace verify-purchase calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	PurchaseVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_verify_duration_seconds",
			Help:    "Duration of marketplace verify-purchase calls in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
		[]string{"result"},
	)

	// endpoint: item|user
	MarketLookupRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envato_lookup_requests_total",
			Help: "Count of marketplace catalog lookups by endpoint and result.",
		},
		[]string{"endpoint", "result"},
	)
)

// ObserveVerify records one verify call. reason is ignored on success.
func ObserveVerify(reason string, started time.Time) {
	result := "ok"
	if reason != "" {
		result = "fail"
	}
	PurchaseVerifyRequests.WithLabelValues(result, norm(reason)).Inc()
	PurchaseVerifyDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

func IncLookup(endpoint string, ok bool) {
	result := "ok"
	if !ok {
		result = "fail"
	}
	MarketLookupRequests.WithLabelValues(norm(endpoint), result).Inc()
}
