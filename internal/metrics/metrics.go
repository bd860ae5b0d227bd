// Package metrics provides Prometheus metrics for the auction pipeline.
//
// Key metrics:
//   - Refresh outcomes (fresh, degraded, failed) and durations
//   - Upstream request counts by endpoint and result
//   - Background name-prefetch activity
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcome label values.
const (
	OutcomeFresh    = "fresh"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Metrics holds the pipeline's Prometheus instruments.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	UpstreamTotal   *prometheus.CounterVec
	NamePrefetches  prometheus.Counter
}

// New registers the pipeline metrics with the given registerer. Pass
// prometheus.DefaultRegisterer outside tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auctiondata",
			Name:      "refresh_total",
			Help:      "Refresh attempts by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "auctiondata",
			Name:      "refresh_duration_seconds",
			Help:      "End-to-end refresh duration.",
			Buckets:   prometheus.DefBuckets,
		}),
		UpstreamTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auctiondata",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by endpoint and result.",
		}, []string{"endpoint", "result"}),
		NamePrefetches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "auctiondata",
			Name:      "name_prefetch_total",
			Help:      "Background buyer-name prefetch runs.",
		}),
	}
}

// ObserveRefresh records one refresh outcome and its duration in seconds.
// Nil receivers are allowed so metrics stay optional.
func (m *Metrics) ObserveRefresh(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(outcome).Inc()
	m.RefreshDuration.Observe(seconds)
}

// CountUpstream records one upstream API request by endpoint and result
// label. Shaped to plug straight into the API client's observer hook.
func (m *Metrics) CountUpstream(endpoint, result string) {
	if m == nil {
		return
	}
	m.UpstreamTotal.WithLabelValues(endpoint, result).Inc()
}

// CountPrefetch records one background prefetch run.
func (m *Metrics) CountPrefetch() {
	if m == nil {
		return
	}
	m.NamePrefetches.Inc()
}
