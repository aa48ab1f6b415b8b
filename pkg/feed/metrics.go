package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	duplicatesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedview_duplicates_dropped_total",
			Help: "Raw feed records discarded by identity-key deduplication.",
		},
	)

	revealRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedview_reveal_requests_total",
			Help: "Reveal requests accepted while idle.",
		},
	)

	revealsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedview_reveals_applied_total",
			Help: "Reveals that made more messages visible.",
		},
	)

	deletesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedview_deletes_total",
			Help: "Messages removed from the store.",
		},
	)

	formatFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedview_format_fallbacks_total",
			Help: "Timestamps rendered with the fallback string.",
		},
	)

	storeSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedview_store_messages",
			Help: "Deduplicated messages currently in the store.",
		},
	)

	revealedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedview_store_revealed",
			Help: "Messages currently revealed to the view.",
		},
	)

	revealDelay = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedview_reveal_delay_seconds",
			Help:    "Observed request-to-apply latency of reveals.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(duplicatesDropped)
	prometheus.MustRegister(revealRequests)
	prometheus.MustRegister(revealsApplied)
	prometheus.MustRegister(deletesTotal)
	prometheus.MustRegister(formatFallbacks)
	prometheus.MustRegister(storeSize)
	prometheus.MustRegister(revealedGauge)
	prometheus.MustRegister(revealDelay)
}

// CountFormatFallback records a timestamp that rendered via the fallback
// path. The view layer calls this; timefmt itself stays dependency-free.
func CountFormatFallback() {
	formatFallbacks.Inc()
}
