package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SectionScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "section_score",
			Help:    "Completeness score of saved institution sections",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"section"},
	)

	BatchURLCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_url_cache_total",
			Help: "Presigned URL cache lookups by result",
		},
		[]string{"result"},
	)
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
