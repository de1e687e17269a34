package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campo_api_requests_total",
			Help: "Total number of outbound API requests by method and outcome",
		},
		[]string{"method", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campo_api_request_duration_seconds",
			Help:    "Outbound API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
	AuthExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campo_api_auth_expired_total",
			Help: "Total number of 401 responses that reset the session",
		},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campo_redis_operation_duration_seconds",
			Help:    "Redis session store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campo_redis_errors_total",
			Help: "Total number of Redis session store errors",
		},
		[]string{"operation"},
	)
	ImportedListingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campo_import_listings_total",
			Help: "Listings processed by the importer by result",
		},
		[]string{"result"},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(APIRequestsTotal)
		prometheus.MustRegister(APIRequestDuration)
		prometheus.MustRegister(AuthExpiredTotal)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(ImportedListingsTotal)
	})
}
