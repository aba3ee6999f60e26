package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "charger"

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "Total number of HTTP requests by route and status.",
}, []string{"method", "route", "status"})

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

var catalogQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "catalog_queries_total",
	Help:      "Station queries by operation and outcome.",
}, []string{"operation", "outcome"})

var catalogMatches = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "catalog_matches",
	Help:      "Number of stations returned per query.",
	Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
}, []string{"operation"})

var cacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "cache_results_total",
	Help:      "Cache lookups by cache name and result.",
}, []string{"cache", "result"})

var breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "circuit_breaker_state",
	Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
}, []string{"name"})

var workerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "worker_messages_total",
	Help:      "Stream messages processed by worker and outcome.",
}, []string{"worker", "outcome"})

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if len(route) == 0 {
		return
	}
	httpRequests.With(prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}).Inc()
	httpDuration.With(prometheus.Labels{"method": method, "route": route}).Observe(elapsed.Seconds())
}

func CountCatalogQuery(operation, outcome string) {
	catalogQueries.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}

func ObserveMatches(operation string, count int) {
	catalogMatches.With(prometheus.Labels{"operation": operation}).Observe(float64(count))
}

func CountCacheResult(cache, result string) {
	cacheResults.With(prometheus.Labels{"cache": cache, "result": result}).Inc()
}

func ObserveBreakerState(name string, state int) {
	breakerState.With(prometheus.Labels{"name": name}).Set(float64(state))
}

func CountWorkerMessage(worker, outcome string) {
	workerMessages.With(prometheus.Labels{"worker": worker, "outcome": outcome}).Inc()
}
