// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Search pipeline stages (embedding, vector search, catalog join)
// - Cache efficiency (query and embedding caches)
// - Embedding API budgets and circuit breaker state
// - User-data store (DuckDB) query performance

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Search Pipeline Metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Total number of recommendation searches",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "End-to-end search duration in seconds (cache misses only)",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_result_count",
			Help:    "Number of results returned per search",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 50},
		},
	)

	VectorSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vector_search_duration_seconds",
			Help:    "Duration of vector index queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	VectorIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vector_index_entries",
			Help: "Current number of embeddings in the vector index",
		},
	)

	// Embedding API Metrics
	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding API calls",
		},
		[]string{"result"}, // "success", "failure", "rate_limited"
	)

	EmbeddingRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbeddingRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_retries_total",
			Help: "Total number of embedding API retry attempts",
		},
	)

	EmbeddingRequestsThisMinute = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embedding_requests_this_minute",
			Help: "Embedding API calls in the current sliding minute window",
		},
	)

	EmbeddingRequestsToday = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embedding_requests_today",
			Help: "Embedding API calls counted against the daily budget",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "query", "embedding"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or capacity)",
		},
		[]string{"cache_type"},
	)

	// Database Metrics (user-data store)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSearch records the outcome of a recommendation search.
// result is "hit", "miss", or "error". Duration is only observed for
// misses since cache hits don't exercise the pipeline.
func RecordSearch(result string, duration time.Duration, resultCount int) {
	SearchesTotal.WithLabelValues(result).Inc()
	if result == "miss" {
		SearchDuration.Observe(duration.Seconds())
	}
	if result != "error" {
		SearchResultCount.Observe(float64(resultCount))
	}
}

// RecordVectorSearch records a vector index query
func RecordVectorSearch(duration time.Duration) {
	VectorSearchDuration.Observe(duration.Seconds())
}

// RecordEmbeddingRequest records an embedding API call outcome
func RecordEmbeddingRequest(result string, duration time.Duration) {
	EmbeddingRequestsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		EmbeddingRequestDuration.Observe(duration.Seconds())
	}
}

// UpdateEmbeddingBudgets updates the rate limiter gauges
func UpdateEmbeddingBudgets(thisMinute, today int64) {
	EmbeddingRequestsThisMinute.Set(float64(thisMinute))
	EmbeddingRequestsToday.Set(float64(today))
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// UpdateCacheGauges syncs cache gauge metrics from a stats snapshot
func UpdateCacheGauges(cacheType string, entries int64) {
	CacheSize.WithLabelValues(cacheType).Set(float64(entries))
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
