// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the application with the Prometheus client library,
exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Search pipeline stages (embedding calls, vector index queries)
  - Cache hit/miss/eviction rates for the query and embedding caches
  - Embedding API budget consumption and circuit breaker state
  - DuckDB query performance for the user-data store

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Conventions

All metrics are registered at package load via promauto and shared as
package-level variables. Helper functions (RecordSearch, RecordDBQuery,
RecordEmbeddingRequest) bundle the common multi-metric updates so call
sites stay one line.
*/
package metrics
