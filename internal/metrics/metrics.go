// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package metrics exposes the Prometheus counters/histograms shared by
// cmd/etl and cmd/api, grounded on cartographus's internal/metrics
// package (promauto-registered vars plus small Record* helpers) but
// scoped down to the surfaces SPEC_FULL.md actually names: pipeline
// stage throughput/errors, cache hit/miss, and API request latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineBatchDuration tracks how long one pipeline task (films,
	// persons, genres, genre sync, person sync) takes per iteration.
	PipelineBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_pipeline_task_duration_seconds",
			Help:    "Duration of one ETL pipeline task iteration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)

	// PipelineDocumentsWritten counts documents successfully upserted
	// into the search index, per task.
	PipelineDocumentsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_pipeline_documents_written_total",
			Help: "Total documents upserted into the search index.",
		},
		[]string{"task"},
	)

	// PipelineTaskErrors counts failed pipeline iterations, per task.
	PipelineTaskErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_pipeline_task_errors_total",
			Help: "Total ETL pipeline task iterations that ended in error.",
		},
		[]string{"task"},
	)

	// WatermarkValue exposes each watermark as a Unix-seconds gauge, so
	// replication lag between source and index is visible at a glance.
	WatermarkValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_pipeline_watermark_unix_seconds",
			Help: "Current watermark value, in Unix seconds, per state key.",
		},
		[]string{"state_key"},
	)

	// CacheOperations counts cache-aside hits and misses, per query
	// operation (SPEC_FULL.md §4.8/§8's hit/miss equivalence property).
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_operations_total",
			Help: "Total cache-aside lookups, labeled by operation and outcome.",
		},
		[]string{"operation", "outcome"}, // outcome: hit, miss
	)

	// APIRequestDuration tracks per-route latency for the query API.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_api_request_duration_seconds",
			Help:    "Duration of an HTTP request handled by cmd/api.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestsTotal counts requests, per method, endpoint and status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_api_requests_total",
			Help: "Total HTTP requests handled by cmd/api.",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIActiveRequests tracks in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_api_active_requests",
			Help: "Number of HTTP requests currently being handled by cmd/api.",
		},
	)

	// CircuitBreakerState mirrors the gobreaker state for each guarded
	// connection (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_state",
			Help: "Circuit breaker state per guarded resource (0=closed, 1=half-open, 2=open).",
		},
		[]string{"resource"},
	)
)

// RecordPipelineTask records one pipeline task iteration's outcome.
func RecordPipelineTask(task string, duration time.Duration, written int, err error) {
	PipelineBatchDuration.WithLabelValues(task).Observe(duration.Seconds())
	PipelineDocumentsWritten.WithLabelValues(task).Add(float64(written))
	if err != nil {
		PipelineTaskErrors.WithLabelValues(task).Inc()
	}
}

// RecordWatermark updates the watermark gauge for stateKey.
func RecordWatermark(stateKey string, value time.Time) {
	WatermarkValue.WithLabelValues(stateKey).Set(float64(value.Unix()))
}

// RecordCacheHit records a cache-aside hit for operation.
func RecordCacheHit(operation string) {
	CacheOperations.WithLabelValues(operation, "hit").Inc()
}

// RecordCacheMiss records a cache-aside miss for operation.
func RecordCacheMiss(operation string) {
	CacheOperations.WithLabelValues(operation, "miss").Inc()
}

// RecordAPIRequest records one HTTP request's method, endpoint, status
// code and duration.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint, statusCode).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request
// gauge; callers pair a true call at request start with a deferred
// false call.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetCircuitBreakerState records a breaker's current state (matching
// gobreaker.State's String(): "closed", "half-open", "open").
func SetCircuitBreakerState(resource, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(resource).Set(v)
}
