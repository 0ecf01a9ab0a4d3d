// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

/*
Package middleware provides the HTTP ambient layer shared by every handler in
internal/httpapi: gzip compression, request ID propagation, and Prometheus
request instrumentation.

Stack as internal/httpapi.NewRouter installs it, outermost first (after
chi's RealIP and Recoverer):

	middleware.RequestID(
	    middleware.Compression(
	        middleware.PrometheusMetrics(
	            cors.Handler(
	                httprate.LimitByIP(...)(handler),
	            ),
	        ),
	    ),
	)

RequestID forwards the client's X-Request-ID (or assigns a new one) and
stores it, together with a newly generated correlation ID, on the
request context for internal/logging. Compression gzips responses
when the client advertises Accept-Encoding: gzip. PrometheusMetrics records
per-route latency and status code counts via internal/metrics, using the
chi route pattern rather than the raw path as its label.
*/
package middleware
