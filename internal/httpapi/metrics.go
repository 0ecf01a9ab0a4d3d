// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promHandler exposes the process's registered Prometheus collectors
// (internal/metrics, internal/backoff, internal/cacheaside,
// internal/pipeline), the same /metrics mount cartographus wires for
// its own promauto registry.
func promHandler() http.HandlerFunc {
	return promhttp.Handler().ServeHTTP
}
