// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kinoscope/catalog/internal/logging"
)

// RequestID middleware assigns a request ID to every incoming query, so a
// slow or failing film/genre/person lookup can be traced through the cache
// and search-index logs it passes through. It populates both request_id
// and correlation_id on the context for internal/logging.Ctx.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next(w, r.WithContext(ctx))
	}
}
