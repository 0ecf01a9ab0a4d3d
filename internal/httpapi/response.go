// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package httpapi is the thin HTTP edge of SPEC_FULL.md §6: a chi
// router mounting the eight read-only routes over the three query
// services, grounded on cartographus's internal/api (chi_router.go's
// route composition, response.go's writer helpers) but answering with
// spec.md §6's own envelope — bare JSON on success, `{"detail": "..."}`
// on 404/422 — instead of the teacher's enveloped APIResponse/APIError.
package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kinoscope/catalog/internal/logging"
)

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("httpapi: failed to encode response")
	}
}

// detailBody is spec.md §6's error shape: `{"detail": "<message>"}`.
type detailBody struct {
	Detail string `json:"detail"`
}

// writeDetail answers with the spec's required error envelope.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, detailBody{Detail: message})
}

// writeNotFound answers 404 with the given resource description.
func writeNotFound(w http.ResponseWriter, message string) {
	writeDetail(w, http.StatusNotFound, message)
}

// writeUnprocessable answers 422 for invalid paging/query parameters
// (spec.md §6: "Invalid paging → 422").
func writeUnprocessable(w http.ResponseWriter, message string) {
	writeDetail(w, http.StatusUnprocessableEntity, message)
}

// writeInternalError answers 500 for unexpected collaborator failures.
func writeInternalError(w http.ResponseWriter, err error) {
	logging.Error().Err(err).Msg("httpapi: internal error")
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}
