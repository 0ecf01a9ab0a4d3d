// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kinoscope/catalog/internal/query"
)

// listGenres handles GET /api/v1/genres/.
func (h *handler) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Genres.GetAll(r.Context())
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// getGenre handles GET /api/v1/genres/{genre_id}.
func (h *handler) getGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre_id")

	genre, err := h.svc.Genres.GetByID(r.Context(), genreID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeNotFound(w, "genre not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}
