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
	"github.com/kinoscope/catalog/internal/searchindex"
)

// getFilm handles GET /api/v1/films/{film_id}.
func (h *handler) getFilm(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "film_id")

	film, err := h.svc.Films.GetByID(r.Context(), filmID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeNotFound(w, "film not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, film)
}

// listFilms handles GET /api/v1/films/ with sort/paging/genre_id.
func (h *handler) listFilms(w http.ResponseWriter, r *http.Request) {
	paging, err := parsePaging(r)
	if err != nil {
		writeUnprocessable(w, err.Error())
		return
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = "imdb_rating"
	}
	genreID := r.URL.Query().Get("genre_id")

	films, err := h.svc.Films.GetBySort(r.Context(), sort, paging.PageSize, paging.PageNumber, genreID)
	if err != nil {
		switch {
		case errors.Is(err, query.ErrNotFound):
			writeJSON(w, http.StatusOK, []any{})
		case errors.Is(err, searchindex.ErrInvalidSort):
			writeUnprocessable(w, err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, films)
}

// searchFilms handles GET /api/v1/films/search with film_title/paging.
func (h *handler) searchFilms(w http.ResponseWriter, r *http.Request) {
	paging, err := parsePaging(r)
	if err != nil {
		writeUnprocessable(w, err.Error())
		return
	}

	title := r.URL.Query().Get("film_title")

	films, err := h.svc.Films.GetByQuery(r.Context(), title, paging.PageSize, paging.PageNumber)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, films)
}
