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

// getPerson handles GET /api/v1/persons/{person_id}.
func (h *handler) getPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	person, err := h.svc.Persons.GetByID(r.Context(), personID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, person)
}

// getPersonFilms handles GET /api/v1/persons/{person_id}/film/.
func (h *handler) getPersonFilms(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	films, err := h.svc.Persons.GetFilmsForPerson(r.Context(), personID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, films)
}

// searchPersons handles GET /api/v1/persons/search/ with
// person_name/paging.
func (h *handler) searchPersons(w http.ResponseWriter, r *http.Request) {
	paging, err := parsePaging(r)
	if err != nil {
		writeUnprocessable(w, err.Error())
		return
	}

	name := r.URL.Query().Get("person_name")

	persons, err := h.svc.Persons.SearchPerson(r.Context(), name, paging.PageSize, paging.PageNumber)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, persons)
}
