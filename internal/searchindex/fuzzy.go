// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package searchindex

import (
	"context"
	"fmt"

	"github.com/kinoscope/catalog/internal/models"
)

// defaultFuzzyScore is the minimum RapidFuzz similarity (0-100) a row
// must clear to be considered a match under `fuzziness: AUTO`
// (SPEC_FULL.md §4.9's `get_by_query`/`search_person`).
const defaultFuzzyScore = 60

// SearchMoviesByTitle runs a fuzzy match of query against movie titles,
// paginated by page_size/page_number, using the RapidFuzz extension
// when available and falling back to a case-insensitive substring match
// otherwise, mirroring cartographus's FuzzySearchPlaybacks split between
// fuzzySearchPlaybacksWithRapidFuzz and fuzzySearchPlaybacksFallback.
func (idx *Index) SearchMoviesByTitle(ctx context.Context, query string, pageSize, pageNumber int) ([]models.ShortFilm, error) {
	from := pageSize * (pageNumber - 1)

	var sqlQuery string
	var args []any
	if idx.rapidfuzzAvailable {
		sqlQuery = `
			SELECT id, title, rating FROM (
				SELECT id, title, rating,
					rapidfuzz_ratio(LOWER(title), LOWER(?))::INTEGER AS score
				FROM movies
			) scored
			WHERE score >= ?
			ORDER BY score DESC, title ASC
			LIMIT ? OFFSET ?`
		args = []any{query, defaultFuzzyScore, pageSize, from}
	} else {
		sqlQuery = `
			SELECT id, title, rating FROM movies
			WHERE LOWER(title) LIKE LOWER(?)
			ORDER BY title ASC
			LIMIT ? OFFSET ?`
		args = []any{"%" + query + "%", pageSize, from}
	}

	dbRows, err := idx.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searchindex: search movies by title: %w", err)
	}
	defer dbRows.Close()

	var out []models.ShortFilm
	for dbRows.Next() {
		var sf models.ShortFilm
		if err := dbRows.Scan(&sf.ID, &sf.Title, &sf.Rating); err != nil {
			return nil, fmt.Errorf("searchindex: scan fuzzy movie: %w", err)
		}
		out = append(out, sf)
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// SearchPersonsByName runs a fuzzy match of query against person
// full_name, paginated by page_size/page_number, same RapidFuzz/LIKE
// split as SearchMoviesByTitle.
func (idx *Index) SearchPersonsByName(ctx context.Context, query string, pageSize, pageNumber int) ([]models.Person, error) {
	from := pageSize * (pageNumber - 1)

	var sqlQuery string
	var args []any
	if idx.rapidfuzzAvailable {
		sqlQuery = `
			SELECT id, document FROM (
				SELECT id, document, full_name,
					rapidfuzz_ratio(LOWER(full_name), LOWER(?))::INTEGER AS score
				FROM persons
			) scored
			WHERE score >= ?
			ORDER BY score DESC, full_name ASC
			LIMIT ? OFFSET ?`
		args = []any{query, defaultFuzzyScore, pageSize, from}
	} else {
		sqlQuery = `
			SELECT id, document FROM persons
			WHERE LOWER(full_name) LIKE LOWER(?)
			ORDER BY full_name ASC
			LIMIT ? OFFSET ?`
		args = []any{"%" + query + "%", pageSize, from}
	}

	dbRows, err := idx.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searchindex: search persons by name: %w", err)
	}
	defer dbRows.Close()

	var out []models.Person
	for dbRows.Next() {
		var id, doc string
		if err := dbRows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("searchindex: scan fuzzy person: %w", err)
		}
		var p models.Person
		if err := unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("searchindex: decode person %s: %w", id, err)
		}
		out = append(out, p)
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
