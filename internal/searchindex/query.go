// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package searchindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kinoscope/catalog/internal/models"
)

// GetMovie fetches a single movie document by ID, the index-side half
// of FilmService.GetByID (SPEC_FULL.md §4.9).
func (idx *Index) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	var doc string
	err := idx.db.QueryRowContext(ctx, `SELECT document FROM movies WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("searchindex: get movie %s: %w", id, err)
	}

	var m models.Movie
	if err := unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("searchindex: decode movie %s: %w", id, err)
	}
	return &m, nil
}

// GetGenre fetches a single genre by ID.
func (idx *Index) GetGenre(ctx context.Context, id string) (*models.Genre, error) {
	var g models.Genre
	err := idx.db.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = ?`, id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("searchindex: get genre %s: %w", id, err)
	}
	return &g, nil
}

// FindGenreByName resolves a genre name to its document, the
// `match_phrase` step FilmService.GetByID uses to turn each of a
// movie's stored genre names into an {id, name} pair (SPEC_FULL.md
// §4.9).
func (idx *Index) FindGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	var g models.Genre
	err := idx.db.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE name = ?`, name).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("searchindex: find genre by name %q: %w", name, err)
	}
	return &g, nil
}

// ListGenres returns every genre, the index-side half of
// GenreService.GetAll.
func (idx *Index) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := idx.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("searchindex: list genres: %w", err)
	}
	defer rows.Close()

	var out []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("searchindex: scan genre: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// GetPerson fetches a single person document by ID.
func (idx *Index) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	var doc string
	err := idx.db.QueryRowContext(ctx, `SELECT document FROM persons WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("searchindex: get person %s: %w", id, err)
	}

	var p models.Person
	if err := unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("searchindex: decode person %s: %w", id, err)
	}
	return &p, nil
}

// MultiGetMovieProjections fetches the id/title/rating projection for a
// list of movie IDs in one round-trip, the multi-get step
// PersonService.GetFilmsForPerson uses once it has a person's film ID
// list (SPEC_FULL.md §4.9). Missing IDs are silently omitted, matching
// Elasticsearch multi-get semantics.
func (idx *Index) MultiGetMovieProjections(ctx context.Context, ids []string) ([]models.PersonFilm, error) {
	if len(ids) == 0 {
		return nil, ErrNotFound
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, title, rating FROM movies WHERE id IN (%s)`, placeholders)
	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searchindex: multi-get movies: %w", err)
	}
	defer rows.Close()

	var out []models.PersonFilm
	for rows.Next() {
		var pf models.PersonFilm
		if err := rows.Scan(&pf.ID, &pf.Title, &pf.Rating); err != nil {
			return nil, fmt.Errorf("searchindex: scan movie projection: %w", err)
		}
		out = append(out, pf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// SortField is one of the two sort keys FilmService.GetBySort accepts.
type SortField struct {
	Column     string
	Descending bool
}

// ErrInvalidSort is returned by ParseSort for any sort value other than
// "imdb_rating" or "-imdb_rating" — a client error, never an index
// failure, so callers can distinguish it from the other errors
// ParseSort's callers return.
var ErrInvalidSort = errors.New("searchindex: invalid sort")

// ParseSort validates a `^-?imdb_rating$` sort parameter (SPEC_FULL.md
// §4.9), returning the column to order by and its direction.
func ParseSort(sort string) (SortField, error) {
	switch sort {
	case "imdb_rating":
		return SortField{Column: "rating", Descending: false}, nil
	case "-imdb_rating":
		return SortField{Column: "rating", Descending: true}, nil
	default:
		return SortField{}, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}
}

// ListMoviesSorted returns the ShortFilm projection sorted by field,
// optionally filtered to one genre name, paginated by from/size
// (SPEC_FULL.md §4.9's `get_by_sort`).
func (idx *Index) ListMoviesSorted(ctx context.Context, field SortField, genreName *string, from, size int) ([]models.ShortFilm, error) {
	direction := "ASC"
	if field.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, title, rating FROM movies
		WHERE (? IS NULL OR list_contains(string_split(genres, ','), ?))
		ORDER BY %s %s NULLS LAST
		LIMIT ? OFFSET ?`, field.Column, direction)

	rows, err := idx.db.QueryContext(ctx, query, genreName, genreName, size, from)
	if err != nil {
		return nil, fmt.Errorf("searchindex: list movies sorted: %w", err)
	}
	defer rows.Close()

	var out []models.ShortFilm
	for rows.Next() {
		var sf models.ShortFilm
		if err := rows.Scan(&sf.ID, &sf.Title, &sf.Rating); err != nil {
			return nil, fmt.Errorf("searchindex: scan short film: %w", err)
		}
		out = append(out, sf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
