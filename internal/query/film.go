// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package query implements the three domain query services
// (SPEC_FULL.md §4.9): FilmService, GenreService, PersonService. Each
// is built as a plain struct holding a *cacheaside.CacheAside and a
// *searchindex.Index as fields — composition, not the source's
// BaseService inheritance chain (SPEC_FULL.md §9), in the same style
// cartographus's sync.Manager composes its DB/client/config
// collaborators as fields rather than embedding a base type.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinoscope/catalog/internal/cacheaside"
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
)

// ErrNotFound is the absent-result sentinel every query-service
// operation returns on a miss, for the edge layer to translate to 404
// (SPEC_FULL.md §7(b), §8 "Empty results").
var ErrNotFound = errors.New("query: not found")

// FilmService implements the three film operations of SPEC_FULL.md
// §4.9: get_by_id, get_by_sort, get_by_query.
type FilmService struct {
	cache *cacheaside.CacheAside
	index *searchindex.Index
}

// NewFilmService builds a FilmService over the given collaborators.
func NewFilmService(cache *cacheaside.CacheAside, index *searchindex.Index) *FilmService {
	return &FilmService{cache: cache, index: index}
}

// GetByID resolves a film's full detail projection: cache → index →
// cache-store. The index stores genres as bare names, so a hit
// resolves each name to its {id, name} pair via a secondary genre
// lookup before the result is cached and returned.
func (s *FilmService) GetByID(ctx context.Context, filmID string) (*models.DetailFilm, error) {
	fp := cacheaside.Fingerprint("film_id", filmID)

	var cached models.DetailFilm
	if err := cacheaside.GetCached(ctx, s.cache, fp, &cached); err == nil {
		return &cached, nil
	}

	movie, err := s.index.GetMovie(ctx, filmID)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: get film %s: %w", filmID, err)
	}

	genres := make([]models.NamedEntity, 0, len(movie.Genres))
	for _, name := range movie.Genres {
		g, err := s.index.FindGenreByName(ctx, name)
		if err != nil {
			if errors.Is(err, searchindex.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("query: resolve genre %q: %w", name, err)
		}
		genres = append(genres, models.NamedEntity{ID: g.ID, Name: g.Name})
	}

	detail := &models.DetailFilm{
		ID:          movie.ID,
		Title:       movie.Title,
		Rating:      movie.Rating,
		Description: movie.Description,
		Genres:      genres,
		Directors:   movie.Directors,
		Actors:      movie.Actors,
		Writers:     movie.Writers,
		ActorNames:  movie.ActorNames,
		WriterNames: movie.WriterNames,
	}

	cacheaside.PutCached(ctx, s.cache, fp, detail, cacheaside.DefaultTTL)
	return detail, nil
}

// GetBySort lists films by rating, optionally filtered to one genre,
// paginated by page_size/page_number (SPEC_FULL.md §4.9's
// `get_by_sort`).
func (s *FilmService) GetBySort(ctx context.Context, sort string, pageSize, pageNumber int, genreID string) ([]models.ShortFilm, error) {
	field, err := searchindex.ParseSort(sort)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	fp := cacheaside.Fingerprint("sort", sort, "page_size", pageSize, "page_number", pageNumber, "genre_id", genreID)

	var cached []models.ShortFilm
	if err := cacheaside.GetCached(ctx, s.cache, fp, &cached); err == nil {
		return cached, nil
	}

	var genreName *string
	if genreID != "" {
		g, err := s.index.GetGenre(ctx, genreID)
		if err != nil {
			if errors.Is(err, searchindex.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("query: resolve genre_id %s: %w", genreID, err)
		}
		genreName = &g.Name
	}

	from := pageSize * (pageNumber - 1)
	films, err := s.index.ListMoviesSorted(ctx, field, genreName, from, pageSize)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: list films sorted: %w", err)
	}

	cacheaside.PutCached(ctx, s.cache, fp, films, cacheaside.DefaultTTL)
	return films, nil
}

// GetByQuery runs a fuzzy free-text title search, paginated. Per
// SPEC_FULL.md §9 Open Question 2, this operation is NOT cached
// (preserved as-is: either an intentional choice given high result
// cardinality, or an oversight in the original — the spec leaves it
// undecided and asks that the behavior be preserved).
func (s *FilmService) GetByQuery(ctx context.Context, title string, pageSize, pageNumber int) ([]models.ShortFilm, error) {
	films, err := s.index.SearchMoviesByTitle(ctx, title, pageSize, pageNumber)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: search films by title: %w", err)
	}
	return films, nil
}
