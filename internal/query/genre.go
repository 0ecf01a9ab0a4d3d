// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinoscope/catalog/internal/cacheaside"
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
)

// allGenresFingerprint is the fixed cache key for GenreService.GetAll
// (SPEC_FULL.md §4.9: "cached under a fixed `all_genres` key").
const allGenresFingerprint = "all_genres"

// GenreService implements the two genre operations of SPEC_FULL.md
// §4.9: get_all, get_by_id.
type GenreService struct {
	cache *cacheaside.CacheAside
	index *searchindex.Index
}

// NewGenreService builds a GenreService over the given collaborators.
func NewGenreService(cache *cacheaside.CacheAside, index *searchindex.Index) *GenreService {
	return &GenreService{cache: cache, index: index}
}

// GetAll lists every genre, cached under the fixed "all_genres" key.
func (s *GenreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	var cached []models.Genre
	if err := cacheaside.GetCached(ctx, s.cache, allGenresFingerprint, &cached); err == nil {
		return cached, nil
	}

	genres, err := s.index.ListGenres(ctx)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: list genres: %w", err)
	}

	cacheaside.PutCached(ctx, s.cache, allGenresFingerprint, genres, cacheaside.DefaultTTL)
	return genres, nil
}

// GetByID resolves one genre by ID, cached under `genre_id:<id>`.
func (s *GenreService) GetByID(ctx context.Context, genreID string) (*models.Genre, error) {
	fp := cacheaside.Fingerprint("genre_id", genreID)

	var cached models.Genre
	if err := cacheaside.GetCached(ctx, s.cache, fp, &cached); err == nil {
		return &cached, nil
	}

	genre, err := s.index.GetGenre(ctx, genreID)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: get genre %s: %w", genreID, err)
	}

	cacheaside.PutCached(ctx, s.cache, fp, genre, cacheaside.DefaultTTL)
	return genre, nil
}
