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

// PersonService implements the three person operations of SPEC_FULL.md
// §4.9: get_by_id, get_films_for_person, search_person.
type PersonService struct {
	cache *cacheaside.CacheAside
	index *searchindex.Index
}

// NewPersonService builds a PersonService over the given collaborators.
func NewPersonService(cache *cacheaside.CacheAside, index *searchindex.Index) *PersonService {
	return &PersonService{cache: cache, index: index}
}

// GetByID resolves a person's role-aggregated document, cached under
// `person_id:<id>`.
func (s *PersonService) GetByID(ctx context.Context, personID string) (*models.Person, error) {
	fp := cacheaside.Fingerprint("person_id", personID)

	var cached models.Person
	if err := cacheaside.GetCached(ctx, s.cache, fp, &cached); err == nil {
		return &cached, nil
	}

	person, err := s.index.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: get person %s: %w", personID, err)
	}

	cacheaside.PutCached(ctx, s.cache, fp, person, cacheaside.DefaultTTL)
	return person, nil
}

// GetFilmsForPerson fetches the person document, extracts its
// films[].id list, and multi-gets the minimal id/title/rating
// projection for those films, cached under `person_films:<id>`
// (SPEC_FULL.md §4.9's two-step `get_films_for_person`).
func (s *PersonService) GetFilmsForPerson(ctx context.Context, personID string) ([]models.PersonFilm, error) {
	fp := cacheaside.Fingerprint("person_films", personID)

	var cached []models.PersonFilm
	if err := cacheaside.GetCached(ctx, s.cache, fp, &cached); err == nil {
		return cached, nil
	}

	person, err := s.index.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: get person %s: %w", personID, err)
	}

	ids := make([]string, len(person.Films))
	for i, f := range person.Films {
		ids[i] = f.FilmID
	}

	films, err := s.index.MultiGetMovieProjections(ctx, ids)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: multi-get films for person %s: %w", personID, err)
	}

	cacheaside.PutCached(ctx, s.cache, fp, films, cacheaside.DefaultTTL)
	return films, nil
}

// SearchPerson runs a fuzzy full_name search, paginated. Not cached,
// the same high-cardinality free-text exception as
// FilmService.GetByQuery (SPEC_FULL.md §9 Open Question 2).
func (s *PersonService) SearchPerson(ctx context.Context, name string, pageSize, pageNumber int) ([]models.Person, error) {
	persons, err := s.index.SearchPersonsByName(ctx, name, pageSize, pageNumber)
	if err != nil {
		if errors.Is(err, searchindex.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: search persons by name: %w", err)
	}
	return persons, nil
}
