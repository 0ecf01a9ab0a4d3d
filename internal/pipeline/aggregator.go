// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package pipeline wires internal/source's extraction stages into
// internal/searchindex, the Go analogue of the original ETL's
// etl/transform and etl/load packages plus its etl/main.py driver loop
// (SPEC_FULL.md §4.6, §4.7, §5).
package pipeline

import (
	"context"

	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/source"
)

// Aggregator folds a stream of EnrichedRow, grouped contiguously by
// film_id, into one Movie per film. It is a direct translation of the
// original ETL's TransformETL: null_containers resets the four
// accumulators, add_person classifies a row by its role, and a film_id
// change (or end of stream) flushes the accumulated Movie.
//
// Unlike the source, directors are tracked as {id, name} pairs, not
// bare names (SPEC_FULL.md §9 Open Question 3: the source's
// name-only director set loses the ID the rest of the schema always
// carries for no documented reason, so this folds it the same way
// actors and writers already are).
type Aggregator struct{}

// NewAggregator builds an Aggregator. It holds no state of its own;
// each Stream call runs its own fold over its own accumulators.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Stream folds in into one Movie per contiguous run of film_id.
func (a *Aggregator) Stream(ctx context.Context, in <-chan source.EnrichedRow) (<-chan models.Movie, <-chan error) {
	out := make(chan models.Movie)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		acc := newMovieAccumulator()
		haveRow := false

		emit := func() bool {
			if !haveRow {
				return true
			}
			select {
			case out <- acc.build():
				return true
			case <-ctx.Done():
				errc <- ctx.Err()
				return false
			}
		}

		for {
			select {
			case row, ok := <-in:
				if !ok {
					emit()
					return
				}
				if haveRow && acc.filmID != row.FilmID {
					if !emit() {
						return
					}
					acc = newMovieAccumulator()
				}
				haveRow = true
				acc.setBase(row)
				acc.addPerson(row)
				acc.addGenre(row)
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

// movieAccumulator holds the running fold state for one film_id, the
// Go counterpart of TransformETL's instance fields cleared by
// null_containers.
type movieAccumulator struct {
	filmID      string
	title       string
	description *string
	rating      *float64
	modified    source.EnrichedRow

	directorSeen map[string]bool
	directors    []models.NamedEntity
	actorSeen    map[string]bool
	actors       []models.NamedEntity
	writerSeen   map[string]bool
	writers      []models.NamedEntity
	genreSeen    map[string]bool
	genres       []string
}

func newMovieAccumulator() *movieAccumulator {
	return &movieAccumulator{
		directorSeen: map[string]bool{},
		actorSeen:    map[string]bool{},
		writerSeen:   map[string]bool{},
		genreSeen:    map[string]bool{},
	}
}

func (a *movieAccumulator) setBase(row source.EnrichedRow) {
	a.filmID = row.FilmID
	a.title = row.Title
	a.description = row.Description
	a.rating = row.Rating
	a.modified = row
}

// addPerson classifies row by its role column, the Go translation of
// TransformETL.add_person.
func (a *movieAccumulator) addPerson(row source.EnrichedRow) {
	if row.Role == nil || row.PersonID == nil {
		return
	}
	name := ""
	if row.PersonFullName != nil {
		name = *row.PersonFullName
	}
	entity := models.NamedEntity{ID: *row.PersonID, Name: name}

	switch *row.Role {
	case "actor":
		if !a.actorSeen[entity.ID] {
			a.actorSeen[entity.ID] = true
			a.actors = append(a.actors, entity)
		}
	case "writer":
		if !a.writerSeen[entity.ID] {
			a.writerSeen[entity.ID] = true
			a.writers = append(a.writers, entity)
		}
	case "director":
		if !a.directorSeen[entity.ID] {
			a.directorSeen[entity.ID] = true
			a.directors = append(a.directors, entity)
		}
	}
}

func (a *movieAccumulator) addGenre(row source.EnrichedRow) {
	if row.GenreName == nil {
		return
	}
	if !a.genreSeen[*row.GenreName] {
		a.genreSeen[*row.GenreName] = true
		a.genres = append(a.genres, *row.GenreName)
	}
}

// build assembles the completed Movie, the Go translation of
// TransformETL.movie_from_row, with actors_names/writers_names
// computed as a name projection of actors/writers.
func (a *movieAccumulator) build() models.Movie {
	actorNames := make([]string, len(a.actors))
	for i, p := range a.actors {
		actorNames[i] = p.Name
	}
	writerNames := make([]string, len(a.writers))
	for i, p := range a.writers {
		writerNames[i] = p.Name
	}

	return models.Movie{
		ID:          a.filmID,
		Title:       a.title,
		Rating:      a.rating,
		Description: a.description,
		Genres:      orEmpty(a.genres),
		Directors:   orEmptyEntities(a.directors),
		Actors:      orEmptyEntities(a.actors),
		Writers:     orEmptyEntities(a.writers),
		ActorNames:  orEmpty(actorNames),
		WriterNames: orEmpty(writerNames),
		Modified:    a.modified.Modified,
	}
}

// orEmpty and orEmptyEntities guarantee a non-nil slice per
// SPEC_FULL.md §3: a film with no credited people or genre still
// serializes as `[]`, never `null`.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyEntities(s []models.NamedEntity) []models.NamedEntity {
	if s == nil {
		return []models.NamedEntity{}
	}
	return s
}
