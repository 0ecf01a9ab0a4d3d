// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package models holds the document and wire types shared between the ETL
// pipeline (internal/pipeline, internal/searchindex) and the query API
// (internal/query, internal/httpapi). It is the common vocabulary the rest
// of the module is built against, the same role internal/models plays for
// cartographus's sync/database/api layers.
package models

import "time"

// NamedEntity is the {id, name} shape shared by genres, and by the
// person references embedded in a Movie document.
type NamedEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Movie is the unit of indexing: one nested document per film, folded
// by internal/pipeline's Aggregator from the Enricher's flat row stream.
//
// Invariants (SPEC_FULL.md §3): ActorNames is exactly the name projection
// of Actors, in the same order; a film with no people still carries empty
// (never nil) slices.
type Movie struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Rating      *float64      `json:"imdb_rating,omitempty"`
	Description *string       `json:"description,omitempty"`
	Genres      []string      `json:"genre"`
	Directors   []NamedEntity `json:"directors"`
	Actors      []NamedEntity `json:"actors"`
	Writers     []NamedEntity `json:"writers"`
	ActorNames  []string      `json:"actors_names"`
	WriterNames []string      `json:"writers_names"`
	Modified    time.Time     `json:"-"`
}

// ShortFilm is the list-view projection served by sorted and free-text
// film queries.
type ShortFilm struct {
	ID     string   `json:"uuid"`
	Title  string   `json:"title"`
	Rating *float64 `json:"imdb_rating,omitempty"`
}

// DetailFilm is the full film-detail projection served by
// FilmService.GetByID, with genres resolved to {id, name} pairs.
type DetailFilm struct {
	ID          string        `json:"uuid"`
	Title       string        `json:"title"`
	Rating      *float64      `json:"imdb_rating,omitempty"`
	Description *string       `json:"description,omitempty"`
	Genres      []NamedEntity `json:"genre"`
	Directors   []NamedEntity `json:"directors"`
	Actors      []NamedEntity `json:"actors"`
	Writers     []NamedEntity `json:"writers"`
	ActorNames  []string      `json:"actors_names"`
	WriterNames []string      `json:"writers_names"`
}

// Genre is unique by Name (SPEC_FULL.md §3).
type Genre struct {
	ID   string `json:"uuid"`
	Name string `json:"name"`
}

// PersonFilmRole is one of the three roles a Person can hold in a film;
// the set is derived from the enricher's role column, never free-form.
type PersonFilmRole string

const (
	RoleActor    PersonFilmRole = "actor"
	RoleWriter   PersonFilmRole = "writer"
	RoleDirector PersonFilmRole = "director"
)

// PersonFilmEntry is one film credit inside a Person document.
type PersonFilmEntry struct {
	FilmID string           `json:"film_id"`
	Title  string           `json:"title"`
	Roles  []PersonFilmRole `json:"roles"`
}

// Person is the ID/name/credits document served by PersonService.
type Person struct {
	ID       string            `json:"uuid"`
	FullName string            `json:"full_name"`
	Films    []PersonFilmEntry `json:"films"`
}

// PersonFilm is the minimal film projection returned by
// PersonService.GetFilmsForPerson (id/title/rating only).
type PersonFilm struct {
	ID     string   `json:"uuid"`
	Title  string   `json:"title"`
	Rating *float64 `json:"imdb_rating,omitempty"`
}

// Watermark state keys, one per source table tracked by internal/state.
const (
	WatermarkFilmsModified   = "films_modified"
	WatermarkPersonsModified = "persons_modified"
	WatermarkGenresModified  = "genres_modified"

	// WatermarkGenresIndexModified and WatermarkPersonsIndexModified
	// track the dedicated genres/persons index sync (internal/pipeline's
	// GenreSync/PersonSync), kept separate from WatermarkGenresModified
	// and WatermarkPersonsModified above: those two drive the
	// movie-document fan-out (producer -> merger -> enricher), and
	// sharing one watermark between both consumers would let whichever
	// runs first in an iteration starve the other of rows it has
	// already advanced past.
	WatermarkGenresIndexModified  = "genres_index_modified"
	WatermarkPersonsIndexModified = "persons_index_modified"
)

// EpochZero is the sentinel watermark value used the first time a key is
// read: year 0001 UTC, per SPEC_FULL.md §3.
var EpochZero = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

// TimestampLayout round-trips through a lexicographic string compare:
// fixed-width fractional seconds, explicit UTC offset.
const TimestampLayout = "2006-01-02T15:04:05.000000 -0700"
