// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/pipeline"
	"github.com/kinoscope/catalog/internal/source"
)

func ptr[T any](v T) *T { return &v }

func TestAggregator_FoldsContiguousRowsIntoOneMovie(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []source.EnrichedRow{
		{
			FilmID: "film-1", Title: "The Go Gopher", Rating: ptr(8.5), Type: "movie",
			Modified: modified, Role: ptr("actor"), PersonID: ptr("p1"), PersonFullName: ptr("Alice"), GenreName: ptr("Action"),
		},
		{
			FilmID: "film-1", Title: "The Go Gopher", Rating: ptr(8.5), Type: "movie",
			Modified: modified, Role: ptr("director"), PersonID: ptr("p2"), PersonFullName: ptr("Bob"), GenreName: ptr("Comedy"),
		},
		{
			FilmID: "film-2", Title: "Channels Ahoy", Rating: ptr(7.0), Type: "movie",
			Modified: modified, Role: nil, PersonID: nil, PersonFullName: nil, GenreName: ptr("Drama"),
		},
	}

	in := make(chan source.EnrichedRow)
	go func() {
		defer close(in)
		for _, r := range rows {
			in <- r
		}
	}()

	agg := pipeline.NewAggregator()
	out, errc := agg.Stream(context.Background(), in)

	var movies []string
	for m := range out {
		movies = append(movies, m.ID)
	}
	require.NoError(t, <-errc)
	assert.Equal(t, []string{"film-1", "film-2"}, movies)
}

func TestAggregator_EmptyCreditsNeverSerializeNil(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := make(chan source.EnrichedRow, 1)
	in <- source.EnrichedRow{FilmID: "film-1", Title: "Lonely Film", Modified: modified}
	close(in)

	agg := pipeline.NewAggregator()
	out, errc := agg.Stream(context.Background(), in)

	movie := <-out
	require.NoError(t, <-errc)

	assert.NotNil(t, movie.Genres)
	assert.NotNil(t, movie.Directors)
	assert.NotNil(t, movie.Actors)
	assert.NotNil(t, movie.Writers)
	assert.NotNil(t, movie.ActorNames)
	assert.NotNil(t, movie.WriterNames)
	assert.Empty(t, movie.Genres)
}

func TestAggregator_DeduplicatesPersonByID(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := make(chan source.EnrichedRow, 2)
	in <- source.EnrichedRow{
		FilmID: "film-1", Title: "Double Credit", Modified: modified,
		Role: ptr("actor"), PersonID: ptr("p1"), PersonFullName: ptr("Alice"), GenreName: ptr("Action"),
	}
	in <- source.EnrichedRow{
		FilmID: "film-1", Title: "Double Credit", Modified: modified,
		Role: ptr("actor"), PersonID: ptr("p1"), PersonFullName: ptr("Alice"), GenreName: ptr("Action"),
	}
	close(in)

	agg := pipeline.NewAggregator()
	out, errc := agg.Stream(context.Background(), in)

	movie := <-out
	require.NoError(t, <-errc)
	assert.Len(t, movie.Actors, 1)
	assert.Equal(t, []string{"Alice"}, movie.ActorNames)
}
