// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package searchindex_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
)

func openTestIndex(t *testing.T) *searchindex.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.duckdb")
	idx, err := searchindex.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func ratingPtr(v float64) *float64 { return &v }

func TestUpsertAndGetMovie_RoundTrips(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	movie := models.Movie{
		ID:          "f1",
		Title:       "The Star",
		Rating:      ratingPtr(8.5),
		Genres:      []string{"Drama"},
		Directors:   []models.NamedEntity{{ID: "d1", Name: "Dir One"}},
		Actors:      []models.NamedEntity{{ID: "a1", Name: "Actor One"}},
		ActorNames:  []string{"Actor One"},
		WriterNames: []string{},
		Modified:    time.Now().UTC(),
	}

	written, err := idx.UpsertMovies(ctx, []models.Movie{movie})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	got, err := idx.GetMovie(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, movie.ID, got.ID)
	assert.Equal(t, movie.Title, got.Title)
	assert.Equal(t, len(movie.Actors), len(got.Actors))
	assert.Equal(t, len(movie.ActorNames), len(got.Actors))
}

func TestGetMovie_MissingReturnsErrNotFound(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.GetMovie(context.Background(), "missing")
	assert.ErrorIs(t, err, searchindex.ErrNotFound)
}

func TestListMoviesSorted_DescendingWithGenreFilter(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	movies := []models.Movie{
		{ID: "f1", Title: "Low", Rating: ratingPtr(7.0), Genres: []string{"Drama"}},
		{ID: "f2", Title: "High", Rating: ratingPtr(9.0), Genres: []string{"Drama"}},
		{ID: "f3", Title: "Other", Rating: ratingPtr(10.0), Genres: []string{"Comedy"}},
	}
	_, err := idx.UpsertMovies(ctx, movies)
	require.NoError(t, err)

	field, err := searchindex.ParseSort("-imdb_rating")
	require.NoError(t, err)

	genre := "Drama"
	results, err := idx.ListMoviesSorted(ctx, field, &genre, 0, 50)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "f2", results[0].ID)
	assert.Equal(t, "f1", results[1].ID)
}

func TestParseSort_RejectsInvalidField(t *testing.T) {
	_, err := searchindex.ParseSort("title")
	assert.Error(t, err)
}

func TestMultiGetMovieProjections_OmitsMissingIDs(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	_, err := idx.UpsertMovies(ctx, []models.Movie{
		{ID: "f1", Title: "A", Rating: ratingPtr(5.0)},
	})
	require.NoError(t, err)

	got, err := idx.MultiGetMovieProjections(ctx, []string{"f1", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].ID)
}

func TestUpsertGenresAndFindByName(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	_, err := idx.UpsertGenres(ctx, []models.Genre{{ID: "g1", Name: "Drama"}})
	require.NoError(t, err)

	g, err := idx.FindGenreByName(ctx, "Drama")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)

	_, err = idx.FindGenreByName(ctx, "Nope")
	assert.ErrorIs(t, err, searchindex.ErrNotFound)
}
