// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/pipeline"
	"github.com/kinoscope/catalog/internal/searchindex"
)

func openTestIndex(t *testing.T) *searchindex.Index {
	t.Helper()
	idx, err := searchindex.Open(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestMovieLoader_DrainBatchesAndUpserts(t *testing.T) {
	idx := openTestIndex(t)
	loader := pipeline.NewMovieLoader(idx, 2)

	in := make(chan models.Movie, 3)
	in <- models.Movie{ID: "film-1", Title: "One", Genres: []string{}, Directors: []models.NamedEntity{}, Actors: []models.NamedEntity{}, Writers: []models.NamedEntity{}, ActorNames: []string{}, WriterNames: []string{}}
	in <- models.Movie{ID: "film-2", Title: "Two", Genres: []string{}, Directors: []models.NamedEntity{}, Actors: []models.NamedEntity{}, Writers: []models.NamedEntity{}, ActorNames: []string{}, WriterNames: []string{}}
	in <- models.Movie{ID: "film-3", Title: "Three", Genres: []string{}, Directors: []models.NamedEntity{}, Actors: []models.NamedEntity{}, Writers: []models.NamedEntity{}, ActorNames: []string{}, WriterNames: []string{}}
	close(in)

	written, err := loader.Drain(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 3, written)

	movie, err := idx.GetMovie(context.Background(), "film-2")
	require.NoError(t, err)
	require.Equal(t, "Two", movie.Title)
}
