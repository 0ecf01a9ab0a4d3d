// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/pipeline"
	"github.com/kinoscope/catalog/internal/source"
)

func TestGenreSync_UpsertsEveryNameRow(t *testing.T) {
	idx := openTestIndex(t)
	sync := pipeline.NewGenreSync(idx, 10)

	names := make(chan source.NameRow, 2)
	names <- source.NameRow{ID: "g1", Name: "Action"}
	names <- source.NameRow{ID: "g2", Name: "Comedy"}
	close(names)
	errs := make(chan error)
	close(errs)

	written, err := sync.Run(context.Background(), names, errs)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	genre, err := idx.GetGenre(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Action", genre.Name)
}

func TestGenreSync_PropagatesUpstreamError(t *testing.T) {
	idx := openTestIndex(t)
	sync := pipeline.NewGenreSync(idx, 10)

	names := make(chan source.NameRow)
	close(names)
	errs := make(chan error, 1)
	errs <- assertErr
	close(errs)

	_, err := sync.Run(context.Background(), names, errs)
	require.ErrorIs(t, err, assertErr)
}

var assertErr = errExample("boom")

type errExample string

func (e errExample) Error() string { return string(e) }
