// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline

import (
	"context"

	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
)

// MovieLoader batches a Movie stream into chunks of batchSize and bulk
// upserts each chunk into the movies index, the Go translation of
// ElasticLoader.upload_data's ichunked/helpers.bulk loop.
type MovieLoader struct {
	index     *searchindex.Index
	batchSize int
}

// NewMovieLoader builds a MovieLoader, defaulting batchSize to 1000
// (ELASTIC_BATCH's default in the source).
func NewMovieLoader(index *searchindex.Index, batchSize int) *MovieLoader {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &MovieLoader{index: index, batchSize: batchSize}
}

// Drain reads every Movie off in, batching batchSize at a time, and
// returns the total number of documents actually written. A failure
// upserting one document inside a batch is logged and skipped
// (searchindex.UpsertMovies's continue-on-error semantics); Drain only
// returns an error for something that aborts the whole load, such as
// the context being cancelled.
func (l *MovieLoader) Drain(ctx context.Context, in <-chan models.Movie) (int, error) {
	batch := make([]models.Movie, 0, l.batchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.index.UpsertMovies(ctx, batch)
		if err != nil {
			return err
		}
		written += n
		logging.Ctx(ctx).Info().Int("count", n).Msg("movies uploaded to index")
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case movie, ok := <-in:
			if !ok {
				return written, flush()
			}
			batch = append(batch, movie)
			if len(batch) >= l.batchSize {
				if err := flush(); err != nil {
					return written, err
				}
			}
		case <-ctx.Done():
			return written, ctx.Err()
		}
	}
}
