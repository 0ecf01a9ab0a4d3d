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
	"github.com/kinoscope/catalog/internal/source"
)

// GenreSync keeps the genres index current with the genre table.
//
// The original ETL never populates a dedicated genres index: all three
// of its extraction tasks (persons, genres, films) converge on the same
// Enricher/TransformETL/ElasticLoader chain and only ever write Movie
// documents to a single "movies" index. SPEC_FULL.md's genre/person
// query surface, though, requires a populated genres index independent
// of any film, so this stage supplements the source with a direct
// id/name sync: it is fed by a producer tracking its own
// "genres_index_modified" state key, separate from the
// "genres_modified" key the genres film task advances, and upserts
// straight into the genres index instead of routing through the movie
// pipeline.
type GenreSync struct {
	index     *searchindex.Index
	batchSize int
}

// NewGenreSync builds a GenreSync, defaulting batchSize to 1000.
func NewGenreSync(index *searchindex.Index, batchSize int) *GenreSync {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &GenreSync{index: index, batchSize: batchSize}
}

// Run drains names (a source.NameProducer stream over the genre table)
// and upserts each row into the genres index, batched. It returns the
// count of genres written and the first error observed on either names
// or the producer's error channel.
func (s *GenreSync) Run(ctx context.Context, names <-chan source.NameRow, errs <-chan error) (int, error) {
	batch := make([]models.Genre, 0, s.batchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.index.UpsertGenres(ctx, batch)
		if err != nil {
			return err
		}
		written += n
		logging.Ctx(ctx).Info().Int("count", n).Msg("genres uploaded to index")
		batch = batch[:0]
		return nil
	}

	for names != nil || errs != nil {
		select {
		case row, ok := <-names:
			if !ok {
				names = nil
				continue
			}
			batch = append(batch, models.Genre{ID: row.ID, Name: row.Name})
			if len(batch) >= s.batchSize {
				if err := flush(); err != nil {
					return written, err
				}
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return written, err
			}
		case <-ctx.Done():
			return written, ctx.Err()
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}
