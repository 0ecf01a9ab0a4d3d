// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package searchindex

import (
	"context"
	"strings"

	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/models"
)

// UpsertMovies bulk-upserts one chunk of the Movie stream
// (SPEC_FULL.md §4.7). A failure on one document is logged and the
// chunk continues — partial failure never aborts the whole batch, since
// the watermark for these rows has already advanced and there is no
// retry path for an individual skipped document (SPEC_FULL.md §7).
// Returns the count of documents actually written.
func (idx *Index) UpsertMovies(ctx context.Context, movies []models.Movie) (int, error) {
	const stmt = `
		INSERT INTO movies (id, title, rating, description, genres, modified, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			rating = EXCLUDED.rating,
			description = EXCLUDED.description,
			genres = EXCLUDED.genres,
			modified = EXCLUDED.modified,
			document = EXCLUDED.document`

	written := 0
	for _, m := range movies {
		doc, err := marshal(m)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("film_id", m.ID).Msg("failed to encode movie document, skipping")
			continue
		}

		_, err = idx.db.ExecContext(ctx, stmt,
			m.ID, m.Title, m.Rating, m.Description, strings.Join(m.Genres, ","), m.Modified, doc,
		)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("film_id", m.ID).Msg("failed to upsert movie, skipping")
			continue
		}
		written++
	}
	return written, nil
}

// UpsertGenres bulk-upserts a chunk of genre documents.
func (idx *Index) UpsertGenres(ctx context.Context, genres []models.Genre) (int, error) {
	const stmt = `
		INSERT INTO genres (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	written := 0
	for _, g := range genres {
		if _, err := idx.db.ExecContext(ctx, stmt, g.ID, g.Name); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("genre_id", g.ID).Msg("failed to upsert genre, skipping")
			continue
		}
		written++
	}
	return written, nil
}

// UpsertPersons bulk-upserts a chunk of person documents.
func (idx *Index) UpsertPersons(ctx context.Context, persons []models.Person) (int, error) {
	const stmt = `
		INSERT INTO persons (id, full_name, document) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, document = EXCLUDED.document`

	written := 0
	for _, p := range persons {
		doc, err := marshal(p)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("person_id", p.ID).Msg("failed to encode person document, skipping")
			continue
		}
		if _, err := idx.db.ExecContext(ctx, stmt, p.ID, p.FullName, doc); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("person_id", p.ID).Msg("failed to upsert person, skipping")
			continue
		}
		written++
	}
	return written, nil
}
