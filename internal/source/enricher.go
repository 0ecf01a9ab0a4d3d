// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kinoscope/catalog/internal/logging"
)

// EnrichedRow is one flat (film x person x role x genre) tuple, the Go
// analogue of the original ETL's ExtractEnricher dataclass
// (SPEC_FULL.md §4.5). Several columns are nullable at the SQL level
// (a film can have no credited people or no genre yet) so they are
// pointers; the Aggregator is responsible for treating a nil PersonID
// or GenreName as "no contribution" rather than a zero value.
type EnrichedRow struct {
	FilmID         string
	Title          string
	Description    *string
	Rating         *float64
	Type           string
	Created        time.Time
	Modified       time.Time
	Role           *string
	PersonID       *string
	PersonFullName *string
	GenreName      *string
}

// Enricher takes a stream of film IDs and emits one EnrichedRow per
// (film, person, role, genre) combination, grouped contiguously by
// film_id so the Aggregator can fold on a single pass.
type Enricher struct {
	pool      *Pool
	schema    string
	batchSize int
}

// NewEnricher builds an Enricher, defaulting batchSize to 1000.
func NewEnricher(pool *Pool, schema string, batchSize int) *Enricher {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Enricher{pool: pool, schema: schema, batchSize: batchSize}
}

// Stream batches upstream film IDs (default 1000 per batch) and, for
// each batch, paginates the LEFT JOIN projection by film.id until the
// batch is drained, per SPEC_FULL.md §4.5.
func (e *Enricher) Stream(ctx context.Context, upstream <-chan string) (<-chan EnrichedRow, <-chan error) {
	out := make(chan EnrichedRow)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		batch := make([]string, 0, e.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := e.drainBatch(ctx, batch, out); err != nil {
				return err
			}
			batch = batch[:0]
			return nil
		}

		for {
			select {
			case id, ok := <-upstream:
				if !ok {
					if err := flush(); err != nil {
						errc <- err
					}
					return
				}
				batch = append(batch, id)
				if len(batch) >= e.batchSize {
					if err := flush(); err != nil {
						errc <- err
						return
					}
				}
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

func (e *Enricher) drainBatch(ctx context.Context, ids []string, out chan<- EnrichedRow) error {
	lastID := ""
	total := 0

	for {
		query := fmt.Sprintf(`
			SELECT DISTINCT
				fw.id AS fw_id,
				fw.title,
				fw.description,
				fw.rating,
				fw.type,
				fw.created,
				fw.modified,
				pfw.role,
				p.id AS person_id,
				p.full_name AS person_full_name,
				g.name AS genre
			FROM %[1]s.film_work fw
			LEFT JOIN %[1]s.person_film_work pfw ON pfw.film_work_id = fw.id
			LEFT JOIN %[1]s.person p ON p.id = pfw.person_id
			LEFT JOIN %[1]s.genre_film_work gfw ON gfw.film_work_id = fw.id
			LEFT JOIN %[1]s.genre g ON g.id = gfw.genre_id
			WHERE fw.id = ANY($1)%s
			ORDER BY fw.id ASC
			LIMIT $2`,
			pgx.Identifier{e.schema}.Sanitize(),
			pagingClauseFilm(lastID),
		)

		args := []any{ids, e.batchSize}
		if lastID != "" {
			args = append(args, lastID)
		}

		rows, err := e.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("enricher: query: %w", err)
		}

		rowsInPage := 0
		for rows.Next() {
			var row EnrichedRow
			if err := rows.Scan(
				&row.FilmID, &row.Title, &row.Description, &row.Rating, &row.Type,
				&row.Created, &row.Modified, &row.Role, &row.PersonID, &row.PersonFullName, &row.GenreName,
			); err != nil {
				rows.Close()
				return fmt.Errorf("enricher: scan: %w", err)
			}
			rowsInPage++
			lastID = row.FilmID

			select {
			case out <- row:
			case <-ctx.Done():
				rows.Close()
				return ctx.Err()
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("enricher: rows: %w", err)
		}

		total += rowsInPage
		if rowsInPage == 0 {
			break
		}
	}

	logging.Ctx(ctx).Debug().Int("films", len(ids)).Int("rows", total).Msg("enricher batch drained")
	return nil
}

func pagingClauseFilm(lastID string) string {
	if lastID == "" {
		return ""
	}
	return " AND fw.id > $3"
}
