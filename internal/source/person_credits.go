// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kinoscope/catalog/internal/logging"
)

// PersonCreditRow is one (person, film, role) credit, grouped
// contiguously by PersonID so a Person document can be folded from a
// single pass, the same contiguous-grouping contract Enricher gives
// the film Aggregator.
type PersonCreditRow struct {
	PersonID string
	FilmID   string
	Title    string
	Role     string
}

// PersonCredits takes a stream of person IDs and emits one
// PersonCreditRow per film credit, grouped by person_id, for
// internal/pipeline's PersonSync stage to fold into Person documents.
type PersonCredits struct {
	pool      *Pool
	schema    string
	batchSize int
}

// NewPersonCredits builds a PersonCredits reader, defaulting batchSize
// to 1000.
func NewPersonCredits(pool *Pool, schema string, batchSize int) *PersonCredits {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &PersonCredits{pool: pool, schema: schema, batchSize: batchSize}
}

// Stream batches upstream person IDs and, for each batch, paginates the
// join projection by person_id until the batch is drained.
func (c *PersonCredits) Stream(ctx context.Context, upstream <-chan string) (<-chan PersonCreditRow, <-chan error) {
	out := make(chan PersonCreditRow)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		batch := make([]string, 0, c.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := c.drainBatch(ctx, batch, out); err != nil {
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
				if len(batch) >= c.batchSize {
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

func (c *PersonCredits) drainBatch(ctx context.Context, ids []string, out chan<- PersonCreditRow) error {
	lastPersonID := ""
	total := 0

	for {
		query := fmt.Sprintf(`
			SELECT DISTINCT pfw.person_id, fw.id AS film_id, fw.title, pfw.role
			FROM %[1]s.person_film_work pfw
			JOIN %[1]s.film_work fw ON fw.id = pfw.film_work_id
			WHERE pfw.person_id = ANY($1)%s
			ORDER BY pfw.person_id ASC
			LIMIT $2`,
			pgx.Identifier{c.schema}.Sanitize(),
			pagingClausePerson(lastPersonID),
		)

		args := []any{ids, c.batchSize}
		if lastPersonID != "" {
			args = append(args, lastPersonID)
		}

		rows, err := c.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("person_credits: query: %w", err)
		}

		rowsInPage := 0
		for rows.Next() {
			var row PersonCreditRow
			if err := rows.Scan(&row.PersonID, &row.FilmID, &row.Title, &row.Role); err != nil {
				rows.Close()
				return fmt.Errorf("person_credits: scan: %w", err)
			}
			rowsInPage++
			lastPersonID = row.PersonID

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
			return fmt.Errorf("person_credits: rows: %w", err)
		}

		total += rowsInPage
		if rowsInPage == 0 {
			break
		}
	}

	logging.Ctx(ctx).Debug().Int("persons", len(ids)).Int("rows", total).Msg("person credits batch drained")
	return nil
}

func pagingClausePerson(lastID string) string {
	if lastID == "" {
		return ""
	}
	return " AND pfw.person_id > $3"
}
