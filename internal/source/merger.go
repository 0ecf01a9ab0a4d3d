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

// MergerRow is the {id, modified} shape the Merger yields, identical in
// shape to ProducerRow but reached through a join instead of a direct
// table scan.
type MergerRow struct {
	ID       string
	Modified time.Time
}

// JoinSpec names the base/merge tables and keys the Merger fans a
// producer's IDs out through (SPEC_FULL.md §4.4), e.g. base_table=
// "film_work", merge_table="person_film_work", merge_table_fk=
// "film_work_id" to find every film touched by a changed person.
type JoinSpec struct {
	BaseTable    string
	BaseTableID  string
	MergeTable   string
	MergeTableID string
	MergeTableFK string
}

// Merger consumes an upstream ID stream in batches and, for each batch,
// paginates through the join until it is exhausted, emitting distinct
// base-table rows reachable from that batch.
type Merger struct {
	pool      *Pool
	schema    string
	spec      JoinSpec
	batchSize int
}

// NewMerger builds a Merger for the given join, with the default batch
// size of 1000 if batchSize <= 0.
func NewMerger(pool *Pool, schema string, spec JoinSpec, batchSize int) *Merger {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Merger{pool: pool, schema: schema, spec: spec, batchSize: batchSize}
}

// Stream batches ids (default 1000 per batch) drawn from upstream, and
// for each batch emits every distinct base-table row reachable via the
// configured join, ordered by base.id within a batch (no ordering
// guarantee across batches, per SPEC_FULL.md §4.4).
func (m *Merger) Stream(ctx context.Context, upstream <-chan ProducerRow) (<-chan MergerRow, <-chan error) {
	out := make(chan MergerRow)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		batch := make([]string, 0, m.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := m.drainBatch(ctx, batch, out); err != nil {
				return err
			}
			batch = batch[:0]
			return nil
		}

		for {
			select {
			case row, ok := <-upstream:
				if !ok {
					if err := flush(); err != nil {
						errc <- err
					}
					return
				}
				batch = append(batch, row.ID)
				if len(batch) >= m.batchSize {
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

func (m *Merger) drainBatch(ctx context.Context, ids []string, out chan<- MergerRow) error {
	lastID := ""
	total := 0

	baseIDCol := fmt.Sprintf("%s.%s", pgx.Identifier{"bt"}.Sanitize(), pgx.Identifier{m.spec.BaseTableID}.Sanitize())

	for {
		query := fmt.Sprintf(`
			SELECT DISTINCT bt.id, bt.modified
			FROM %s.%s bt
			LEFT JOIN %s.%s mt ON mt.%s = bt.%s
			WHERE mt.%s = ANY($1)%s
			ORDER BY %s ASC
			LIMIT $2`,
			pgx.Identifier{m.schema}.Sanitize(), pgx.Identifier{m.spec.BaseTable}.Sanitize(),
			pgx.Identifier{m.schema}.Sanitize(), pgx.Identifier{m.spec.MergeTable}.Sanitize(),
			pgx.Identifier{m.spec.MergeTableFK}.Sanitize(), pgx.Identifier{m.spec.BaseTableID}.Sanitize(),
			pgx.Identifier{m.spec.MergeTableID}.Sanitize(),
			pagingClause(lastID),
			baseIDCol,
		)

		args := []any{ids, m.batchSize}
		if lastID != "" {
			args = append(args, lastID)
		}

		rows, err := m.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("merger(%s): query: %w", m.spec.BaseTable, err)
		}

		rowsInPage := 0
		for rows.Next() {
			var row MergerRow
			if err := rows.Scan(&row.ID, &row.Modified); err != nil {
				rows.Close()
				return fmt.Errorf("merger(%s): scan: %w", m.spec.BaseTable, err)
			}
			rowsInPage++
			lastID = row.ID

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
			return fmt.Errorf("merger(%s): rows: %w", m.spec.BaseTable, err)
		}

		total += rowsInPage
		if rowsInPage == 0 {
			break
		}
	}

	logging.Ctx(ctx).Debug().Str("base_table", m.spec.BaseTable).Int("fanned_out", total).Msg("merger batch drained")
	return nil
}

// pagingClause returns the keyset-pagination predicate fragment added to
// the join query once a page boundary exists, mirroring the original
// extractor's "AND bt.id > last_emitted_id" clause.
func pagingClause(lastID string) string {
	if lastID == "" {
		return ""
	}
	return " AND bt.id > $3"
}
