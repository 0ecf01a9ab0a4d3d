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
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/state"
)

// NameRow is one {id, name, modified} tuple read from a dimension table
// (genre or person). It is the genre/person counterpart of ProducerRow:
// the upstream Python ETL never needed this shape since it only ever
// wrote Movie documents, but SPEC_FULL.md's genres/persons indices
// require their own id/name watermark-bounded source, so this reuses
// Producer's watermark discipline with one extra projected column.
type NameRow struct {
	ID       string
	Name     string
	Modified time.Time
}

// NameProducer streams dimension rows from schema.table whose modified
// column is greater than the table's watermark, projecting nameColumn
// alongside id and modified, and advancing the watermark as each row is
// yielded.
type NameProducer struct {
	pool       *Pool
	schema     string
	table      string
	nameColumn string
	stateKey   string
	store      *state.Store
}

// NewNameProducer builds a NameProducer reading table.nameColumn under
// schema, tracking its progress under stateKey.
func NewNameProducer(pool *Pool, schema, table, nameColumn, stateKey string, store *state.Store) *NameProducer {
	return &NameProducer{pool: pool, schema: schema, table: table, nameColumn: nameColumn, stateKey: stateKey, store: store}
}

// Stream returns a channel of dimension rows modified since the current
// watermark, ordered by modified ascending, and an error channel that
// carries at most one terminal error.
func (p *NameProducer) Stream(ctx context.Context) (<-chan NameRow, <-chan error) {
	out := make(chan NameRow)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		watermarkStr, err := p.store.Watermark(p.stateKey)
		if err != nil {
			errc <- fmt.Errorf("name_producer(%s): read watermark: %w", p.table, err)
			return
		}
		watermark, err := time.Parse(models.TimestampLayout, watermarkStr)
		if err != nil {
			errc <- fmt.Errorf("name_producer(%s): parse watermark %q: %w", p.table, watermarkStr, err)
			return
		}

		query := fmt.Sprintf(
			`SELECT id, %s, modified FROM %s.%s WHERE modified > $1 ORDER BY modified ASC`,
			pgx.Identifier{p.nameColumn}.Sanitize(),
			pgx.Identifier{p.schema}.Sanitize(), pgx.Identifier{p.table}.Sanitize(),
		)

		rows, err := p.pool.Query(ctx, query, watermark)
		if err != nil {
			errc <- fmt.Errorf("name_producer(%s): query: %w", p.table, err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var row NameRow
			if err := rows.Scan(&row.ID, &row.Name, &row.Modified); err != nil {
				errc <- fmt.Errorf("name_producer(%s): scan: %w", p.table, err)
				return
			}

			if err := p.store.Set(p.stateKey, row.Modified.UTC().Format(models.TimestampLayout)); err != nil {
				errc <- fmt.Errorf("name_producer(%s): advance watermark: %w", p.table, err)
				return
			}

			select {
			case out <- row:
				count++
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := rows.Err(); err != nil {
			errc <- fmt.Errorf("name_producer(%s): rows: %w", p.table, err)
			return
		}

		logging.Ctx(ctx).Debug().Str("table", p.table).Int("rows", count).Msg("name producer drained")
	}()

	return out, errc
}
