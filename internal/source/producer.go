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

// ProducerRow is one {id, modified} pair read from a source table, the
// Go analogue of the original ETL's ExtractProducer dataclass.
type ProducerRow struct {
	ID       string
	Modified time.Time
}

// Producer streams rows from schema.table whose modified column is
// greater than the table's watermark, advancing the watermark as each
// row is yielded (SPEC_FULL.md §4.3). schema, table and orderKey are
// operator-configured identifiers (POSTGRES_SCHEMA, table name), never
// user input, so they are interpolated directly as in the source ETL's
// generate_sql; the watermark value itself is always passed as a bound
// parameter.
type Producer struct {
	pool     *Pool
	schema   string
	table    string
	orderKey string
	stateKey string
	store    *state.Store
}

// NewProducer builds a Producer reading table under schema, tracking
// its progress under stateKey, ordered by "modified".
func NewProducer(pool *Pool, schema, table, stateKey string, store *state.Store) *Producer {
	return &Producer{pool: pool, schema: schema, table: table, orderKey: "modified", stateKey: stateKey, store: store}
}

// Stream returns a channel of rows modified since the current watermark,
// ordered by orderKey ascending, and an error channel that carries at
// most one terminal error. The watermark is advanced synchronously just
// before each row is sent, so a consumer that stops reading mid-stream
// leaves the watermark at the row in flight, which it may not have
// received.
func (p *Producer) Stream(ctx context.Context) (<-chan ProducerRow, <-chan error) {
	out := make(chan ProducerRow)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		watermarkStr, err := p.store.Watermark(p.stateKey)
		if err != nil {
			errc <- fmt.Errorf("producer(%s): read watermark: %w", p.table, err)
			return
		}
		watermark, err := time.Parse(models.TimestampLayout, watermarkStr)
		if err != nil {
			errc <- fmt.Errorf("producer(%s): parse watermark %q: %w", p.table, watermarkStr, err)
			return
		}

		query := fmt.Sprintf(
			`SELECT id, modified FROM %s.%s WHERE modified > $1 ORDER BY %s ASC`,
			pgx.Identifier{p.schema}.Sanitize(), pgx.Identifier{p.table}.Sanitize(), pgx.Identifier{p.orderKey}.Sanitize(),
		)

		rows, err := p.pool.Query(ctx, query, watermark)
		if err != nil {
			errc <- fmt.Errorf("producer(%s): query: %w", p.table, err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var row ProducerRow
			if err := rows.Scan(&row.ID, &row.Modified); err != nil {
				errc <- fmt.Errorf("producer(%s): scan: %w", p.table, err)
				return
			}

			if err := p.store.Set(p.stateKey, row.Modified.UTC().Format(models.TimestampLayout)); err != nil {
				errc <- fmt.Errorf("producer(%s): advance watermark: %w", p.table, err)
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
			errc <- fmt.Errorf("producer(%s): rows: %w", p.table, err)
			return
		}

		logging.Ctx(ctx).Debug().Str("table", p.table).Int("rows", count).Msg("producer drained")
	}()

	return out, errc
}
