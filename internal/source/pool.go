// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package source is the relational extractor side of the ETL pipeline
// (SPEC_FULL.md §4.3-4.5): it owns the pgxpool connection to the
// catalog's Postgres source and the paginated, watermark-bounded
// queries the Producer/Merger/Enricher stages run against it. The pool
// construction and tuning is adapted from the pack's platform/postgres
// pool (taibuivan-yomira), the query style from its store_postgres.go
// repositories (window-free keyset pagination instead of COUNT(*) OVER(),
// since the ETL never needs a total count, only "is there a next page").
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinoscope/catalog/internal/logging"
)

const (
	maxConns          = 10
	minConns          = 1
	maxConnLifetime   = 30 * time.Minute
	maxConnIdleTime   = 5 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
)

// Pool wraps a tuned pgxpool.Pool for the ETL's read-only extraction
// workload.
type Pool struct {
	*pgxpool.Pool
}

// Open parses dsn, applies the ETL's pool tuning, and validates
// connectivity with a ping before returning.
func Open(ctx context.Context, dsn string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("source: invalid dsn: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLifetime
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.HealthCheckPeriod = healthCheckPeriod
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("source: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("source: ping: %w", err)
	}

	logging.Info().Int32("max_conns", cfg.MaxConns).Msg("source pool connected")
	return &Pool{Pool: pool}, nil
}
