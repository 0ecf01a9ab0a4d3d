// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Command etl is the catalog ETL entrypoint of SPEC_FULL.md §2: it
// wires the state store, Postgres pool, DuckDB search index and
// backoff-wrapped pipeline, then runs the pipeline loop until a
// termination signal arrives.
//
// Grounded on cartographus's cmd/server/main.go load-config ->
// init-logging -> init-collaborators -> run -> graceful-shutdown shape,
// trimmed to this binary's own collaborators (no supervisor tree,
// websocket hub, or auth stack — this process has none of those).
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kinoscope/catalog/internal/backoff"
	"github.com/kinoscope/catalog/internal/config"
	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/pipeline"
	"github.com/kinoscope/catalog/internal/searchindex"
	"github.com/kinoscope/catalog/internal/source"
	"github.com/kinoscope/catalog/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().
		Str("postgres_host", cfg.Postgres.Host).
		Str("index_path", cfg.Index.Path).
		Str("state_path", cfg.Pipeline.StatePath).
		Msg("starting catalog ETL")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := state.Open(cfg.Pipeline.StatePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open state store")
	}

	pool, err := source.Open(ctx, cfg.Postgres.DSN())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open postgres pool")
	}
	defer pool.Close()

	index, err := searchindex.Open(ctx, cfg.Index.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open search index")
	}
	defer func() {
		if err := index.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing search index")
		}
	}()

	p := pipeline.New(pool, index, store, pipeline.Config{
		Schema:       cfg.Postgres.Schema,
		Interval:     cfg.Pipeline.SleepTime,
		BatchSize:    cfg.Index.Batch,
		ExtractBatch: cfg.Postgres.Batch,
		Backoff: backoff.Policy{
			Start:  cfg.Backoff.StartTime,
			Factor: cfg.Backoff.Factor,
			Border: cfg.Backoff.BorderTime,
		},
	})

	p.Run(ctx)

	logging.Info().Msg("catalog ETL stopped")
}
