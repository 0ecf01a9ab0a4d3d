// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Command api is the catalog query API entrypoint of SPEC_FULL.md §6: it
// wires the cache-aside Redis client, the read-only DuckDB search index
// and the three query services behind the chi router in
// internal/httpapi, then serves HTTP until a termination signal
// arrives.
//
// Grounded on cartographus's cmd/server/main.go load-config ->
// init-logging -> init-collaborators -> serve -> graceful-shutdown
// shape, trimmed to this binary's own read-only collaborators.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinoscope/catalog/internal/cacheaside"
	"github.com/kinoscope/catalog/internal/config"
	"github.com/kinoscope/catalog/internal/httpapi"
	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/query"
	"github.com/kinoscope/catalog/internal/searchindex"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().
		Str("service_url", cfg.API.ServiceURL).
		Str("index_path", cfg.Index.Path).
		Str("redis_addr", cfg.Redis.Addr()).
		Msg("starting catalog query API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	index, err := searchindex.Open(ctx, cfg.Index.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open search index")
	}
	defer func() {
		if err := index.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing search index")
		}
	}()

	redisClient, err := cacheaside.Connect(ctx, cfg.Redis.Addr())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing redis client")
		}
	}()
	cache := cacheaside.New(redisClient)

	svc := httpapi.Services{
		Films:   query.NewFilmService(cache, index),
		Genres:  query.NewGenreService(cache, index),
		Persons: query.NewPersonService(cache, index),
	}

	server := &http.Server{
		Addr:         cfg.API.ServiceURL,
		Handler:      httpapi.NewRouter(svc),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("query API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logging.Error().Err(err).Msg("query API server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("error during server shutdown")
	}

	logging.Info().Msg("catalog query API stopped")
}
