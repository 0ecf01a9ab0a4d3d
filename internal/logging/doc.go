// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package logging provides centralized zerolog-based structured logging shared
// by the ETL pipeline (cmd/etl) and the query API (cmd/api).
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("table", "film").Msg("producer started")
//	logging.Ctx(ctx).Error().Err(err).Msg("bulk upsert failed")
//
// # Configuration
//
// Settings come only from the Config passed to Init (Level, Format,
// Caller, Timestamp, Output); the package reads no LOG_* environment
// variables. Until Init is called, the logger runs with DefaultConfig:
// info level, JSON to stderr, timestamps on, caller off.
//
// Always terminate a log chain with .Msg() or .Send(); an event built but
// never sent is silently discarded. Prefer structured fields
// (.Str/.Int/.Dur) over Msgf-style formatting so log lines stay queryable.
package logging
