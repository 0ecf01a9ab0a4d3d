// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package config is the layered configuration loader of SPEC_FULL.md
// §2's ambient stack, grounded on cartographus's internal/config
// (koanf.go's LoadWithKoanf) but scoped down to the fixed environment
// variable list spec.md §6 names, rather than the teacher's dozen
// optional media-server integrations.
package config

import (
	"fmt"
	"time"
)

// Config holds every setting the ETL and API binaries need, sourced
// entirely from environment variables per spec.md §6. There is no
// config-file layer for this deployment shape (the teacher's
// config.yaml discovery is dropped; see DESIGN.md), only
// defaults -> environment.
type Config struct {
	Postgres PostgresConfig `koanf:"postgres"`
	Index    IndexConfig    `koanf:"index"`
	Redis    RedisConfig    `koanf:"redis"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Backoff  BackoffConfig  `koanf:"backoff"`
	API      APIConfig      `koanf:"api"`
}

// PostgresConfig mirrors POSTGRES_DB/USER/PASSWORD/HOST/PORT/BATCH/SCHEMA.
type PostgresConfig struct {
	DB       string `koanf:"db"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Batch    int    `koanf:"batch"`
	Schema   string `koanf:"schema"`
}

// DSN builds the pgx connection string from the discrete fields.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.DB)
}

// IndexConfig mirrors ELASTIC_HOST/PORT/INDEX/BATCH plus INDEX_PATH,
// SPEC_FULL.md §6's DuckDB remapping: ELASTIC_HOST/PORT are carried for
// compatibility with the source's env surface but unused by the
// embedded DuckDB engine (see DESIGN.md), ELASTIC_BATCH becomes the
// loader batch size, and ELASTIC_INDEX is loaded into Prefix but not
// read by any component: the index's table names are fixed (movies,
// genres, persons).
type IndexConfig struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	Prefix string `koanf:"prefix"`
	Batch  int    `koanf:"batch"`
	Path   string `koanf:"path"`
}

// RedisConfig mirrors REDIS_HOST/PORT.
type RedisConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// Addr formats the host:port pair go-redis expects.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PipelineConfig mirrors STATE_PATH/SLEEP_TIME.
type PipelineConfig struct {
	StatePath string        `koanf:"state_path"`
	SleepTime time.Duration `koanf:"sleep_time"`
}

// BackoffConfig mirrors BACKOFF_START_TIME/FACTOR/BORDER_TIME.
type BackoffConfig struct {
	StartTime  time.Duration `koanf:"start_time"`
	Factor     float64       `koanf:"factor"`
	BorderTime time.Duration `koanf:"border_time"`
}

// APIConfig mirrors SERVICE_URL, the address cmd/api binds to.
type APIConfig struct {
	ServiceURL string `koanf:"service_url"`
}
