// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	os.Clearenv()
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
	}
	t.Cleanup(os.Clearenv)
}

func TestLoad_RequiredFieldsMissing(t *testing.T) {
	setupTestEnv(t, nil)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DB")
}

func TestLoad_AppliesDefaultsAndOverrides(t *testing.T) {
	setupTestEnv(t, map[string]string{
		"POSTGRES_DB":   "catalog",
		"POSTGRES_USER": "catalog",
		"POSTGRES_HOST": "db.internal",
		"POSTGRES_PORT": "6543",
		"REDIS_HOST":    "cache.internal",
		"INDEX_PATH":    "/var/lib/catalog/index.duckdb",
		"ELASTIC_INDEX": "films",
		"STATE_PATH":    "/var/lib/catalog/state.json",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog", cfg.Postgres.DB)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "content", cfg.Postgres.Schema, "unset fields keep their default")
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "films", cfg.Index.Prefix)
	assert.Equal(t, "/var/lib/catalog/index.duckdb", cfg.Index.Path)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{User: "catalog", Password: "secret", Host: "db", Port: 5432, DB: "catalog"}
	assert.Equal(t, "postgres://catalog:secret@db:5432/catalog", c.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", c.Addr())
}

func TestValidate_RejectsNonRetryingBackoffFactor(t *testing.T) {
	cfg := defaultConfig()
	cfg.Postgres.DB = "catalog"
	cfg.Postgres.User = "catalog"
	cfg.Backoff.Factor = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKOFF_FACTOR")
}
