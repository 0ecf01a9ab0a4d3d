// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// defaultConfig returns a Config with the source's own defaults
// (10.0.0.0-style hosts are deliberately not guessed at; only the
// numeric/duration defaults the source ships are reproduced).
func defaultConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{
			Host:   "localhost",
			Port:   5432,
			Batch:  1000,
			Schema: "content",
		},
		Index: IndexConfig{
			Host:   "localhost",
			Port:   9200,
			Prefix: "catalog",
			Batch:  1000,
			Path:   "/data/catalog.duckdb",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Pipeline: PipelineConfig{
			StatePath: "/data/state.json",
			SleepTime: 10 * time.Second,
		},
		Backoff: BackoffConfig{
			StartTime:  100 * time.Millisecond,
			Factor:     2,
			BorderTime: 10 * time.Second,
		},
		API: APIConfig{
			ServiceURL: "0.0.0.0:8000",
		},
	}
}

// envMappings transforms spec.md §6's fixed environment variable names
// into koanf paths, the same style as cartographus's envTransformFunc
// but with a small, closed map instead of a dozen integration sections.
var envMappings = map[string]string{
	"postgres_db":       "postgres.db",
	"postgres_user":     "postgres.user",
	"postgres_password": "postgres.password",
	"postgres_host":     "postgres.host",
	"postgres_port":     "postgres.port",
	"postgres_batch":    "postgres.batch",
	"postgres_schema":   "postgres.schema",

	"elastic_host":  "index.host",
	"elastic_port":  "index.port",
	"elastic_index": "index.prefix",
	"elastic_batch": "index.batch",
	"index_path":    "index.path",

	"redis_host": "redis.host",
	"redis_port": "redis.port",

	"state_path": "pipeline.state_path",
	"sleep_time": "pipeline.sleep_time",

	"backoff_start_time":  "backoff.start_time",
	"backoff_factor":      "backoff.factor",
	"backoff_border_time": "backoff.border_time",

	"service_url": "api.service_url",
}

func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// Load reads Config purely from environment variables layered over
// built-in defaults (ENV > defaults, per SPEC_FULL.md §2), the same
// koanf.New(".") + structs.Provider + env.Provider layering as
// cartographus's LoadWithKoanf, minus the file-provider layer (this
// deployment has no config.yaml).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
