// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package config

import "fmt"

// Validate checks that the fields every component depends on at
// startup are present, the same early-fail discipline as
// cartographus's Config.Validate.
func (c *Config) Validate() error {
	if c.Postgres.DB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if c.Postgres.User == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.Index.Path == "" {
		return fmt.Errorf("INDEX_PATH is required")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.Pipeline.StatePath == "" {
		return fmt.Errorf("STATE_PATH is required")
	}
	if c.Backoff.Factor <= 1 {
		return fmt.Errorf("BACKOFF_FACTOR must be greater than 1")
	}
	return nil
}
