// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package state implements the ETL's durable watermark store: a
// file-backed string-to-string map, persisted with the same
// write-temp-then-rename discipline cartographus's internal/wal package
// uses to guarantee no partially-written file is ever observed after a
// crash (SPEC_FULL.md §4.1).
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kinoscope/catalog/internal/models"
)

// Store is a durable key-value map persisted as JSON at Path. A missing
// file is treated as an empty map (implicit initialization per
// SPEC_FULL.md §4.1). Store is safe for concurrent Get; concurrent Set
// from multiple writers is undefined, per the single-writer assumption
// in SPEC_FULL.md §9.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// Open loads Store from path, creating an empty in-memory map if the
// file does not yet exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", path, err)
	}
	return s, nil
}

// Get returns the value stored under key, or ok=false if absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Watermark returns the timestamp watermark for key, defaulting to the
// epoch-zero sentinel on first run (SPEC_FULL.md §3).
func (s *Store) Watermark(key string) (string, error) {
	v, ok := s.Get(key)
	if !ok {
		return models.EpochZero.Format(models.TimestampLayout), nil
	}
	return v, nil
}

// Set durably persists key=value before returning: the new map is
// written to a temp file in the same directory and atomically renamed
// over Path, so a crash mid-write never leaves Path partially written.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.writeLocked()
}

func (s *Store) writeLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("state: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("state: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("state: rename into place: %w", err)
	}
	return nil
}

// Snapshot returns a copy of all key-value pairs, for diagnostics/tests.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
