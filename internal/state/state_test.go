// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package state_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/state"
)

func TestOpen_MissingFileIsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := state.Open(path)
	require.NoError(t, err)

	wm, err := s.Watermark(models.WatermarkFilmsModified)
	require.NoError(t, err)
	assert.Equal(t, models.EpochZero.Format(models.TimestampLayout), wm)
}

func TestSet_PersistsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := state.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(models.WatermarkFilmsModified, "2024-01-01T00:00:00.000000 +0000"))

	reopened, err := state.Open(path)
	require.NoError(t, err)

	v, ok := reopened.Get(models.WatermarkFilmsModified)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T00:00:00.000000 +0000", v)
}

func TestWatermark_MonotonicAcrossSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := state.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(models.WatermarkFilmsModified, "2024-01-01T00:00:00.000000 +0000"))
	first, err := s.Watermark(models.WatermarkFilmsModified)
	require.NoError(t, err)

	require.NoError(t, s.Set(models.WatermarkFilmsModified, "2024-01-02T00:00:00.000000 +0000"))
	second, err := s.Watermark(models.WatermarkFilmsModified)
	require.NoError(t, err)

	assert.Less(t, first, second, "lexicographic compare must agree with time order")
}
