// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/pipeline"
	"github.com/kinoscope/catalog/internal/source"
)

func TestPersonSync_EmptyNameStreamWritesNothing(t *testing.T) {
	idx := openTestIndex(t)
	// A nil pool is safe here only because an empty name stream means
	// Run returns before ever opening the PersonCredits join.
	credits := source.NewPersonCredits(nil, "content", 10)
	sync := pipeline.NewPersonSync(credits, idx, 10)

	names := make(chan source.NameRow)
	close(names)
	errs := make(chan error)
	close(errs)

	written, err := sync.Run(context.Background(), names, errs)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestPersonSync_PropagatesUpstreamError(t *testing.T) {
	idx := openTestIndex(t)
	credits := source.NewPersonCredits(nil, "content", 10)
	sync := pipeline.NewPersonSync(credits, idx, 10)

	names := make(chan source.NameRow)
	close(names)
	errs := make(chan error, 1)
	errs <- assertErr
	close(errs)

	_, err := sync.Run(context.Background(), names, errs)
	require.ErrorIs(t, err, assertErr)
}
