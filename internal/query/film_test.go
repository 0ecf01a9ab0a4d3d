// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinoscope/catalog/internal/query"
)

func TestFilmService_GetBySort_RejectsInvalidSortBeforeTouchingCollaborators(t *testing.T) {
	// Both collaborators are nil: GetBySort must validate sort and
	// return before ever dereferencing cache or index.
	svc := query.NewFilmService(nil, nil)

	_, err := svc.GetBySort(context.Background(), "title", 50, 1, "")
	assert.Error(t, err)
}
