// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kinoscope/catalog/internal/source"
)

func TestProducerIDs_ProjectsIDsInOrder(t *testing.T) {
	ctx := context.Background()
	in := make(chan source.ProducerRow, 3)
	in <- source.ProducerRow{ID: "a", Modified: time.Now()}
	in <- source.ProducerRow{ID: "b", Modified: time.Now()}
	in <- source.ProducerRow{ID: "c", Modified: time.Now()}
	close(in)

	var got []string
	for id := range source.ProducerIDs(ctx, in) {
		got = append(got, id)
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestMergerIDs_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan source.MergerRow)

	out := source.MergerIDs(ctx, in)
	cancel()

	_, ok := <-out
	assert.False(t, ok)
}
