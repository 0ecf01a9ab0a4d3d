// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package cacheaside_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinoscope/catalog/internal/cacheaside"
)

func TestFingerprint_EqualArgsProduceEqualKeys(t *testing.T) {
	a := cacheaside.Fingerprint("film_id", "F1")
	b := cacheaside.Fingerprint("film_id", "F1")
	assert.Equal(t, a, b)
}

func TestFingerprint_UnequalArgsProduceUnequalKeys(t *testing.T) {
	a := cacheaside.Fingerprint("film_id", "F1")
	b := cacheaside.Fingerprint("film_id", "F2")
	assert.NotEqual(t, a, b)
}

func TestFingerprint_OrderMatters(t *testing.T) {
	a := cacheaside.Fingerprint("sort", "page_size", "1")
	b := cacheaside.Fingerprint("1", "page_size", "sort")
	assert.NotEqual(t, a, b)
}

func TestFingerprint_EmptySegmentsDoNotCollideWithFewerParts(t *testing.T) {
	a := cacheaside.Fingerprint("a", "", "b")
	b := cacheaside.Fingerprint("a", "b")
	assert.NotEqual(t, a, b)
}

func TestFingerprint_TypesStringifyStably(t *testing.T) {
	a := cacheaside.Fingerprint("page_size", 50, "page_number", 1)
	b := cacheaside.Fingerprint("page_size", 50, "page_number", 1)
	assert.Equal(t, a, b)

	c := cacheaside.Fingerprint("page_size", 50, "page_number", 2)
	assert.NotEqual(t, a, c)
}

func TestFingerprint_NilPartStringifiesToNull(t *testing.T) {
	got := cacheaside.Fingerprint("genre_id", nil)
	assert.Equal(t, "genre_id:null", got)
}
