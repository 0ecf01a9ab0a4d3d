// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package backoff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoscope/catalog/internal/backoff"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	policy := backoff.Policy{Start: time.Millisecond, Factor: 2, Border: 10 * time.Millisecond}

	attempts := 0
	err := backoff.Retry(context.Background(), policy, "test-step", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_StopsWhenContextCancelled(t *testing.T) {
	policy := backoff.Policy{Start: time.Millisecond, Factor: 2, Border: 5 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	cancel() // cancel before the first attempt

	err := backoff.Retry(ctx, policy, "cancelled-step", func(ctx context.Context) error {
		attempts++
		return errors.New("always fails")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}

func TestRetryStream_RestartsFromOpenOnFailure(t *testing.T) {
	policy := backoff.Policy{Start: time.Millisecond, Factor: 2, Border: 5 * time.Millisecond}
	opens := 0

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	open := func(ctx context.Context) (<-chan int, <-chan error) {
		opens++
		items := make(chan int, 1)
		errc := make(chan error, 1)
		if opens < 2 {
			errc <- errors.New("stream broke")
			close(items)
			close(errc)
			return items, errc
		}
		items <- 42
		close(items)
		close(errc)
		return items, errc
	}

	out, errc := backoff.RetryStream(ctx, policy, "test-stream", open)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	for err := range errc {
		require.NoError(t, err)
	}

	assert.Equal(t, []int{42}, got)
	assert.GreaterOrEqual(t, opens, 2)
}

func TestConnectionBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := backoff.NewConnectionBreaker[int]("test-resource")

	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = cb.Do(func() (int, error) {
			return 0, errors.New("connect failed")
		})
	}
	require.Error(t, lastErr)

	_, err := cb.Do(func() (int, error) {
		t.Fatal("connect should not be called while breaker is open")
		return 0, nil
	})
	assert.ErrorIs(t, err, backoff.ErrBreakerOpen)
}
