// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package backoff is the higher-order retry wrapper of SPEC_FULL.md §4.2:
// given any step, it sleeps min(start*factor^n, border) and retries on
// transient failure. It is grounded on cartographus's internal/wal
// RetryLoop (hand-rolled capped exponential backoff around a background
// retry goroutine), reimplemented here against the real
// github.com/cenkalti/backoff/v4 library cartographus already pulled in
// transitively, and paired with github.com/sony/gobreaker/v2 for the
// connection-acquisition circuit breaker called out in SPEC_FULL.md §5.
package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/metrics"
)

// Policy configures the exponential backoff: min(start*factor^n, border).
type Policy struct {
	Start  time.Duration
	Factor float64
	Border time.Duration
}

// DefaultPolicy matches the source's defaults: BACKOFF_START_TIME=0.1s,
// BACKOFF_FACTOR=2, BACKOFF_BORDER_TIME=10s.
func DefaultPolicy() Policy {
	return Policy{Start: 100 * time.Millisecond, Factor: 2, Border: 10 * time.Second}
}

func (p Policy) toExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Start
	b.Multiplier = p.Factor
	b.MaxInterval = p.Border
	b.MaxElapsedTime = 0 // retry forever; callers cancel via context
	b.RandomizationFactor = 0
	return b
}

// Retry runs step until it succeeds or ctx is cancelled, sleeping per
// Policy between attempts. Every failure is currently treated as
// transient (SPEC_FULL.md §9 Open Question 4: splitting terminal vs
// transient errors is left to a later revision).
func Retry(ctx context.Context, policy Policy, label string, step func(ctx context.Context) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := step(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Str("step", label).
				Int("attempt", attempt).
				Err(err).
				Msg("transient failure, backing off")
		}
		return err
	}

	b := backoff.WithContext(policy.toExponentialBackOff(), ctx)
	return backoff.Retry(operation, b)
}

// RetryStream wraps a streaming producer: on failure mid-stream, the
// entire stream is restarted from its current iteration boundary by
// re-invoking open, per SPEC_FULL.md §4.2's "restarts from its current
// iteration boundary" contract. open must be idempotent with respect to
// the caller's own cursor/watermark, since it is called again from
// scratch on every retry. When the item channel closes, the stream's
// error channel is drained before the attempt counts as a success, so a
// stream that closes after reporting an error is retried.
func RetryStream[T any](ctx context.Context, policy Policy, label string, open func(ctx context.Context) (<-chan T, <-chan error)) (<-chan T, <-chan error) {
	out := make(chan T)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		err := Retry(ctx, policy, label, func(ctx context.Context) error {
			items, streamErr := open(ctx)
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case item, ok := <-items:
					if !ok {
						for err := range streamErr {
							if err != nil {
								return err
							}
						}
						return nil
					}
					select {
					case out <- item:
					case <-ctx.Done():
						return ctx.Err()
					}
				case err, ok := <-streamErr:
					if !ok {
						continue
					}
					if err != nil {
						return err
					}
				}
			}
		})
		if err != nil {
			errc <- err
		}
	}()

	return out, errc
}

// ConnectionBreaker wraps connection acquisition (DB, search index) in a
// circuit breaker, per SPEC_FULL.md §5's "on connection failure, the
// backoff driver reconnects": repeated failures trip the breaker so
// retries back off from the source instead of hammering it.
type ConnectionBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewConnectionBreaker builds a breaker named for the resource it guards
// (e.g. "postgres", "duckdb"), tripping after 5 consecutive failures and
// resetting after a 30s cooldown.
func NewConnectionBreaker[T any](name string) *ConnectionBreaker[T] {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.SetCircuitBreakerState(name, to.String())
		},
	}
	return &ConnectionBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// ErrBreakerOpen is returned (wrapped) when the breaker is open and the
// call is short-circuited instead of reaching the resource.
var ErrBreakerOpen = gobreaker.ErrOpenState

// Do executes connect through the breaker.
func (c *ConnectionBreaker[T]) Do(connect func() (T, error)) (T, error) {
	v, err := c.cb.Execute(connect)
	if err != nil && errors.Is(err, gobreaker.ErrOpenState) {
		return v, ErrBreakerOpen
	}
	return v, err
}
