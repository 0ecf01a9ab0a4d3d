// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package source

import "context"

// ProducerIDs projects a ProducerRow stream down to its IDs, the shape
// the Enricher and Merger both consume.
func ProducerIDs(ctx context.Context, in <-chan ProducerRow) <-chan string {
	return mapIDs(ctx, in, func(r ProducerRow) string { return r.ID })
}

// MergerIDs projects a MergerRow stream down to its IDs.
func MergerIDs(ctx context.Context, in <-chan MergerRow) <-chan string {
	return mapIDs(ctx, in, func(r MergerRow) string { return r.ID })
}

func mapIDs[T any](ctx context.Context, in <-chan T, id func(T) string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- id(v):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
