// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package cacheaside is the read-through cache layer of SPEC_FULL.md
// §4.8: a generic Fingerprint/GetCached/PutCached collaborator injected
// into each query service, replacing the source's BaseService
// inheritance chain with composition (SPEC_FULL.md §9 "Inheritance in
// source").
//
// The Cacher shape is grounded on cartographus's internal/cache.Cacher
// interface (Get/Set/SetWithTTL/Delete), reimplemented here against
// Redis — adopted from the pack's taibuivan-yomira platform/redis client
// — instead of the teacher's in-process TTL/LFU map, since
// SPEC_FULL.md §5 requires the cache to be shared by every query-service
// instance, not per-process.
package cacheaside

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/metrics"
)

// DefaultTTL is the cache entry lifetime SPEC_FULL.md §3 specifies for
// a "Cache entry": 300 seconds.
const DefaultTTL = 300 * time.Second

// ErrCacheMiss is returned by GetCached when the fingerprint is absent,
// the sentinel callers use to fall through to the search index.
var ErrCacheMiss = errors.New("cacheaside: miss")

// CacheAside wraps a Redis client with the generic fingerprint/get/put
// helpers every concrete query service composes over.
type CacheAside struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a CacheAside over an already-connected Redis client, with
// the default 300s TTL.
func New(client *redis.Client) *CacheAside {
	return &CacheAside{client: client, ttl: DefaultTTL}
}

// Connect parses addr ("host:port") and validates connectivity with a
// ping before returning, the same eager-connect-at-startup discipline
// as source.Open and searchindex.Open.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cacheaside: redis ping: %w", err)
	}

	logging.Info().Str("addr", addr).Msg("cache-aside redis client connected")
	return client, nil
}

// Fingerprint deterministically joins parts with ":" after stably
// stringifying each one (SPEC_FULL.md §4.8). Equal argument tuples
// always produce equal fingerprints; an empty part still contributes an
// empty segment rather than being skipped, so `("a", "", "b")` and
// `("a", "b")` never collide.
func Fingerprint(parts ...any) string {
	segments := make([]string, len(parts))
	for i, p := range parts {
		segments[i] = stringify(p)
	}
	return strings.Join(segments, ":")
}

func stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// GetCached reads the value stored under fingerprint and decodes it
// into dst (a pointer). Returns ErrCacheMiss if absent; any other Redis
// error is also reported as ErrCacheMiss after logging, since a cache
// failure must never fail the caller's request (SPEC_FULL.md §4.8).
func GetCached[T any](ctx context.Context, c *CacheAside, fingerprint string, dst *T) error {
	operation := operationLabel(fingerprint)

	raw, err := c.client.Get(ctx, fingerprint).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Ctx(ctx).Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache read failed")
		}
		metrics.RecordCacheMiss(operation)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache decode failed")
		metrics.RecordCacheMiss(operation)
		return ErrCacheMiss
	}
	metrics.RecordCacheHit(operation)
	return nil
}

// operationLabel derives a low-cardinality Prometheus label from a
// fingerprint, taking everything before the first ":" (e.g.
// "film_id:abc-123" -> "film_id"), or the whole fingerprint for
// fixed keys like "all_genres".
func operationLabel(fingerprint string) string {
	if i := strings.IndexByte(fingerprint, ':'); i >= 0 {
		return fingerprint[:i]
	}
	return fingerprint
}

// PutCached serializes value and writes it under fingerprint with ttl
// (DefaultTTL if ttl <= 0). Never returns an error to the caller: a
// failed write is logged and swallowed, per SPEC_FULL.md §4.8's
// "never blocks the caller on failure" contract.
func PutCached(ctx context.Context, c *CacheAside, fingerprint string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, fingerprint, raw, ttl).Err(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache write failed")
	}
}
