// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/kinoscope/catalog/internal/backoff"
	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/metrics"
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
	"github.com/kinoscope/catalog/internal/source"
	"github.com/kinoscope/catalog/internal/state"
)

// Config bundles the tunables a Pipeline needs, mirroring the source's
// ExtractorConfig/EsConfig (SPEC_FULL.md §6).
type Config struct {
	Schema       string
	Interval     time.Duration
	BatchSize    int
	ExtractBatch int
	Backoff      backoff.Policy
}

// Pipeline is the top-level ETL driver (SPEC_FULL.md §5): one
// iteration runs the three extraction tasks (persons, genres, films),
// all three converging into the same Enricher -> Aggregator ->
// MovieLoader chain, plus the supplemented GenreSync/PersonSync
// dimension-index stages, then sleeps until the next tick. The
// ticker/mutex shape is adapted from cartographus's syncLoop; the
// three-task-per-iteration structure and the single-sleep-loop come
// from the source ETL's main.py.
type Pipeline struct {
	pool   *source.Pool
	index  *searchindex.Index
	store  *state.Store
	cfg    Config

	mu sync.Mutex
}

// New builds a Pipeline over the given Postgres pool, search index and
// watermark store.
func New(pool *source.Pool, index *searchindex.Index, store *state.Store, cfg Config) *Pipeline {
	if cfg.Schema == "" {
		cfg.Schema = "content"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if cfg.ExtractBatch <= 0 {
		cfg.ExtractBatch = 1000
	}
	return &Pipeline{pool: pool, index: index, store: store, cfg: cfg}
}

// Run loops forever, running one iteration every cfg.Interval, until
// ctx is cancelled. Concurrent iterations are prevented by mu, the same
// guard cartographus's syncLoop takes around syncData.
func (p *Pipeline) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	if err := p.runOnce(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("pipeline iteration failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.runOnce(ctx); err != nil {
				logging.Ctx(ctx).Error().Err(err).Msg("pipeline iteration failed")
			}
		}
	}
}

// runOnce drives exactly one pass of all five sync tasks (films,
// persons, genres -> movies; plus genre/person dimension sync),
// guarded so a slow iteration is never overlapped by the next tick.
func (p *Pipeline) runOnce(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	note(p.runFilmTask(ctx, "films", models.WatermarkFilmsModified, nil))
	note(p.runFilmTask(ctx, "persons", models.WatermarkPersonsModified, &source.JoinSpec{
		BaseTable: "film_work", BaseTableID: "id",
		MergeTable: "person_film_work", MergeTableID: "person_id", MergeTableFK: "film_work_id",
	}))
	note(p.runFilmTask(ctx, "genres", models.WatermarkGenresModified, &source.JoinSpec{
		BaseTable: "film_work", BaseTableID: "id",
		MergeTable: "genre_film_work", MergeTableID: "genre_id", MergeTableFK: "film_work_id",
	}))

	note(p.runGenreSync(ctx))
	note(p.runPersonSync(ctx))

	return firstErr
}

// runFilmTask runs one of the three movie-producing extraction tasks:
// a Producer over table, optionally fanned out through spec's join,
// then Enricher -> Aggregator -> MovieLoader, exactly the source's
// persons/genres/films task split (all three share one Enricher
// pipeline and write only to the movies index).
func (p *Pipeline) runFilmTask(ctx context.Context, table, stateKey string, spec *source.JoinSpec) error {
	start := time.Now()
	producer := source.NewProducer(p.pool, p.cfg.Schema, sourceTableFor(table), stateKey, p.store)

	var ids <-chan string
	upstreamErrs := []<-chan error{}

	rows, prodErrs := backoff.RetryStream(ctx, p.cfg.Backoff, table+"_producer", producer.Stream)
	upstreamErrs = append(upstreamErrs, prodErrs)

	if spec != nil {
		merger := source.NewMerger(p.pool, p.cfg.Schema, *spec, p.cfg.ExtractBatch)
		merged, mergeErrs := merger.Stream(ctx, rows)
		ids = source.MergerIDs(ctx, merged)
		upstreamErrs = append(upstreamErrs, mergeErrs)
	} else {
		ids = source.ProducerIDs(ctx, rows)
	}

	enricher := source.NewEnricher(p.pool, p.cfg.Schema, p.cfg.ExtractBatch)
	enriched, enrichErrs := enricher.Stream(ctx, ids)
	upstreamErrs = append(upstreamErrs, enrichErrs)

	aggregator := NewAggregator()
	movies, aggErrs := aggregator.Stream(ctx, enriched)
	upstreamErrs = append(upstreamErrs, aggErrs)

	loader := NewMovieLoader(p.index, p.cfg.BatchSize)

	var loadErr error
	var written int
	done := make(chan struct{})
	go func() {
		defer close(done)
		written, loadErr = loader.Drain(ctx, movies)
	}()

	finalErr := firstOf(ctx, upstreamErrs...)
	<-done
	if finalErr == nil {
		finalErr = loadErr
	}

	logging.Ctx(ctx).Info().Str("task", table).Int("movies_written", written).Msg("film task iteration complete")
	metrics.RecordPipelineTask(table, time.Since(start), written, finalErr)
	if wm, err := p.store.Watermark(stateKey); err == nil {
		if t, parseErr := time.Parse(models.TimestampLayout, wm); parseErr == nil {
			metrics.RecordWatermark(stateKey, t)
		}
	}
	return finalErr
}

func (p *Pipeline) runGenreSync(ctx context.Context) error {
	start := time.Now()
	producer := source.NewNameProducer(p.pool, p.cfg.Schema, "genre", "name", models.WatermarkGenresIndexModified, p.store)
	names, errs := producer.Stream(ctx)

	sync := NewGenreSync(p.index, p.cfg.BatchSize)
	written, err := sync.Run(ctx, names, errs)
	logging.Ctx(ctx).Info().Int("genres_written", written).Msg("genre sync iteration complete")
	metrics.RecordPipelineTask("genre_sync", time.Since(start), written, err)
	return err
}

func (p *Pipeline) runPersonSync(ctx context.Context) error {
	start := time.Now()
	producer := source.NewNameProducer(p.pool, p.cfg.Schema, "person", "full_name", models.WatermarkPersonsIndexModified, p.store)
	names, errs := producer.Stream(ctx)

	credits := source.NewPersonCredits(p.pool, p.cfg.Schema, p.cfg.ExtractBatch)
	sync := NewPersonSync(credits, p.index, p.cfg.BatchSize)
	written, err := sync.Run(ctx, names, errs)
	logging.Ctx(ctx).Info().Int("persons_written", written).Msg("person sync iteration complete")
	metrics.RecordPipelineTask("person_sync", time.Since(start), written, err)
	return err
}

// sourceTableFor maps a task name to its Producer's base table: the
// persons/genres tasks scan person/genre directly (their Merger then
// fans out to film_work), while films scans film_work itself.
func sourceTableFor(task string) string {
	switch task {
	case "persons":
		return "person"
	case "genres":
		return "genre"
	default:
		return "film_work"
	}
}

// firstOf waits for every error channel to close (each carries at most
// one terminal error) and returns the first non-nil error observed,
// across any of them, in the order they arrive.
func firstOf(ctx context.Context, chans ...<-chan error) error {
	var wg sync.WaitGroup
	collected := make(chan error, len(chans))

	for _, c := range chans {
		if c == nil {
			continue
		}
		wg.Add(1)
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				if err != nil {
					collected <- err
				}
			}
		}(c)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
		close(collected)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	var firstErr error
	for err := range collected {
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
