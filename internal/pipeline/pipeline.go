// Package pipeline batches entity jobs through the search, extraction
// and verification stages.
package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/extract"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/search"
)

// Batch pacing defaults. The inter-batch pause keeps the search provider
// happy; the failure pause backs off harder after any job in a batch
// fails.
const (
	DefaultBatchSize       = 10
	DefaultInterBatchPause = 2 * time.Second
	DefaultFailurePause    = 5 * time.Second
)

// DefaultQueryTemplate is used when the caller does not supply one. The
// {entity} placeholder is replaced with the entity text.
const DefaultQueryTemplate = "{entity} contact information email website location"

// ProgressFunc is called after each entity reaches a terminal state.
type ProgressFunc func(processed, total int)

// Orchestrator drives entity jobs through the full resolution chain.
type Orchestrator struct {
	search    search.Client
	extractor *extract.Engine
	verifier  *extract.Verifier

	batchSize       int
	maxResults      int
	interBatchPause time.Duration
	failurePause    time.Duration
	progress        ProgressFunc

	sleep func(ctx context.Context, d time.Duration) error
}

// Config tunes the orchestrator. Zero values fall back to defaults.
type Config struct {
	BatchSize       int
	MaxResults      int
	InterBatchPause time.Duration
	FailurePause    time.Duration
	Progress        ProgressFunc
}

// New creates a batch orchestrator over the three stages.
func New(sc search.Client, eng *extract.Engine, ver *extract.Verifier, cfg Config) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = search.DefaultMaxResults
	}
	if cfg.InterBatchPause <= 0 {
		cfg.InterBatchPause = DefaultInterBatchPause
	}
	if cfg.FailurePause <= 0 {
		cfg.FailurePause = DefaultFailurePause
	}
	return &Orchestrator{
		search:          sc,
		extractor:       eng,
		verifier:        ver,
		batchSize:       cfg.BatchSize,
		maxResults:      cfg.MaxResults,
		interBatchPause: cfg.InterBatchPause,
		failurePause:    cfg.FailurePause,
		progress:        cfg.Progress,
		sleep:           sleepCtx,
	}
}

// BuildQuery expands the {entity} placeholder in template. An empty
// template falls back to DefaultQueryTemplate.
func BuildQuery(template, entity string) string {
	if template == "" {
		template = DefaultQueryTemplate
	}
	return strings.ReplaceAll(template, "{entity}", entity)
}

// Run resolves every entity and returns one row per input, in input
// order. A failing entity never aborts the run: its row carries the
// error and its siblings proceed. Run stops early only when ctx is
// cancelled, returning the rows completed so far.
func (o *Orchestrator) Run(ctx context.Context, entities []string, queryTemplate string) ([]model.Row, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: starting run", zap.Int("entities", len(entities)))

	jobs := make([]*model.EntityJob, len(entities))
	for i, entity := range entities {
		jobs[i] = &model.EntityJob{
			Row:    i,
			Entity: entity,
			Query:  BuildQuery(queryTemplate, entity),
			State:  model.JobPending,
		}
	}

	var processed atomic.Int64
	finish := func(job *model.EntityJob) {
		n := int(processed.Add(1))
		if o.progress != nil {
			o.progress(n, len(jobs))
		}
		if job.State == model.JobFailed {
			log.Warn("pipeline: entity failed",
				zap.Int("row", job.Row),
				zap.String("entity", job.Entity),
				zap.String("error", job.Err),
			)
		}
	}

	// A single entity runs synchronously with no batch pacing.
	if len(jobs) == 1 {
		o.process(ctx, jobs[0])
		finish(jobs[0])
		return collectRows(jobs), nil
	}

	for start := 0; start < len(jobs); start += o.batchSize {
		if err := ctx.Err(); err != nil {
			log.Warn("pipeline: run cancelled", zap.Int("completed", start))
			return collectRows(jobs[:start]), err
		}

		end := start + o.batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]
		log.Info("pipeline: processing batch",
			zap.Int("from", start),
			zap.Int("to", end-1),
		)

		g, gctx := errgroup.WithContext(ctx)
		for _, job := range batch {
			job := job
			g.Go(func() error {
				o.process(gctx, job)
				finish(job)
				// Job failures stay on the job; the group never sees
				// an error, so siblings always run to completion.
				return nil
			})
		}
		_ = g.Wait()

		failed := false
		for _, job := range batch {
			if job.State == model.JobFailed {
				failed = true
				break
			}
		}
		if failed {
			if err := o.sleep(ctx, o.failurePause); err != nil {
				return collectRows(jobs[:end]), err
			}
		}
		if end < len(jobs) {
			if err := o.sleep(ctx, o.interBatchPause); err != nil {
				return collectRows(jobs[:end]), err
			}
		}
	}

	log.Info("pipeline: run complete", zap.Int64("processed", processed.Load()))
	return collectRows(jobs), nil
}

// process runs one job through Search, Extract and Verify. All stage
// failures are absorbed into the job's terminal state.
func (o *Orchestrator) process(ctx context.Context, job *model.EntityJob) {
	job.State = model.JobSearching
	results, err := o.search.Search(ctx, job.Query, o.maxResults)
	if err != nil {
		job.Fail(err.Error())
		return
	}

	job.State = model.JobExtracting
	draft := o.extractor.Extract(ctx, results, job.Entity)

	job.State = model.JobVerifying
	job.Profile = o.verifier.Verify(ctx, draft, job.Entity)
	job.State = model.JobDone
}

func collectRows(jobs []*model.EntityJob) []model.Row {
	rows := make([]model.Row, len(jobs))
	for i, job := range jobs {
		rows[i] = model.FromJob(job)
	}
	return rows
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
