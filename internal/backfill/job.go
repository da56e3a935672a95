package backfill

import (
	"context"
	"strings"
	"time"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/logger"
	"recipe-search-platform/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Embedder is the slice of the embedding client the job needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Store is the slice of the recipe store the job needs.
type Store interface {
	ClearVectors(ctx context.Context) (int64, error)
	FindEligible(ctx context.Context) ([]models.Recipe, error)
	BulkSetVectors(ctx context.Context, updates []models.VectorUpdate) (int64, error)
	CountVectorized(ctx context.Context) (int64, error)
}

// ReportSink persists run reports. May be nil when run history is not kept.
type ReportSink interface {
	SaveRun(ctx context.Context, run models.BackfillRun) error
}

// DefaultBatchSize bounds concurrent outstanding embedding requests.
const DefaultBatchSize = 50

// Job regenerates the vector field for every eligible recipe. Runs are not
// incremental: stale vectors are cleared first so a re-run never leaves old
// and fresh vectors mixed.
type Job struct {
	store     Store
	embedder  Embedder
	runs      ReportSink
	batchSize int
}

func NewJob(store Store, embedder Embedder, runs ReportSink, batchSize int) *Job {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Job{
		store:     store,
		embedder:  embedder,
		runs:      runs,
		batchSize: batchSize,
	}
}

// outcome is the tagged per-document result of one embedding attempt.
type outcome struct {
	update models.VectorUpdate
	err    error
}

// Run executes the full backfill state machine and returns its report.
// Only store failures are fatal; per-document embedding failures are
// counted and never abort sibling documents.
func (j *Job) Run(ctx context.Context) (models.BackfillRun, error) {
	tracer := otel.Tracer("backfill")
	ctx, span := tracer.Start(ctx, "backfill.run")
	defer span.End()

	run := models.BackfillRun{
		RunID:     uuid.New().String(),
		State:     models.RunStateIdle,
		StartedAt: time.Now(),
	}
	span.SetAttributes(attribute.String("backfill.run_id", run.RunID))

	fail := func(err error) (models.BackfillRun, error) {
		run.State = models.RunStateFailed
		run.Error = err.Error()
		j.finish(ctx, &run)
		logger.Error("Backfill run failed", "run_id", run.RunID, "state", run.State, "error", err)
		return run, err
	}

	// Clear existing vectors unconditionally; the job is not incremental.
	run.State = models.RunStateClearingStale
	cleared, err := j.store.ClearVectors(ctx)
	if err != nil {
		return fail(err)
	}
	logger.Info("Cleared stale vectors", "run_id", run.RunID, "cleared", cleared)

	run.State = models.RunStateFetchingEligible
	eligible, err := j.store.FindEligible(ctx)
	if err != nil {
		return fail(err)
	}
	run.TotalEligible = len(eligible)

	if len(eligible) == 0 {
		// Zero-work success
		run.State = models.RunStateDone
		j.finish(ctx, &run)
		logger.Info("Backfill found no eligible recipes", "run_id", run.RunID)
		return run, nil
	}

	run.State = models.RunStateBatching
	updates := make([]models.VectorUpdate, 0, len(eligible))
	for start := 0; start < len(eligible); start += j.batchSize {
		end := start + j.batchSize
		if end > len(eligible) {
			end = len(eligible)
		}
		batch := eligible[start:end]

		run.State = models.RunStateAwaitingEmbeddings
		outcomes := j.embedBatch(ctx, batch)

		for _, o := range outcomes {
			if o.err != nil {
				run.Errored++
				continue
			}
			run.Processed++
			updates = append(updates, o.update)
		}
	}

	run.State = models.RunStatePersisting
	run.AttemptedPersist = len(updates)
	if _, err := j.store.BulkSetVectors(ctx, updates); err != nil {
		return fail(err)
	}

	// Independent verification against the store, not the update's reported
	// count, to surface persistence discrepancies.
	run.State = models.RunStateReporting
	verified, err := j.store.CountVectorized(ctx)
	if err != nil {
		return fail(err)
	}
	run.VerifiedCount = verified

	run.State = models.RunStateDone
	j.finish(ctx, &run)
	span.SetAttributes(
		attribute.Int("backfill.eligible", run.TotalEligible),
		attribute.Int("backfill.processed", run.Processed),
		attribute.Int("backfill.errored", run.Errored),
		attribute.Int64("backfill.verified", run.VerifiedCount),
	)
	logger.Info("Backfill run complete",
		"run_id", run.RunID,
		"eligible", run.TotalEligible,
		"processed", run.Processed,
		"errored", run.Errored,
		"persist_attempted", run.AttemptedPersist,
		"verified", run.VerifiedCount,
	)
	return run, nil
}

// embedBatch fans out one embedding request per document and waits for every
// outcome before returning. The group Wait is the synchronization barrier:
// batch N+1 never starts until all of batch N has resolved.
func (j *Job) embedBatch(ctx context.Context, batch []models.Recipe) []outcome {
	outcomes := make([]outcome, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, recipe := range batch {
		g.Go(func() error {
			vec, err := j.embedder.Embed(gctx, embeddingText(recipe))
			if err != nil {
				outcomes[i] = outcome{err: err}
				logger.Debug("Embedding failed for recipe",
					"recipe_id", recipe.ID.Hex(), "error", err)
				return nil
			}
			if len(vec) != j.embedder.Dimensions() {
				outcomes[i] = outcome{err: apperr.Newf(apperr.MalformedResponse,
					"embedding has %d dimensions, expected %d", len(vec), j.embedder.Dimensions())}
				return nil
			}
			outcomes[i] = outcome{update: models.VectorUpdate{ID: recipe.ID, Vector: vec}}
			return nil
		})
	}
	// Goroutines never return errors; per-document failures live in outcomes.
	_ = g.Wait()
	return outcomes
}

// finish stamps timing fields and persists the run report.
func (j *Job) finish(ctx context.Context, run *models.BackfillRun) {
	run.FinishedAt = time.Now()
	run.DurationMS = run.FinishedAt.Sub(run.StartedAt).Milliseconds()
	if j.runs == nil {
		return
	}
	if err := j.runs.SaveRun(ctx, *run); err != nil {
		logger.Warn("Failed to persist backfill run report", "run_id", run.RunID, "error", err)
	}
}

// embeddingText builds the text embedded for a recipe: its name plus
// ingredients and steps when present.
func embeddingText(r models.Recipe) string {
	parts := []string{r.Name}
	if len(r.Ingredients) > 0 {
		parts = append(parts, strings.Join(r.Ingredients, ", "))
	}
	if len(r.Steps) > 0 {
		parts = append(parts, strings.Join(r.Steps, " "))
	}
	return strings.Join(parts, "\n")
}
