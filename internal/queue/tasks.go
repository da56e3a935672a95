package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recipe-search-platform/internal/backfill"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	TaskBackfillRun = "backfill:run"
)

// RedisConnOpt builds the asynq connection options from config, accepting
// either a full redis:// URL or host:port.
func RedisConnOpt(cfg *config.Config) (asynq.RedisConnOpt, error) {
	if strings.HasPrefix(cfg.RedisURL, "redis://") || strings.HasPrefix(cfg.RedisURL, "rediss://") {
		return asynq.ParseRedisURI(cfg.RedisURL)
	}
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

type BackfillPayload struct {
	RequestedBy string `json:"requested_by"`
}

// NewBackfillTask creates an asynq task that triggers a full backfill run.
func NewBackfillTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(BackfillPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBackfillRun,
		payload,
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor executes queued jobs on the worker.
type TaskProcessor struct {
	job *backfill.Job
}

func NewTaskProcessor(job *backfill.Job) *TaskProcessor {
	return &TaskProcessor{job: job}
}

func (p *TaskProcessor) HandleBackfill(ctx context.Context, t *asynq.Task) error {
	var payload BackfillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("Starting queued backfill run", "requested_by", payload.RequestedBy)

	run, err := p.job.Run(ctx)
	if err != nil {
		// The job already recorded the failed run; asynq retries per task policy
		return err
	}

	logger.Info("Queued backfill run finished",
		"run_id", run.RunID,
		"processed", run.Processed,
		"errored", run.Errored,
	)
	return nil
}
