package main

import (
	"context"
	"log"
	"time"

	"recipe-search-platform/internal/ai"
	"recipe-search-platform/internal/backfill"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/logger"
	"recipe-search-platform/internal/queue"
	"recipe-search-platform/internal/store"
	"recipe-search-platform/internal/telemetry"

	"github.com/go-co-op/gocron"
	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	// Embedding client; backfill always embeds fresh, no cache layer here
	embedder, err := ai.NewEmbedder(context.Background(), cfg, metrics)
	if err != nil {
		log.Fatal("Failed to init embedder:", err)
	}

	db := mongoClient.Database(cfg.DBName)
	recipeStore := store.NewRecipeStore(db, cfg.RecipesCollection, cfg.VectorField)
	runStore := store.NewRunStore(db, cfg.RunsCollection)
	job := backfill.NewJob(recipeStore, embedder, runStore, cfg.BackfillBatchSize)

	redisOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Failed to build Redis options:", err)
	}

	// Nightly scheduled backfill keeps the index fresh without operator action
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(1).Day().At("03:00").Do(func() {
		task, err := queue.NewBackfillTask("scheduler")
		if err != nil {
			logger.Error("Failed to build scheduled backfill task", "error", err)
			return
		}
		if _, err := asynqClient.Enqueue(task); err != nil {
			logger.Error("Failed to enqueue scheduled backfill", "error", err)
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule nightly backfill:", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// Backfill runs are heavyweight; one at a time is plenty
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(job)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskBackfillRun, processor.HandleBackfill)

	logger.Info("Starting worker", "redis", cfg.RedisURL)

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
