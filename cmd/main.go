package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-search-platform/internal/ai"
	"recipe-search-platform/internal/backfill"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/logger"
	"recipe-search-platform/internal/queue"
	"recipe-search-platform/internal/store"
	"recipe-search-platform/internal/telemetry"
	"recipe-search-platform/middleware"
	"recipe-search-platform/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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

	// Connect to Redis (rate limiting, embedding cache, task queue)
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Telemetry
	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracer("recipe-search-platform", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdownTracer()
		}
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	// Embedding client; the search path goes through the Redis cache,
	// backfill always embeds fresh
	baseEmbedder, err := ai.NewEmbedder(context.Background(), cfg, metrics)
	if err != nil {
		log.Fatal("Failed to init embedder:", err)
	}
	var searchEmbedder ai.Embedder = baseEmbedder
	if cfg.EmbeddingCacheTTL > 0 {
		searchEmbedder = ai.NewCachedEmbedder(baseEmbedder, rdb,
			time.Duration(cfg.EmbeddingCacheTTL)*time.Second)
	}

	chatRelay := ai.NewChatRelay(cfg)

	// Stores and backfill job
	db := mongoClient.Database(cfg.DBName)
	recipeStore := store.NewRecipeStore(db, cfg.RecipesCollection, cfg.VectorField)
	runStore := store.NewRunStore(db, cfg.RunsCollection)
	job := backfill.NewJob(recipeStore, baseEmbedder, runStore, cfg.BackfillBatchSize)

	// Asynq client for enqueueing background backfills
	redisOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Failed to build Redis options:", err)
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	authMiddleware := middleware.NewAdminAuthMiddleware(cfg)
	routes.SetupSearchRoutes(router, cfg, recipeStore, searchEmbedder, metrics)
	routes.SetupChatRoutes(router, chatRelay)
	routes.SetupAdminRoutes(router, cfg, recipeStore, runStore, job, asynqClient, authMiddleware, metrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
