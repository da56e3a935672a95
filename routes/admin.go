package routes

import (
	"context"
	"net/http"
	"strconv"

	"recipe-search-platform/internal/backfill"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/queue"
	"recipe-search-platform/internal/store"
	"recipe-search-platform/internal/telemetry"
	"recipe-search-platform/middleware"
	"recipe-search-platform/models"
	"recipe-search-platform/services"
	"recipe-search-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// AdminStore is the slice of the recipe store the admin surface needs.
type AdminStore interface {
	EnsureVectorIndex(ctx context.Context, name string, dims int, similarity string) (created bool, err error)
	DropVectorIndex(ctx context.Context, name string) error
	ListVectorIndexes(ctx context.Context) ([]models.VectorIndexInfo, error)
	ClearVectors(ctx context.Context) (int64, error)
}

func SetupAdminRoutes(
	router *gin.Engine,
	cfg *config.Config,
	recipes AdminStore,
	runs *store.RunStore,
	job *backfill.Job,
	asynqClient *asynq.Client,
	authMiddleware *middleware.AdminAuthMiddleware,
	metrics *telemetry.Metrics,
) {
	admin := router.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())

	exporter := services.NewExportService(runs)

	// Run a full backfill synchronously and return the report.
	admin.POST("/backfill", func(c *gin.Context) {
		run, err := job.Run(c.Request.Context())
		if metrics != nil {
			metrics.RecordBackfill(run.State, run.Processed, run.Errored,
				float64(run.DurationMS)/1000.0)
		}
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		utils.RespondOK(c, "Backfill completed", run)
	})

	// Enqueue a backfill run for the worker to execute.
	admin.POST("/backfill/enqueue", func(c *gin.Context) {
		requestedBy, _ := c.Get("admin_subject")
		subject, _ := requestedBy.(string)
		if subject == "" {
			subject = "admin"
		}

		task, err := queue.NewBackfillTask(subject)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build backfill task", err.Error())
			return
		}

		info, err := asynqClient.EnqueueContext(c.Request.Context(), task)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to enqueue backfill task", err.Error())
			return
		}

		c.JSON(http.StatusAccepted, utils.SuccessResponse{
			Success: true,
			Message: "Backfill enqueued",
			Payload: gin.H{"task_id": info.ID, "queue": info.Queue},
		})
	})

	admin.GET("/backfill/runs", func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), 50)
		list, err := runs.ListRuns(c.Request.Context(), limit)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		utils.RespondOK(c, "Backfill runs", gin.H{"count": len(list), "runs": list})
	})

	admin.GET("/backfill/runs/export", func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), 50)
		data, count, err := exporter.ExportRunsExcel(c.Request.Context(), limit)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+services.ExportFilename(limit))
		c.Header("X-Record-Count", strconv.Itoa(count))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	})

	// Idempotent vector index creation.
	admin.POST("/index", func(c *gin.Context) {
		created, err := recipes.EnsureVectorIndex(c.Request.Context(),
			cfg.VectorIndexName, cfg.VectorDimensions, cfg.VectorSimilarity)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		message := "Vector index already existed"
		if created {
			message = "Vector index created"
		}
		utils.RespondOK(c, message, gin.H{
			"name":       cfg.VectorIndexName,
			"dimensions": cfg.VectorDimensions,
			"similarity": cfg.VectorSimilarity,
			"created":    created,
		})
	})

	admin.DELETE("/index/:name", func(c *gin.Context) {
		name := c.Param("name")
		if err := recipes.DropVectorIndex(c.Request.Context(), name); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		utils.RespondOK(c, "Vector index dropped", gin.H{"name": name})
	})

	admin.GET("/indexes", func(c *gin.Context) {
		indexes, err := recipes.ListVectorIndexes(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		utils.RespondOK(c, "Vector indexes", gin.H{"count": len(indexes), "indexes": indexes})
	})

	admin.DELETE("/vectors", func(c *gin.Context) {
		cleared, err := recipes.ClearVectors(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		utils.RespondOK(c, "Vectors cleared", gin.H{"cleared": cleared})
	})
}

func parseLimit(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
