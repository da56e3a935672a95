package routes

import (
	"context"
	"strings"

	"recipe-search-platform/internal/ai"
	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/telemetry"
	"recipe-search-platform/models"
	"recipe-search-platform/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SearchStore is the slice of the recipe store the search endpoint needs.
type SearchStore interface {
	VectorIndexExists(ctx context.Context, name string) (bool, error)
	VectorSearch(ctx context.Context, queryVector []float32, indexName string, limit int) ([]models.SearchResult, error)
}

func SetupSearchRoutes(router *gin.Engine, cfg *config.Config, recipes SearchStore, embedder ai.Embedder, metrics *telemetry.Metrics) {
	router.POST("/search", func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", gin.H{"error": err.Error()})
			return
		}

		// Validate before making any upstream call
		query := strings.TrimSpace(req.Query)
		if query == "" {
			utils.RespondWithBadRequest(c, "Query must be a non-empty string", nil)
			return
		}

		limit := defaultSearchLimit
		if req.Limit != nil {
			limit = *req.Limit
		}
		if limit < 1 || limit > maxSearchLimit {
			utils.RespondWithBadRequest(c,
				"Limit must be between 1 and 50", gin.H{"limit": limit})
			return
		}

		ctx := c.Request.Context()

		// The index must exist before we spend an embedding call
		exists, err := recipes.VectorIndexExists(ctx, cfg.VectorIndexName)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		if !exists {
			utils.RespondWithAppError(c, apperr.Newf(apperr.IndexNotFound,
				"vector index %q does not exist - create it via POST /admin/index first",
				cfg.VectorIndexName))
			return
		}

		queryVector, err := embedder.Embed(ctx, query)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		results, err := recipes.VectorSearch(ctx, queryVector, cfg.VectorIndexName, limit)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		if metrics != nil {
			metrics.RecordSearch(cfg.VectorIndexName, len(results))
		}

		message := "Search completed"
		if len(results) == 0 {
			message = "Search completed with no matches"
		}
		utils.RespondOK(c, message, gin.H{
			"query":   query,
			"limit":   limit,
			"count":   len(results),
			"results": results,
		})
	})
}
