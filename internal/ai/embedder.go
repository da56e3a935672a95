package ai

import (
	"context"
	"fmt"
	"strings"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/telemetry"
)

// Embedder turns text into a fixed-length embedding vector.
// Implementations do not retry; callers decide retry policy.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// NewEmbedder builds the provider selected by configuration.
func NewEmbedder(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (Embedder, error) {
	switch cfg.EmbeddingsProvider {
	case "openai", "":
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIEmbeddingsModel, cfg.VectorDimensions, metrics), nil
	case "google":
		return NewGoogleEmbedder(ctx, cfg.GeminiAPIKey, cfg.GoogleEmbeddingsModel, cfg.VectorDimensions, metrics)
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.EmbeddingsProvider)
	}
}

// validateInput rejects empty-after-trim text before any upstream call.
func validateInput(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperr.New(apperr.InvalidInput, "embedding input must be non-empty")
	}
	return trimmed, nil
}

// validateVector enforces the expected dimensionality on upstream responses.
func validateVector(vec []float32, want int) error {
	if len(vec) != want {
		return apperr.Newf(apperr.MalformedResponse,
			"embedding has %d dimensions, expected %d", len(vec), want)
	}
	return nil
}
