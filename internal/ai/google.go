package ai

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/telemetry"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleEmbedder generates embeddings via Google Generative AI.
// Note: text-embedding-004 emits 768-dim vectors; a dimensionality mismatch
// with the configured index surfaces as MalformedResponse per call.
type GoogleEmbedder struct {
	client  *genai.Client
	model   string
	dims    int
	metrics *telemetry.Metrics
}

func NewGoogleEmbedder(ctx context.Context, apiKey, model string, dims int, metrics *telemetry.Metrics) (*GoogleEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleEmbedder{client: client, model: model, dims: dims, metrics: metrics}, nil
}

func (e *GoogleEmbedder) Dimensions() int { return e.dims }

func (e *GoogleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed, err := validateInput(text)
	if err != nil {
		return nil, err
	}

	model := e.client.EmbeddingModel(e.model)
	resp, err := model.EmbedContent(ctx, genai.Text(trimmed))
	if e.metrics != nil {
		e.metrics.RecordEmbeddingCall("google", err == nil)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, "google embeddings call failed", err)
	}
	if resp.Embedding == nil {
		return nil, apperr.New(apperr.MalformedResponse, "no embedding returned")
	}

	vec := resp.Embedding.Values
	if err := validateVector(vec, e.dims); err != nil {
		return nil, err
	}
	return vec, nil
}

// Close releases the underlying API client.
func (e *GoogleEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
