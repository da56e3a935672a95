package ai

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/telemetry"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIEmbedder generates embeddings via the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   string
	dims    int
	metrics *telemetry.Metrics
}

func NewOpenAIEmbedder(apiKey, model string, dims int, metrics *telemetry.Metrics) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:  openai.NewClient(apiKey),
		model:   model,
		dims:    dims,
		metrics: metrics,
	}
}

func (e *OpenAIEmbedder) Dimensions() int { return e.dims }

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed, err := validateInput(text)
	if err != nil {
		return nil, err
	}

	tracer := otel.Tracer("embeddings")
	ctx, span := tracer.Start(ctx, "embeddings.embed")
	defer span.End()
	span.SetAttributes(
		attribute.String("embeddings.provider", "openai"),
		attribute.String("embeddings.model", e.model),
	)

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{trimmed},
		Model: openai.EmbeddingModel(e.model),
	})
	if e.metrics != nil {
		e.metrics.RecordEmbeddingCall("openai", err == nil)
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("embeddings.error", true))
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, "openai embeddings call failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, apperr.New(apperr.MalformedResponse, "openai returned no embedding data")
	}

	vec := resp.Data[0].Embedding
	if err := validateVector(vec, e.dims); err != nil {
		return nil, err
	}
	return vec, nil
}
