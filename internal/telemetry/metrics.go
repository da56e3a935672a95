package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter    metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	EmbeddingCalls    metric.Int64Counter
	SearchQueries     metric.Int64Counter
	BackfillDuration  metric.Float64Histogram
	BackfillDocuments metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("recipe-search-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	embeddingCalls, err := meter.Int64Counter(
		"embeddings.calls.total",
		metric.WithDescription("Total embedding API calls"),
	)
	if err != nil {
		return nil, err
	}

	searchQueries, err := meter.Int64Counter(
		"search.queries.total",
		metric.WithDescription("Total vector search queries"),
	)
	if err != nil {
		return nil, err
	}

	backfillDuration, err := meter.Float64Histogram(
		"backfill.run.duration",
		metric.WithDescription("Backfill run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	backfillDocuments, err := meter.Int64Counter(
		"backfill.documents.total",
		metric.WithDescription("Backfill document outcomes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:    requestCounter,
		RequestDuration:   requestDuration,
		EmbeddingCalls:    embeddingCalls,
		SearchQueries:     searchQueries,
		BackfillDuration:  backfillDuration,
		BackfillDocuments: backfillDocuments,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordEmbeddingCall records one embedding API call outcome
func (m *Metrics) RecordEmbeddingCall(provider string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("embeddings.provider", provider),
		attribute.Bool("embeddings.success", success),
	}

	m.EmbeddingCalls.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordSearch records one vector search query
func (m *Metrics) RecordSearch(index string, results int) {
	attrs := []attribute.KeyValue{
		attribute.String("search.index", index),
		attribute.Int("search.results", results),
	}

	m.SearchQueries.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordBackfill records the outcome of a backfill run
func (m *Metrics) RecordBackfill(state string, processed, errored int, duration float64) {
	runAttrs := []attribute.KeyValue{
		attribute.String("backfill.state", state),
	}
	m.BackfillDuration.Record(context.Background(), duration, metric.WithAttributes(runAttrs...))

	m.BackfillDocuments.Add(context.Background(), int64(processed),
		metric.WithAttributes(attribute.String("backfill.outcome", "processed")))
	m.BackfillDocuments.Add(context.Background(), int64(errored),
		metric.WithAttributes(attribute.String("backfill.outcome", "errored")))
}
