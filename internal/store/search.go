package store

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// minCandidatePool is the floor for the ANN candidate pool.
	minCandidatePool = 100
	// candidateMultiplier scales the pool with the requested limit so the
	// external index has recall headroom.
	candidateMultiplier = 10
)

// CandidatePoolSize returns the numCandidates to request for a given result
// limit: at least 10x the limit, never below 100.
func CandidatePoolSize(limit int) int {
	pool := limit * candidateMultiplier
	if pool < minCandidatePool {
		pool = minCandidatePool
	}
	return pool
}

// VectorSearch runs a $vectorSearch aggregation against the named index.
// Ranking is delegated entirely to the external index; no similarity is
// recomputed locally. Results arrive ordered by descending score.
func (s *RecipeStore) VectorSearch(ctx context.Context, queryVector []float32, indexName string, limit int) ([]models.SearchResult, error) {
	tracer := otel.Tracer("recipe-store")
	ctx, span := tracer.Start(ctx, "store.vector_search")
	defer span.End()

	numCandidates := CandidatePoolSize(limit)
	span.SetAttributes(
		attribute.String("search.index", indexName),
		attribute.Int("search.limit", limit),
		attribute.Int("search.num_candidates", numCandidates),
	)

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: indexName},
			{Key: "path", Value: s.vectorField},
			{Key: "queryVector", Value: queryVector},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "ingredients", Value: 1},
			{Key: "steps", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "vector search failed", err)
	}
	defer cursor.Close(ctx)

	results := make([]models.SearchResult, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to decode search results", err)
	}
	return results, nil
}
