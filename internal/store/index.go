package store

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VectorIndexExists reports whether a search index with the given name is
// defined on the recipes collection.
func (s *RecipeStore) VectorIndexExists(ctx context.Context, name string) (bool, error) {
	cursor, err := s.coll.SearchIndexes().List(ctx, options.SearchIndexes().SetName(name))
	if err != nil {
		return false, apperr.Wrap(apperr.StoreUnavailable, "failed to list search indexes", err)
	}
	defer cursor.Close(ctx)

	var found []bson.M
	if err := cursor.All(ctx, &found); err != nil {
		return false, apperr.Wrap(apperr.StoreUnavailable, "failed to decode search indexes", err)
	}
	return len(found) > 0, nil
}

// EnsureVectorIndex creates the named vector index if it does not exist.
// Idempotent: created=false means the index already existed.
func (s *RecipeStore) EnsureVectorIndex(ctx context.Context, name string, dims int, similarity string) (bool, error) {
	exists, err := s.VectorIndexExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	definition := bson.D{
		{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: s.vectorField},
				{Key: "numDimensions", Value: dims},
				{Key: "similarity", Value: similarity},
			},
		}},
	}

	_, err = s.coll.SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(name).SetType("vectorSearch"),
	})
	if err != nil {
		return false, apperr.Wrap(apperr.IndexCreationError, "failed to create vector index "+name, err)
	}
	return true, nil
}

// DropVectorIndex removes a search index by name.
func (s *RecipeStore) DropVectorIndex(ctx context.Context, name string) error {
	if err := s.coll.SearchIndexes().DropOne(ctx, name); err != nil {
		return apperr.Wrap(apperr.StoreUnavailable, "failed to drop vector index "+name, err)
	}
	return nil
}

// ListVectorIndexes returns all search indexes defined on the collection.
func (s *RecipeStore) ListVectorIndexes(ctx context.Context) ([]models.VectorIndexInfo, error) {
	cursor, err := s.coll.SearchIndexes().List(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to list search indexes", err)
	}
	defer cursor.Close(ctx)

	indexes := make([]models.VectorIndexInfo, 0)
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to decode search indexes", err)
	}
	return indexes, nil
}
