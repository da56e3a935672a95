package store

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeStore wraps the recipes collection. The handle is constructed at
// startup and injected into every component; there is no lazily-initialized
// module-level connection.
type RecipeStore struct {
	coll        *mongo.Collection
	vectorField string
}

func NewRecipeStore(db *mongo.Database, collection, vectorField string) *RecipeStore {
	return &RecipeStore{
		coll:        db.Collection(collection),
		vectorField: vectorField,
	}
}

// VectorField returns the document field holding embeddings.
func (s *RecipeStore) VectorField() string { return s.vectorField }

// ClearVectors unsets the vector field on every document that has one and
// returns how many documents were modified.
func (s *RecipeStore) ClearVectors(ctx context.Context) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{s.vectorField: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{s.vectorField: ""}},
	)
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreUnavailable, "failed to clear vectors", err)
	}
	return res.ModifiedCount, nil
}

// FindEligible returns documents whose name field exists and is non-empty.
func (s *RecipeStore) FindEligible(ctx context.Context) ([]models.Recipe, error) {
	filter := bson.M{"name": bson.M{"$exists": true, "$type": "string", "$ne": ""}}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to fetch eligible recipes", err)
	}
	defer cursor.Close(ctx)

	recipes := make([]models.Recipe, 0)
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to decode recipes", err)
	}
	return recipes, nil
}

// BulkSetVectors applies all updates in one unordered bulk write so that one
// update's failure does not block the others. Returns the modified count.
func (s *RecipeStore) BulkSetVectors(ctx context.Context, updates []models.VectorUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": u.ID}).
			SetUpdate(bson.M{"$set": bson.M{s.vectorField: u.Vector}}))
	}

	res, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		if res != nil {
			// Partial application is allowed; report what landed
			return res.ModifiedCount, apperr.Wrap(apperr.StoreUnavailable, "bulk vector update failed", err)
		}
		return 0, apperr.Wrap(apperr.StoreUnavailable, "bulk vector update failed", err)
	}
	return res.ModifiedCount, nil
}

// CountVectorized counts documents currently bearing a vector field. Used as
// an independent check against the bulk update's reported count.
func (s *RecipeStore) CountVectorized(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{s.vectorField: bson.M{"$exists": true}})
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreUnavailable, "failed to count vectorized recipes", err)
	}
	return count, nil
}
