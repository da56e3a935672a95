package store

import (
	"context"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunStore persists backfill run reports.
type RunStore struct {
	coll *mongo.Collection
}

func NewRunStore(db *mongo.Database, collection string) *RunStore {
	return &RunStore{coll: db.Collection(collection)}
}

// SaveRun records one finished (or failed) backfill run.
func (s *RunStore) SaveRun(ctx context.Context, run models.BackfillRun) error {
	if _, err := s.coll.InsertOne(ctx, run); err != nil {
		return apperr.Wrap(apperr.StoreUnavailable, "failed to save backfill run", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int64) ([]models.BackfillRun, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"started_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to list backfill runs", err)
	}
	defer cursor.Close(ctx)

	runs := make([]models.BackfillRun, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, apperr.Wrap(apperr.StoreUnavailable, "failed to decode backfill runs", err)
	}
	return runs, nil
}
