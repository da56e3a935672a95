package store

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// liveTestCollection connects to the instance named by MONGO_TEST_URI and
// hands back a scratch collection that is dropped on cleanup.
func liveTestCollection(t *testing.T, name string) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}

	db := client.Database("recipe_search_test")
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		db.Collection(name).Drop(cleanupCtx)
		client.Disconnect(cleanupCtx)
	})
	return db
}

func TestFindEligibleExcludesUnnamedDocumentsLive(t *testing.T) {
	const collection = "recipes_eligibility"
	db := liveTestCollection(t, collection)

	ctx := context.Background()
	docs := []interface{}{
		bson.M{"name": "Tomato Soup", "ingredients": []string{"tomato", "basil"}},
		bson.M{"name": ""},
		bson.M{"ingredients": []string{"orphaned"}},
		bson.M{"name": 42},
	}
	if _, err := db.Collection(collection).InsertMany(ctx, docs); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	s := NewRecipeStore(db, collection, "vector")
	eligible, err := s.FindEligible(ctx)
	if err != nil {
		t.Fatalf("find eligible failed: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible recipe, got %d", len(eligible))
	}
	if eligible[0].Name != "Tomato Soup" {
		t.Fatalf("unexpected eligible recipe: %q", eligible[0].Name)
	}
}

func TestEnsureVectorIndexReportsExistingLive(t *testing.T) {
	const collection = "recipes_index_idempotence"
	db := liveTestCollection(t, collection)

	ctx := context.Background()
	// Atlas requires the collection to exist before defining a search index
	if _, err := db.Collection(collection).InsertOne(ctx, bson.M{"name": "seed"}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	s := NewRecipeStore(db, collection, "vector")
	const indexName = "eligibility_test_index"
	defer s.DropVectorIndex(ctx, indexName)

	created, err := s.EnsureVectorIndex(ctx, indexName, 1536, "cosine")
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	if !created {
		t.Fatal("expected first ensure to create the index")
	}

	created, err = s.EnsureVectorIndex(ctx, indexName, 1536, "cosine")
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if created {
		t.Fatal("expected second ensure to report the index as existing")
	}
}
