package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create regular (non-vector) indexes
	err = createIndexes(client, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, cfg *Config) error {
	db := client.Database(cfg.DBName)

	// Recipes: name lookups drive backfill eligibility scans
	recipesCollection := db.Collection(cfg.RecipesCollection)
	recipeIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}
	_, err := recipesCollection.Indexes().CreateMany(context.Background(), recipeIndexes)
	if err != nil {
		return err
	}

	// Backfill runs: listed newest-first
	runsCollection := db.Collection(cfg.RunsCollection)
	runIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = runsCollection.Indexes().CreateMany(context.Background(), runIndexes)
	if err != nil {
		return err
	}

	return nil
}
