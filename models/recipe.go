package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Recipe is a document in the recipes collection. Recipes are created and
// owned externally; this service only adds or strips the vector field.
type Recipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name,omitempty" json:"name"`
	Ingredients []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Steps       []string           `bson:"steps,omitempty" json:"steps,omitempty"`
	Vector      []float32          `bson:"vector,omitempty" json:"-"`
}

// VectorUpdate pairs a recipe id with its freshly generated embedding.
type VectorUpdate struct {
	ID     primitive.ObjectID
	Vector []float32
}

// SearchResult is one ranked match from the vector index, higher score is
// more relevant.
type SearchResult struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Ingredients []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Steps       []string           `bson:"steps,omitempty" json:"steps,omitempty"`
	Score       float64            `bson:"score" json:"score"`
}

// VectorIndexInfo describes a search index on the recipes collection.
type VectorIndexInfo struct {
	Name   string `bson:"name" json:"name"`
	Type   string `bson:"type,omitempty" json:"type,omitempty"`
	Status string `bson:"status,omitempty" json:"status,omitempty"`
}
