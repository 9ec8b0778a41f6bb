// Package migrations keeps the MongoDB collections in shape: indexes the
// queries rely on, created idempotently at deploy time via the CLI.
package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run ensures every index the repositories query against. Safe to run
// repeatedly; Mongo treats an existing identical index as a no-op.
func Run(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"units": {
			{Keys: bson.D{{Key: "available", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"contacts": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		"gallery": {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("migrations: %s indexes: %w", col, err)
		}
	}
	return nil
}
