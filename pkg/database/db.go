// Package database manages the process-wide MongoDB connection.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/themelissanyc/melissa/config"
)

var client *mongo.Client

// Connect opens the MongoDB client and verifies the connection with a ping.
// Returns the database handle so callers can inject it into repositories;
// no other package should reach for a global.
func Connect(ctx context.Context) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	client = c
	return c.Database(config.MongoDatabase()), nil
}

// Disconnect closes the client opened by Connect. Safe to call when Connect
// never succeeded.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	err := client.Disconnect(ctx)
	client = nil
	return err
}
