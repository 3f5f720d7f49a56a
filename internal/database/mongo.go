package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"microblogPosts/internal/config"
)

const (
	PostsCollection = "posts"
	UsersCollection = "users"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo connects to the document store, pings it and ensures the post indexes.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	slog.Info("connecting to mongo", "database", cfg.Mongo.Database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	m := &Mongo{Client: client, DB: client.Database(cfg.Mongo.Database)}

	if err := m.HealthCheck(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo health check failed: %w", err)
	}

	if err := m.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to create mongo indexes", "error", err)
	}

	slog.Info("connected to mongo")
	return m, nil
}

func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.DB.Collection(PostsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts.userId index: %w", err)
	}
	return nil
}

func (m *Mongo) HealthCheck(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("mongo connection is not initialized")
	}
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
