package app

import (
	"context"
	"fmt"
	"log/slog"

	"microblogPosts/internal/config"
	"microblogPosts/internal/database"
	"microblogPosts/internal/repository"
	"microblogPosts/internal/service"
)

// Components is everything the binaries need once the store is connected.
type Components struct {
	Repository *repository.Repository
	Services   *service.Service
	Health     func(ctx context.Context) error
	Close      func(ctx context.Context) error
}

// App connects the configured store and assembles repositories and services on top of it.
func App(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	var (
		repo   *repository.Repository
		health func(ctx context.Context) error
		closer func(ctx context.Context) error
	)

	switch cfg.StorageDriver {
	case config.DriverMongo:
		store, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		repo = repository.NewMongoRepository(store.DB)
		health = store.HealthCheck
		closer = store.Close

	case config.DriverPostgres:
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		repo = repository.NewPostgresRepository(db.DB)
		health = func(ctx context.Context) error { return db.PingContext(ctx) }
		closer = func(context.Context) error { return db.CloseDB() }

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	logger.Info("store connected", "driver", cfg.StorageDriver)

	return &Components{
		Repository: repo,
		Services:   service.NewService(repo, cfg, logger),
		Health:     health,
		Close:      closer,
	}, nil
}
