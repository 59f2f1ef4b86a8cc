package repository

import (
	"context"
	"fmt"

	"gatebot/internal/config"
	"gatebot/internal/repository/postgres"
	"gatebot/internal/repository/redis"

	"go.uber.org/zap"
)

// Store is an opened persistence backend. Repo is nil for the memory backend.
type Store struct {
	Repo  UserRepository
	close func() error
}

// Close releases the backend connection
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenOptions tunes Open
type OpenOptions struct {
	// Migrate runs the schema migrations after connecting to postgres
	Migrate bool
	Connect postgres.ConnectOptions
}

// Open connects to the backend selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config, opts OpenOptions, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("Using in-memory store, starts are lost on restart")
		return &Store{}, nil

	case config.StorePostgres:
		db, err := postgres.Connect(cfg.DSN(), opts.Connect, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection established")

		if opts.Migrate {
			if err := postgres.Migrate(db, postgres.Up, logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Store{Repo: postgres.NewUserRepo(db), close: db.Close}, nil

	case config.StoreRedis:
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Redis connection established")
		return &Store{Repo: redis.NewUserRepo(client), close: client.Close}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
