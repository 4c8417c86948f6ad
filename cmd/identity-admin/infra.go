package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/identity-api/config"
	"github.com/campuskit/identity-api/internal/bootstrap"
)

// connectDB opens the Postgres connection for commands that only need the
// database.
func connectDB(logger *slog.Logger, cfg *config.AppConfig) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

// connectRedis opens the Redis connection for session commands.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func connectRedis(logger *slog.Logger, cfg *config.AppConfig) (redis.UniversalClient, error) {
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("db close failed", "error", err)
	}
}

func closeRedis(logger *slog.Logger, client redis.UniversalClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}
}

var errMissingFlag = errors.New("missing required flag")

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s", errMissingFlag, name)
	}
	return nil
}
