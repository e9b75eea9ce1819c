// Package bootstrap brings up the runtime dependencies shared by the server
// and the command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"unpolished/internal/cache"
	"unpolished/internal/config"
	"unpolished/internal/database"
	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty database with demo users, blogs and threads.
	SeedDemo bool
}

// InitRuntime connects to DB and Redis, applies the schema and optionally
// seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		return nil, nil, fmt.Errorf("schema apply failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// seedIfEmpty runs the default seed only when no user exists yet, so a
// restart never duplicates demo data.
func seedIfEmpty(db *gorm.DB) error {
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("Skipping demo seed, database already has users", slog.Int64("users", users))
		return nil
	}
	_, err := seed.Seed(db, seed.DefaultOptions())
	return err
}
