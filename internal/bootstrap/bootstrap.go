// Package bootstrap opens the store and cache a binary needs from Config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MagnunAVF/clicklink/internal/cache"
	"github.com/MagnunAVF/clicklink/internal/config"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/store"
)

// OpenStore connects to DB_URL and migrates the schema.
func OpenStore(cfg *config.Config) (*store.Gorm, error) {
	s, err := store.Open(cfg.DBURL, logger.NewGormLogger(cfg.GormLogLevel))
	if err != nil {
		return nil, err
	}
	slog.Info("Running GORM Auto-Migration...")
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Info("Migration complete.")
	return s, nil
}

// OpenCache returns the backend named by CACHE_BACKEND.
func OpenCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		slog.Warn("Using in-process cache; counters are lost on restart and invisible to other processes")
		return cache.NewMemory(), nil
	default:
		return cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
}
