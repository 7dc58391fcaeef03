package di

import (
	"context"
	"time"

	assetadapters "portfolio_backend/internal/feature/assets/adapters"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/cache"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewAssetRepository creates the AssetRepository implementation.
// If Redis is available, the gorm store is wrapped with the Redis cache.
// Otherwise, the gorm store is used directly.
func NewAssetRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.AssetRepository {
	store := assetadapters.NewAssetRepository(db)
	if rdb != nil {
		return cache.NewCachingAssetRepository(rdb, ttl, store, "assets")
	}
	return store
}

// RedisPinger adapts a Redis client to the readiness probe.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
