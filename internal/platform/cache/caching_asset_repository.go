// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/usecase"
	"portfolio_backend/internal/platform/logger"
)

// DefaultTTL is used when the caller passes a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// CachingAssetRepository decorates an AssetRepository with Redis caching.
// Reads of the full portfolio, of one class and of a single id are cached.
// Entries live under a generation number (<namespace>:gen). Every write bumps it,
// so an entry filled by a read that raced the write lands under a retired generation
// and is never served.
type CachingAssetRepository struct {
	inner     usecase.AssetRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.AssetRepository = (*CachingAssetRepository)(nil)

// NewCachingAssetRepository decorates an AssetRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "assets".
// A nil rdb disables caching.
func NewCachingAssetRepository(rdb *redis.Client, ttl time.Duration, inner usecase.AssetRepository, namespace string) *CachingAssetRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "assets"
	}
	return &CachingAssetRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingAssetRepository) FindAll(ctx context.Context) ([]entity.Asset, error) {
	return cached(ctx, c, []string{"all"}, func() ([]entity.Asset, error) {
		return c.inner.FindAll(ctx)
	})
}

func (c *CachingAssetRepository) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	return cached(ctx, c, []string{"id", id}, func() (*entity.Asset, error) {
		return c.inner.FindByID(ctx, id)
	})
}

func (c *CachingAssetRepository) FindByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
	return cached(ctx, c, []string{"class", string(class)}, func() ([]entity.Asset, error) {
		return c.inner.FindByClass(ctx, class)
	})
}

// Searches are free-form and go straight to the store.
func (c *CachingAssetRepository) SearchBySymbol(ctx context.Context, fragment string) ([]entity.Asset, error) {
	return c.inner.SearchBySymbol(ctx, fragment)
}

func (c *CachingAssetRepository) SearchByName(ctx context.Context, fragment string) ([]entity.Asset, error) {
	return c.inner.SearchByName(ctx, fragment)
}

func (c *CachingAssetRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return c.inner.ExistsByID(ctx, id)
}

func (c *CachingAssetRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}

func (c *CachingAssetRepository) Save(ctx context.Context, a *entity.Asset) (*entity.Asset, error) {
	out, err := c.inner.Save(ctx, a)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return out, nil
}

func (c *CachingAssetRepository) SaveAll(ctx context.Context, assets []entity.Asset) error {
	if err := c.inner.SaveAll(ctx, assets); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingAssetRepository) Update(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error) {
	out, err := c.inner.Update(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return out, nil
}

func (c *CachingAssetRepository) UpdateCurrentPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	if err := c.inner.UpdateCurrentPrices(ctx, prices); err != nil {
		return err
	}
	if len(prices) > 0 {
		c.invalidate(ctx)
	}
	return nil
}

func (c *CachingAssetRepository) DeleteByID(ctx context.Context, id string) error {
	if err := c.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// cached returns the value stored under parts in the current generation,
// or loads it and stores it (best effort).
func cached[T any](ctx context.Context, c *CachingAssetRepository, parts []string, load func() (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 世代が読めない場合はキャッシュを使わない
	gen, err := c.generation(ctx)
	if err != nil {
		return load()
	}
	key := c.key(gen, parts...)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// invalidate drops every cached entry of the namespace. Failures are logged, not returned.
func (c *CachingAssetRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	// 先に世代を進めてから古いエントリを掃除する
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		logger.Get().Warnw("failed to bump asset cache generation", "namespace", c.namespace, "error", err)
	}
	if err := c.deleteByPattern(ctx, c.namespace+":v*"); err != nil {
		logger.Get().Warnw("failed to invalidate asset cache", "namespace", c.namespace, "error", err)
	}
}

func (c *CachingAssetRepository) genKey() string {
	return c.namespace + ":gen"
}

// generation returns the current generation. A missing counter is generation 0.
func (c *CachingAssetRepository) generation(ctx context.Context) (string, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// key joins the namespace, generation and parts into a cache key: <namespace>:v<gen>:<parts...>.
func (c *CachingAssetRepository) key(gen string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(c.namespace)
	b.WriteString(":v")
	b.WriteString(gen)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingAssetRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
