package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// CachedStore serves active reads from Redis and falls through to the wrapped
// Store on a miss. Every mutation bumps a version counter that is part of
// each cache key, so stale entries are never read again and simply expire.
// Redis failures degrade to uncached reads.
type CachedStore struct {
	Store
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = redisx.TTLCatalog
	}
	return &CachedStore{Store: inner, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedStore) version(ctx context.Context) (int64, bool) {
	v, err := c.rdb.Get(ctx, redisx.KeyCatalogVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("catalog cache version unavailable")
		return 0, false
	}
	return v, true
}

func (c *CachedStore) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *CachedStore) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

func (c *CachedStore) ListActive(ctx context.Context, f Filter) ([]Product, error) {
	v, ok := c.version(ctx)
	if !ok {
		return c.Store.ListActive(ctx, f)
	}
	key := fmt.Sprintf(redisx.KeyCatalogList, v, f.cacheKey())
	var ps []Product
	if c.load(ctx, key, &ps) {
		return ps, nil
	}
	ps, err := c.Store.ListActive(ctx, f)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, ps)
	return ps, nil
}

func (c *CachedStore) GetActive(ctx context.Context, id string) (Product, error) {
	v, ok := c.version(ctx)
	if !ok {
		return c.Store.GetActive(ctx, id)
	}
	key := fmt.Sprintf(redisx.KeyCatalogItem, v, id)
	var p Product
	if c.load(ctx, key, &p) {
		return p, nil
	}
	p, err := c.Store.GetActive(ctx, id)
	if err != nil {
		return Product{}, err
	}
	c.save(ctx, key, p)
	return p, nil
}

func (c *CachedStore) Insert(ctx context.Context, p Product) error {
	if err := c.Store.Insert(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedStore) Update(ctx context.Context, p Product) error {
	if err := c.Store.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedStore) Deactivate(ctx context.Context, id string, at time.Time) error {
	if err := c.Store.Deactivate(ctx, id, at); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, redisx.KeyCatalogVersion).Err(); err != nil {
		c.log.Error().Err(err).Msg("catalog cache invalidation failed")
	}
}
