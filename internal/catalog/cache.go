package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis helpers for JSON payloads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client yields a no-op cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// CachedReader serves products from Redis and falls back to the inner reader
// for misses. Cache errors degrade to direct reads.
type CachedReader struct {
	Inner Reader
	Cache *Cache
}

// GetByKeys resolves each key against the cache first, then batch-fetches the
// misses through the inner reader and backfills the cache.
func (r CachedReader) GetByKeys(ctx context.Context, keys []Key) ([]Product, error) {
	if r.Cache == nil {
		return r.Inner.GetByKeys(ctx, keys)
	}

	var (
		hits   []Product
		misses []Key
	)
	seen := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		if k.Zero() {
			continue
		}
		var p Product
		ok, err := r.Cache.GetJSON(ctx, productCacheKey(k), &p)
		if err != nil || !ok {
			misses = append(misses, k)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		hits = append(hits, p)
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fetched, err := r.Inner.GetByKeys(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, p := range fetched {
		if p.ID != 0 {
			_ = r.Cache.SetJSON(ctx, productCacheKey(Key{ID: p.ID}), p)
		}
		if p.DocumentID != "" {
			_ = r.Cache.SetJSON(ctx, productCacheKey(Key{DocID: p.DocumentID}), p)
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		hits = append(hits, p)
	}
	return hits, nil
}

func productCacheKey(k Key) string {
	if k.ID != 0 {
		return fmt.Sprintf("catalog:product:id:%d", k.ID)
	}
	return "catalog:product:doc:" + k.DocID
}
