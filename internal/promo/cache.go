package promo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeCacheKey = "promo:active"

// CachedStore caches the active promotion set in Redis for a short TTL so
// quote bursts do not hammer Postgres. The engine re-checks validity windows
// on every quote, so a slightly stale set only delays newly activated rules
// by at most the TTL.
type CachedStore struct {
	Inner Store
	Redis *redis.Client
	TTL   time.Duration
}

// ListActive serves the promotion set from Redis when present, falling back
// to the inner store and backfilling on a miss. Cache errors degrade to
// direct reads.
func (s CachedStore) ListActive(ctx context.Context, now time.Time) ([]Promotion, error) {
	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, activeCacheKey).Bytes(); err == nil {
			var promos []Promotion
			if json.Unmarshal(data, &promos) == nil {
				return promos, nil
			}
		}
	}

	promos, err := s.Inner.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if data, err := json.Marshal(promos); err == nil {
			_ = s.Redis.Set(ctx, activeCacheKey, data, s.TTL).Err()
		}
	}
	return promos, nil
}
