package promo_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/promo-api/internal/promo"
)

type countingStore struct {
	promos []promo.Promotion
	calls  int
}

func (s *countingStore) ListActive(context.Context, time.Time) ([]promo.Promotion, error) {
	s.calls++
	return s.promos, nil
}

func TestCachedStoreServesFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	inner := &countingStore{promos: []promo.Promotion{
		{ID: 1, Name: "Ten Off", Enabled: true, Value: 10, Priority: 100},
	}}
	store := promo.CachedStore{Inner: inner, Redis: client, TTL: time.Minute}

	ctx := context.Background()
	first, err := store.ListActive(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, inner.calls)

	second, err := store.ListActive(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	mr.FastForward(2 * time.Minute)
	_, err = store.ListActive(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}
