package alternatives

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func TestMemoryCache_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)}
	cache := NewMemoryCacheWithClock(time.Minute, 10, clk.Now)

	dates := []domain.AlternativeDate{
		{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Status: domain.AvailabilityAvailable},
	}
	cache.Set(ctx, "k", dates)

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, dates, got)

	// Изменение возвращенной копии не затрагивает кэш
	got[0].Status = domain.AvailabilityFull
	again, _ := cache.Get(ctx, "k")
	assert.Equal(t, domain.AvailabilityAvailable, again[0].Status)

	clk.now = clk.now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(time.Minute, 2)

	cache.Set(ctx, "a", nil)
	cache.Set(ctx, "b", nil)
	cache.Set(ctx, "c", nil)

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_PurgeAndInvalidate(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)}
	cache := NewMemoryCacheWithClock(time.Minute, 10, clk.Now)

	cache.Set(ctx, "old", nil)
	clk.now = clk.now.Add(90 * time.Second)
	cache.Set(ctx, "fresh", nil)

	assert.Equal(t, 1, cache.Purge(ctx))
	assert.Equal(t, 1, cache.Len())

	cache.Invalidate(ctx)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_NilIsMiss(t *testing.T) {
	var cache *MemoryCache
	_, ok := cache.Get(context.Background(), "k")
	assert.False(t, ok)
	cache.Set(context.Background(), "k", nil)
}

func TestRedisCache_EncodeDecode(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	cache := NewRedisCache(nil, time.Minute, "", loc, nil)

	dates := []domain.AlternativeDate{
		{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, loc), Status: domain.AvailabilityLimited},
	}
	raw, err := encode(dates)
	require.NoError(t, err)

	got, err := cache.decode(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, dates[0].Date.Equal(got[0].Date))
	assert.Equal(t, domain.AvailabilityLimited, got[0].Status)
	assert.Equal(t, "alternatives:x", cache.key("x"))

	_, err = cache.decode([]byte("not json"))
	assert.ErrorIs(t, err, ErrDecodeEntry)
}
