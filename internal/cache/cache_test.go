package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/joblens/internal/model"
)

func sampleResult() model.SearchResult {
	return model.SearchResult{
		Jobs: []model.Job{{
			ID:         "remoteok-1",
			Title:      "Backend Engineer",
			Company:    "Acme",
			Location:   "Remote",
			Source:     "remoteok",
			PostedDate: "2026-03-14",
			Remote:     true,
			Skills:     []string{"Go"},
		}},
		Count:     1,
		Keywords:  "developer",
		Sources:   []string{"remoteok"},
		Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

// fakeClock is a manually advanced clock for MemoryCache.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryCache(ttl time.Duration) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(ttl)
	c.now = clock.Now
	return c, clock
}

func TestKey_Normalized(t *testing.T) {
	assert.Equal(t, "search:go developer:new york", Key("  Go   Developer ", "New\tYork"))
	assert.Equal(t, Key("go developer", "new york"), Key("GO DEVELOPER", " new  york "))
	assert.Equal(t, "search:rust:", Key("rust", ""))
	assert.NotEqual(t, Key("rust", "berlin"), Key("rust", "paris"))
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(time.Minute)
	want := sampleResult()

	require.NoError(t, c.Set(ctx, "k", want, 30*time.Second))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestMemoryCache(time.Minute)
	require.NoError(t, c.Set(ctx, "k", sampleResult(), 30*time.Second))

	clock.Advance(29 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok, "entry should still be fresh")

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestMemoryCache(5 * time.Minute)
	require.NoError(t, c.Set(ctx, "k", sampleResult(), 0))

	clock.Advance(4 * time.Minute)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_Sweep(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestMemoryCache(time.Minute)
	require.NoError(t, c.Set(ctx, "short", sampleResult(), 10*time.Second))
	require.NoError(t, c.Set(ctx, "long", sampleResult(), time.Hour))

	clock.Advance(time.Minute)
	removed, err := c.Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
	_, ok, _ := c.Get(ctx, "long")
	assert.True(t, ok)
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(time.Minute)
	require.NoError(t, c.Set(ctx, "a", sampleResult(), 0))
	require.NoError(t, c.Set(ctx, "b", sampleResult(), 0))

	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("kw", string(rune('a'+i)))
			_ = c.Set(ctx, key, sampleResult(), 0)
			_, _, _ = c.Get(ctx, key)
			_, _ = c.Sweep(ctx)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, c.Len())
}

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCache(rdb, "", time.Minute), mr, rdb
}

func TestRedisCache_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestRedisCache(t)
	want := sampleResult()

	require.NoError(t, c.Set(ctx, Key("developer", ""), want, 30*time.Second))

	got, ok, err := c.Get(ctx, Key("developer", ""))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	mr.FastForward(31 * time.Second)
	_, ok, err = c.Get(ctx, Key("developer", ""))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr, rdb := newTestRedisCache(t)
	require.NoError(t, rdb.Set(ctx, "unrelated", "keep", 0).Err())
	require.NoError(t, c.Set(ctx, "a", sampleResult(), 0))
	require.NoError(t, c.Set(ctx, "b", sampleResult(), 0))

	require.NoError(t, c.Clear(ctx))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestRedisCache(t)
	require.NoError(t, mr.Set(DefaultPrefix+"bad", "{not json"))

	_, _, err := c.Get(ctx, "bad")
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
