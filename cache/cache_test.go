package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/fixhub/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	c := cache.New[string]()

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	// Consecutive reads of an unexpired key return the same payload.
	again, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, got, again)
}

func TestCache_ExpiryIsAMiss(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	c := cache.New(cache.WithTTL[int](time.Minute), cache.WithClock[int](clock))
	c.Put("k", 42)

	_, ok := c.Get("k")
	require.True(t, ok)

	mu.Lock()
	now = now.Add(time.Minute + time.Second)
	mu.Unlock()

	_, ok = c.Get("k")
	assert.False(t, ok)

	// Lazy eviction removed the expired entry on read.
	assert.Zero(t, c.Len())
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	t.Parallel()

	c := cache.New[[]string]()
	c.Put("k", []string{"a", "b"})
	c.Put("k", []string{"c"})

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_GetOrFetch_CachesResult(t *testing.T) {
	t.Parallel()

	c := cache.New[string]()
	var calls atomic.Int64

	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return "fetched", nil
	}

	v, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched", v)

	v, err = c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched", v)

	assert.Equal(t, int64(1), calls.Load())
}

func TestCache_GetOrFetch_ErrorNotCached(t *testing.T) {
	t.Parallel()

	c := cache.New[string]()
	var calls atomic.Int64

	_, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (string, error) {
		calls.Add(1)
		return "", errors.New("upstream down")
	})
	require.Error(t, err)

	v, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_GetOrFetch_SingleFlight(t *testing.T) {
	t.Parallel()

	c := cache.New[string]()
	var calls atomic.Int64
	release := make(chan struct{})

	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const racers = 8
	var wg sync.WaitGroup
	results := make([]string, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrFetch(context.Background(), "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Give the racers time to pile onto the same key before releasing
	// the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestCache_GetOrFetch_IndependentKeys(t *testing.T) {
	t.Parallel()

	c := cache.New[string]()
	var calls atomic.Int64

	for _, key := range []string{"a", "b", "c"} {
		v, err := c.GetOrFetch(context.Background(), key, func(context.Context) (string, error) {
			calls.Add(1)
			return "v:" + key, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "v:"+key, v)
	}
	assert.Equal(t, int64(3), calls.Load())
}
