package assist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	a := sampleRequest()
	b := sampleRequest()
	assert.Equal(t, CacheKey(a), CacheKey(b))
	assert.Len(t, CacheKey(a), 64)

	b.Lines[3].Text = "別の文"
	assert.NotEqual(t, CacheKey(a), CacheKey(b))

	// field boundaries are part of the key
	c := sampleRequest()
	c.A, c.B = c.A+c.B, ""
	assert.NotEqual(t, CacheKey(a), CacheKey(c))
}

func sampleComments() Comments {
	c := EmptyComments()
	c["3"] = []Comment{{Severity: SeverityCrit, Text: "BとCが同じです"}}
	return c
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	cache := NewMemoryCache(time.Minute, 2)
	cache.now = func() time.Time { return now }

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k1", sampleComments()))
	got, ok, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleComments(), got)

	got["3"][0].Text = "mutated"
	again, _, _ := cache.Get(ctx, "k1")
	assert.Equal(t, "BとCが同じです", again["3"][0].Text)

	now = now.Add(2 * time.Minute)
	_, ok, _ = cache.Get(ctx, "k1")
	assert.False(t, ok, "entry should expire")
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	cache := NewMemoryCache(0, 2)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "old", EmptyComments()))
	now = now.Add(time.Second)
	require.NoError(t, cache.Set(ctx, "mid", EmptyComments()))
	now = now.Add(time.Second)
	require.NoError(t, cache.Set(ctx, "new", EmptyComments()))

	assert.Equal(t, 2, cache.Len())
	_, ok, _ := cache.Get(ctx, "old")
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "new")
	assert.True(t, ok)
}

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assist.db")

	cache, err := OpenSQLiteCache(ctx, path, time.Hour)
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "k1", sampleComments()))
	require.NoError(t, cache.Set(ctx, "k1", sampleComments()))
	got, ok, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleComments(), got)
	require.NoError(t, cache.Close())

	// survives reopen
	reopened, err := OpenSQLiteCache(ctx, path, time.Hour)
	require.NoError(t, err)
	defer reopened.Close()
	reopened.now = func() time.Time { return now.Add(30 * time.Minute) }

	_, ok, err = reopened.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	reopened.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, ok, err = reopened.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := reopened.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
