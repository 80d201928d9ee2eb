package cache

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/database/sqlite"
	"SchemaFlow/backend/go/internal/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

var sample = []models.Relationship{
	{Source: "orders", Target: "users", SourceField: "userId", TargetField: "_id", Confidence: models.ConfidenceHigh},
}

func TestMemoryCacheExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c, err := NewMemory(4, DefaultTTL, clk.Now)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "h1", sample))
	got, ok, err := c.Get(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)

	clk.t = clk.t.Add(DefaultTTL)
	_, ok, err = c.Get(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteCacheRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)

	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c := NewSQLite(db, DefaultTTL, clk.Now)
	defer c.Close()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "old", sample))
	clk.t = clk.t.Add(12 * time.Hour)
	require.NoError(t, c.Put(ctx, "new", nil))

	got, ok, err := c.Get(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)

	clk.t = clk.t.Add(13 * time.Hour)
	_, ok, err = c.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok, "entries older than the TTL are ignored")

	require.NoError(t, c.ClearExpired(ctx))
	n, err := c.count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err = c.Get(ctx, "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLitePutOverwritesExistingHash(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	c := NewSQLite(db, DefaultTTL, nil)
	defer c.Close()

	require.NoError(t, c.Put(ctx, "h", nil))
	require.NoError(t, c.Put(ctx, "h", sample))

	got, ok, err := c.Get(ctx, "h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)

	n, err := c.count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, &config.CacheConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Equal(t, "none", c.Backend())

	c, err = New(ctx, &config.CacheConfig{Backend: "memory", TTL: "1h"})
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Backend())

	c, err = New(ctx, &config.CacheConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{Path: ":memory:"}})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Backend())
	require.NoError(t, c.Close())

	_, err = New(ctx, &config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}
