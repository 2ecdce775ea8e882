package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the cache schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE catalog_cache (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)
	`)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCache_GetSet_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)
	ctx := context.Background()

	key := "bgm:subject:2453"
	value := []byte(`{"id": 2453, "name": "Ouran"}`)

	err := cache.Set(ctx, key, value, time.Hour)
	require.NoError(t, err)

	got, ok := cache.Get(ctx, key)
	assert.True(t, ok, "expected to find cached value")
	assert.Equal(t, value, got)
}

func TestCache_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)
	ctx := context.Background()

	got, ok := cache.Get(ctx, "nonexistent-key")
	assert.False(t, ok, "expected not to find cached value")
	assert.Nil(t, got)
}

func TestCache_Get_Expired(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)
	ctx := context.Background()

	key := "expiring-key"
	err := cache.Set(ctx, key, []byte("v"), -time.Second)
	require.NoError(t, err)

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok, "expected expired value to be a miss")
}

func TestCache_Set_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("old"), time.Hour))
	require.NoError(t, cache.Set(ctx, "k", []byte("new"), time.Hour))

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestCache_Prune(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stale", []byte("v"), -time.Second))
	require.NoError(t, cache.Set(ctx, "fresh", []byte("v"), time.Hour))

	removed, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok, "fresh entry must survive prune")
}
