package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/conlit/backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "cache.db")
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SolvedCacheEntry{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSolvedCacheRepository_GetMiss(t *testing.T) {
	repo := NewSolvedCacheRepository(newTestDB(t))

	entry, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSolvedCacheRepository_PutThenGet(t *testing.T) {
	repo := NewSolvedCacheRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.SolvedCacheEntry{
		Username:        "alice",
		SubmissionCount: 42,
		SolvedSlugs:     []string{"two-sum", "group-anagrams"},
	}))

	entry, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 42, entry.SubmissionCount)
	assert.Equal(t, []string{"two-sum", "group-anagrams"}, []string(entry.SolvedSlugs))
}

func TestSolvedCacheRepository_PutOverwrites(t *testing.T) {
	repo := NewSolvedCacheRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.SolvedCacheEntry{Username: "bob", SubmissionCount: 1, SolvedSlugs: []string{"a"}}))
	require.NoError(t, repo.Put(ctx, &domain.SolvedCacheEntry{Username: "bob", SubmissionCount: 5, SolvedSlugs: []string{"a", "b"}}))

	entry, err := repo.Get(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 5, entry.SubmissionCount)
	assert.Equal(t, []string{"a", "b"}, []string(entry.SolvedSlugs))
}

func TestMemorySolvedCache(t *testing.T) {
	cache := NewMemorySolvedCache()
	ctx := context.Background()

	entry, err := cache.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, entry)

	slugs := []string{"x", "y"}
	require.NoError(t, cache.Put(ctx, &domain.SolvedCacheEntry{Username: "carol", SubmissionCount: 3, SolvedSlugs: slugs}))
	slugs[0] = "mutated"

	entry, err = cache.Get(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"x", "y"}, []string(entry.SolvedSlugs))
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestMemorySolvedCache_ConcurrentWritesLastWriterWins(t *testing.T) {
	cache := NewMemorySolvedCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = cache.Put(ctx, &domain.SolvedCacheEntry{Username: "dave", SubmissionCount: n})
		}(i)
	}
	wg.Wait()

	entry, err := cache.Get(ctx, "dave")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, cache.Len())
	assert.GreaterOrEqual(t, entry.SubmissionCount, 0)
}

func TestSolvedCacheKey(t *testing.T) {
	assert.Equal(t, "conlit:solved:alice", solvedCacheKey("alice"))
}
