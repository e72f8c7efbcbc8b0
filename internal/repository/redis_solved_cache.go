package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conlit/backend/internal/domain"
)

const solvedCacheKeyPrefix = "conlit:solved:"

// redisSolvedCache implements domain.SolvedCacheRepository on Redis.
// Entries are stored as JSON and expire after ttl; zero means no expiry.
type redisSolvedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSolvedCache creates a Redis backed solved cache
func NewRedisSolvedCache(rdb *redis.Client, ttl time.Duration) domain.SolvedCacheRepository {
	return &redisSolvedCache{rdb: rdb, ttl: ttl}
}

func solvedCacheKey(username string) string {
	return solvedCacheKeyPrefix + username
}

func (c *redisSolvedCache) Get(ctx context.Context, username string) (*domain.SolvedCacheEntry, error) {
	raw, err := c.rdb.Get(ctx, solvedCacheKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry domain.SolvedCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

func (c *redisSolvedCache) Put(ctx context.Context, entry *domain.SolvedCacheEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, solvedCacheKey(entry.Username), raw, c.ttl).Err()
}
