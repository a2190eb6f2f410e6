package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"casenotes/internal/notetype/models"
	platformredis "casenotes/internal/platform/redis"
	"casenotes/pkg/platform/sentinel"
)

// Catalog resolves type pairs to descriptors.
type Catalog interface {
	Resolve(ctx context.Context, parentType, subType string) (models.NoteType, error)
}

// RedisCache is a read-through cache in front of another catalog. The
// catalog is reference data that changes rarely, so entries are cached with
// a TTL and a cache failure falls back to the inner catalog.
//
// Unknown pairs are cached too, with the same TTL, so repeated creation
// attempts with a bad type do not hammer the database.
type RedisCache struct {
	inner  Catalog
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps a catalog with a Redis read-through cache.
func NewRedisCache(inner Catalog, client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

// negativeEntry marks a cached "unknown type pair" result.
const negativeEntry = "!"

func cacheKey(parentType, subType string) string {
	return fmt.Sprintf("casenotes:type:%s:%s", parentType, subType)
}

func (c *RedisCache) Resolve(ctx context.Context, parentType, subType string) (models.NoteType, error) {
	key := cacheKey(parentType, subType)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == negativeEntry {
			return models.NoteType{}, sentinel.ErrNotFound
		}
		var noteType models.NoteType
		if err := json.Unmarshal([]byte(cached), &noteType); err == nil {
			return noteType, nil
		}
		// Unreadable entry: fall through and repopulate.
	case !errors.Is(err, goredis.Nil):
		c.logger.WarnContext(ctx, "note type cache read failed", "error", err)
	}

	noteType, err := c.inner.Resolve(ctx, parentType, subType)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.set(ctx, key, negativeEntry)
		}
		return models.NoteType{}, err
	}

	encoded, err := json.Marshal(noteType)
	if err == nil {
		c.set(ctx, key, string(encoded))
	}
	return noteType, nil
}

func (c *RedisCache) set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "note type cache write failed", "error", err)
	}
}
