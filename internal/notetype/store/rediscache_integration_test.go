//go:build integration

package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"casenotes/internal/notetype/models"
	platformredis "casenotes/internal/platform/redis"
	"casenotes/pkg/platform/sentinel"
	"casenotes/pkg/testutil/containers"
)

// countingCatalog records how many times the inner catalog is hit.
type countingCatalog struct {
	inner Catalog
	hits  int
}

func (c *countingCatalog) Resolve(ctx context.Context, parentType, subType string) (models.NoteType, error) {
	c.hits++
	return c.inner.Resolve(ctx, parentType, subType)
}

type RedisCacheSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	inner   *countingCatalog
	catalog *RedisCache
	ctx     context.Context
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.ctx = context.Background()
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))

	memory := NewInMemory()
	SeedDefaultTypes(memory)
	s.inner = &countingCatalog{inner: memory}
	s.catalog = NewRedisCache(s.inner, &platformredis.Client{Client: s.redis.Client}, time.Minute, slog.Default())
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) TestReadThrough() {
	first, err := s.catalog.Resolve(s.ctx, "POM", "GEN")
	s.Require().NoError(err)
	s.Equal("POM", first.ParentType)
	s.Equal(1, s.inner.hits)

	second, err := s.catalog.Resolve(s.ctx, "POM", "GEN")
	s.Require().NoError(err)
	s.Equal(first, second)
	s.Equal(1, s.inner.hits, "second resolve should be served from cache")
}

func (s *RedisCacheSuite) TestNegativeCaching() {
	_, err := s.catalog.Resolve(s.ctx, "POM", "NOPE")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(1, s.inner.hits)

	_, err = s.catalog.Resolve(s.ctx, "POM", "NOPE")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(1, s.inner.hits, "unknown pair should be cached too")
}
