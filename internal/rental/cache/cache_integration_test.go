//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"leasebook/internal/rental"
	"leasebook/internal/rental/cache"
	"leasebook/pkg/domain"
	"leasebook/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.PropertyCache
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.New(s.redis.Client, time.Minute, nil)
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func testView(id domain.PropertyID) rental.View {
	return rental.View{
		ID:            id.String(),
		Owner:         uuid.NewString(),
		MonthlyPrice:  12500,
		Status:        "listed_for_rent",
		StatusDisplay: "Listed for rent",
		Applicants:    2,
	}
}

func (s *CacheSuite) TestPutAndGet() {
	ctx := context.Background()
	id := domain.PropertyID(uuid.New())
	view := testView(id)

	s.cache.Put(ctx, view)

	got, ok := s.cache.Get(ctx, id)
	s.Require().True(ok)
	s.Equal(view, got)
}

func (s *CacheSuite) TestGetMiss() {
	_, ok := s.cache.Get(context.Background(), domain.PropertyID(uuid.New()))
	s.False(ok)
}

func (s *CacheSuite) TestPutOverwrites() {
	ctx := context.Background()
	id := domain.PropertyID(uuid.New())
	view := testView(id)
	s.cache.Put(ctx, view)

	view.Status = "awaiting_payment"
	view.StatusDisplay = "Awaiting payment"
	s.cache.Put(ctx, view)

	got, ok := s.cache.Get(ctx, id)
	s.Require().True(ok)
	s.Equal("awaiting_payment", got.Status)
}

func (s *CacheSuite) TestEvict() {
	ctx := context.Background()
	id := domain.PropertyID(uuid.New())
	s.cache.Put(ctx, testView(id))

	s.cache.Evict(ctx, id)

	_, ok := s.cache.Get(ctx, id)
	s.False(ok)
}

func (s *CacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	shortLived := cache.New(s.redis.Client, 100*time.Millisecond, nil)
	id := domain.PropertyID(uuid.New())
	shortLived.Put(ctx, testView(id))

	_, ok := shortLived.Get(ctx, id)
	s.Require().True(ok)

	time.Sleep(200 * time.Millisecond)
	_, ok = shortLived.Get(ctx, id)
	s.False(ok)
}
