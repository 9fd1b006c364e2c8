//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hemotrace/internal/registry/cache"
	"hemotrace/pkg/testutil/containers"
)

type BasicInfoCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.BasicInfoCache
}

func TestBasicInfoCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(BasicInfoCacheSuite))
}

func (s *BasicInfoCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.NewBasicInfoCache(s.redis.Client, time.Minute)
}

func (s *BasicInfoCacheSuite) TearDownSuite() {
	_ = s.redis.Client.Close()
	_ = s.redis.Container.Terminate(context.Background())
}

func (s *BasicInfoCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *BasicInfoCacheSuite) TestSaveAndFind() {
	ctx := context.Background()
	info := cache.BasicInfo{
		Status:       4,
		StatusName:   "Stored",
		ExpiryTime:   time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour),
		DonationType: "whole_blood_400ml",
	}

	s.Require().NoError(s.cache.Save(ctx, 1, info))

	found, err := s.cache.Find(ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(info.StatusName, found.StatusName)
	s.True(info.ExpiryTime.Equal(found.ExpiryTime))
}

func (s *BasicInfoCacheSuite) TestMissReturnsNil() {
	found, err := s.cache.Find(context.Background(), 404)
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *BasicInfoCacheSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, 1, cache.BasicInfo{StatusName: "Donated"}))
	s.Require().NoError(s.cache.Invalidate(ctx, 1))

	found, err := s.cache.Find(ctx, 1)
	s.Require().NoError(err)
	s.Nil(found)

	// Invalidating an absent entry is a no-op.
	s.Require().NoError(s.cache.Invalidate(ctx, 2))
}
