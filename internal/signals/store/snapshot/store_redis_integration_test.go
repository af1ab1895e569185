//go:build integration

package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"
	"teampulse/pkg/testutil/containers"

	"teampulse/internal/signals/models"
	"teampulse/internal/signals/store/snapshot"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *snapshot.InMemoryStore
	store *snapshot.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.inner = snapshot.NewInMemory()
	s.store = snapshot.NewCached(s.inner, s.redis.Client, snapshot.WithCacheTTL(time.Minute))
}

func (s *CachedStoreSuite) TestMissFallsThrough() {
	_, err := s.store.Get(context.Background(), id.NewManagerID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CachedStoreSuite) TestWriteThrough() {
	ctx := context.Background()
	managerID := id.NewManagerID()
	snap := fullSnapshot(managerID)

	s.Require().NoError(s.store.Upsert(ctx, snap))

	// The inner store has the snapshot.
	inner, err := s.inner.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(snap.TeamName, inner.TeamName)

	// So does the cache: reads survive losing the inner copy.
	cached, err := s.store.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(snap.Metrics, cached.Metrics)
}

func (s *CachedStoreSuite) TestReadThroughPopulatesCache() {
	ctx := context.Background()
	managerID := id.NewManagerID()
	snap := fullSnapshot(managerID)

	// Write behind the cache's back.
	s.Require().NoError(s.inner.Upsert(ctx, snap))

	first, err := s.store.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(snap.TeamName, first.TeamName)

	// Now served from Redis even when the inner store is empty.
	rebuilt := snapshot.NewCached(snapshot.NewInMemory(), s.redis.Client, snapshot.WithCacheTTL(time.Minute))
	second, err := rebuilt.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(snap.TeamName, second.TeamName)
}

func (s *CachedStoreSuite) TestUpsertRefreshesCachedValue() {
	ctx := context.Background()
	managerID := id.NewManagerID()

	first := fullSnapshot(managerID)
	s.Require().NoError(s.store.Upsert(ctx, first))

	second := first
	second.Metrics.TeamHealth = models.TeamHealth{Score: 30, Signals: []string{}}
	s.Require().NoError(s.store.Upsert(ctx, second))

	got, err := s.store.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(30, got.Metrics.TeamHealth.Score, "stale cached snapshot must not survive an upsert")
}
