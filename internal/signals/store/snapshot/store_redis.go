package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
	"teampulse/internal/signals/ports"
)

const snapshotKeyPrefix = "signals:snapshot:"

// DefaultCacheTTL bounds staleness between scheduled aggregation runs.
const DefaultCacheTTL = 10 * time.Minute

// CachedStore is a read-through Redis cache in front of another
// SnapshotStore. Upserts write through to both, so a cached entry is
// never older than the last completed aggregation plus the TTL.
type CachedStore struct {
	inner  ports.SnapshotStore
	client *redis.Client
	ttl    time.Duration
}

// CachedStoreOption configures a CachedStore instance.
type CachedStoreOption func(*CachedStore)

// WithCacheTTL overrides the default cache entry lifetime.
func WithCacheTTL(ttl time.Duration) CachedStoreOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCached wraps inner with a Redis cache layer.
func NewCached(inner ports.SnapshotStore, client *redis.Client, opts ...CachedStoreOption) *CachedStore {
	cached := &CachedStore{
		inner:  inner,
		client: client,
		ttl:    DefaultCacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cached)
		}
	}
	return cached
}

func (c *CachedStore) Get(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error) {
	key := snapshotKeyPrefix + managerID.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var snapshot models.TeamSnapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			return &snapshot, nil
		}
		// Undecodable entry: fall through to the inner store and let the
		// next write replace it.
	}

	snapshot, err := c.inner.Get(ctx, managerID)
	if err != nil {
		return nil, err
	}
	c.cache(ctx, key, *snapshot)
	return snapshot, nil
}

func (c *CachedStore) Upsert(ctx context.Context, snapshot models.TeamSnapshot) error {
	if err := c.inner.Upsert(ctx, snapshot); err != nil {
		return err
	}
	key := snapshotKeyPrefix + snapshot.ManagerID.String()
	if err := c.cache(ctx, key, snapshot); err != nil {
		return fmt.Errorf("cache team snapshot: %w", err)
	}
	return nil
}

func (c *CachedStore) cache(ctx context.Context, key string, snapshot models.TeamSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
