//go:build integration

package containers

import (
	"sync"
	"testing"

	directorystore "teampulse/internal/directory/store"
	eventstore "teampulse/internal/signals/store/event"
	snapshotstore "teampulse/internal/signals/store/snapshot"
)

// Manager shares one container of each kind across test suites so a
// package's integration run pays the startup cost once. Ryuk reaps the
// containers when the test process exits.
type Manager struct {
	postgresOnce sync.Once
	postgres     *PostgresContainer

	redisOnce sync.Once
	redis     *RedisContainer
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres returns the shared Postgres container with all schemas applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.postgresOnce.Do(func() {
		m.postgres = NewPostgresContainer(t,
			eventstore.Schema,
			snapshotstore.Schema,
			directorystore.Schema,
		)
	})
	if m.postgres == nil {
		t.Fatal("postgres container failed to start")
	}
	return m.postgres
}

// GetRedis returns the shared Redis container.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.redisOnce.Do(func() {
		m.redis = NewRedisContainer(t)
	})
	if m.redis == nil {
		t.Fatal("redis container failed to start")
	}
	return m.redis
}
