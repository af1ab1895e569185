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

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *snapshot.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = snapshot.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "team_snapshots"))
}

func fullSnapshot(managerID id.ManagerID) models.TeamSnapshot {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := models.DefaultSnapshot(managerID, "Platform", 5, now)
	snap.Metrics.LoginTimeShift = models.LoginTimeShift{Value: 60, PreviousMean: 540, Trend: models.TrendUp}
	snap.Metrics.TeamHealth = models.TeamHealth{Score: 55, Signals: []string{"Shifted login times"}}
	snap.Alerts = []models.Alert{{
		Type:           models.AlertAttendanceShift,
		Severity:       models.SeverityCritical,
		Description:    "Your team's average login time shifted 60 minutes later this month",
		Recommendation: "Consider a team check-in or workload review",
		DetectedAt:     now,
	}}
	return snap
}

func (s *PostgresStoreSuite) TestGetUnknownManager() {
	_, err := s.store.Get(context.Background(), id.NewManagerID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestUpsertRoundTrip verifies the JSONB metrics and alerts documents
// survive storage intact.
func (s *PostgresStoreSuite) TestUpsertRoundTrip() {
	ctx := context.Background()
	managerID := id.NewManagerID()
	snap := fullSnapshot(managerID)

	s.Require().NoError(s.store.Upsert(ctx, snap))

	got, err := s.store.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(snap.ManagerID, got.ManagerID)
	s.Equal(snap.TeamName, got.TeamName)
	s.Equal(snap.TeamSize, got.TeamSize)
	s.Equal(snap.Metrics, got.Metrics)
	s.Require().Len(got.Alerts, 1)
	s.Equal(snap.Alerts[0].Type, got.Alerts[0].Type)
	s.Equal(snap.Alerts[0].Severity, got.Alerts[0].Severity)
	s.Equal(snap.Alerts[0].Description, got.Alerts[0].Description)
	s.True(snap.PeriodStart.Equal(got.PeriodStart))
	s.True(snap.UpdatedAt.Equal(got.UpdatedAt))
}

func (s *PostgresStoreSuite) TestUpsertReplacesWholesale() {
	ctx := context.Background()
	managerID := id.NewManagerID()

	first := fullSnapshot(managerID)
	s.Require().NoError(s.store.Upsert(ctx, first))

	second := first
	second.TeamSize = 9
	second.Alerts = []models.Alert{}
	second.Metrics.TeamHealth = models.TeamHealth{Score: 92, Signals: []string{}}
	s.Require().NoError(s.store.Upsert(ctx, second))

	got, err := s.store.Get(ctx, managerID)
	s.Require().NoError(err)
	s.Equal(9, got.TeamSize)
	s.Empty(got.Alerts)
	s.Equal(92, got.Metrics.TeamHealth.Score)
}

func (s *PostgresStoreSuite) TestSnapshotsAreIndependentPerManager() {
	ctx := context.Background()
	first := id.NewManagerID()
	second := id.NewManagerID()

	s.Require().NoError(s.store.Upsert(ctx, fullSnapshot(first)))
	s.Require().NoError(s.store.Upsert(ctx, fullSnapshot(second)))

	got, err := s.store.Get(ctx, first)
	s.Require().NoError(err)
	s.Equal(first, got.ManagerID)
}
