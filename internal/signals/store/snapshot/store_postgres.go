package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"

	"teampulse/internal/signals/models"
)

// Schema is the DDL for the team snapshots table.
const Schema = `
CREATE TABLE IF NOT EXISTS team_snapshots (
	manager_id     UUID PRIMARY KEY,
	team_name      TEXT NOT NULL,
	team_size      INT NOT NULL,
	metrics        JSONB NOT NULL,
	alerts         JSONB NOT NULL,
	period_start   TIMESTAMPTZ NOT NULL,
	period_end     TIMESTAMPTZ NOT NULL,
	baseline_start TIMESTAMPTZ NOT NULL,
	baseline_end   TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists one snapshot row per manager. The metrics bundle
// and alert list travel as JSONB: they are value documents replaced
// wholesale, never queried field by field.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error) {
	query := `
		SELECT manager_id, team_name, team_size, metrics, alerts,
			period_start, period_end, baseline_start, baseline_end, updated_at
		FROM team_snapshots
		WHERE manager_id = $1
	`
	var (
		snapshot              models.TeamSnapshot
		rowManagerID          uuid.UUID
		metricsRaw, alertsRaw []byte
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(managerID)).Scan(
		&rowManagerID, &snapshot.TeamName, &snapshot.TeamSize, &metricsRaw, &alertsRaw,
		&snapshot.PeriodStart, &snapshot.PeriodEnd, &snapshot.BaselineStart, &snapshot.BaselineEnd,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get team snapshot: %w", err)
	}
	snapshot.ManagerID = id.ManagerID(rowManagerID)

	if err := json.Unmarshal(metricsRaw, &snapshot.Metrics); err != nil {
		return nil, fmt.Errorf("decode snapshot metrics: %w", err)
	}
	if err := json.Unmarshal(alertsRaw, &snapshot.Alerts); err != nil {
		return nil, fmt.Errorf("decode snapshot alerts: %w", err)
	}
	return &snapshot, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, snapshot models.TeamSnapshot) error {
	metricsRaw, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return fmt.Errorf("encode snapshot metrics: %w", err)
	}
	alertsRaw, err := json.Marshal(snapshot.Alerts)
	if err != nil {
		return fmt.Errorf("encode snapshot alerts: %w", err)
	}

	query := `
		INSERT INTO team_snapshots
			(manager_id, team_name, team_size, metrics, alerts,
			 period_start, period_end, baseline_start, baseline_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (manager_id) DO UPDATE SET
			team_name      = EXCLUDED.team_name,
			team_size      = EXCLUDED.team_size,
			metrics        = EXCLUDED.metrics,
			alerts         = EXCLUDED.alerts,
			period_start   = EXCLUDED.period_start,
			period_end     = EXCLUDED.period_end,
			baseline_start = EXCLUDED.baseline_start,
			baseline_end   = EXCLUDED.baseline_end,
			updated_at     = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(snapshot.ManagerID), snapshot.TeamName, snapshot.TeamSize, metricsRaw, alertsRaw,
		snapshot.PeriodStart, snapshot.PeriodEnd, snapshot.BaselineStart, snapshot.BaselineEnd,
		snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert team snapshot: %w", err)
	}
	return nil
}
