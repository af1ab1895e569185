package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"

	"teampulse/internal/directory/models"
	"teampulse/internal/signals/ports"
)

// Schema is the DDL for the employee directory table.
const Schema = `
CREATE TABLE IF NOT EXISTS employees (
	subject_id UUID PRIMARY KEY,
	full_name  TEXT NOT NULL,
	manager_id UUID NOT NULL,
	team_name  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_manager ON employees (manager_id);
`

// PostgresStore reads team membership from the employees table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AddEmployee inserts or moves an employee. A re-insert with a new
// manager reassigns the subject to that manager's team.
func (s *PostgresStore) AddEmployee(ctx context.Context, employee models.Employee) error {
	query := `
		INSERT INTO employees (subject_id, full_name, manager_id, team_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id) DO UPDATE SET
			full_name  = EXCLUDED.full_name,
			manager_id = EXCLUDED.manager_id,
			team_name  = EXCLUDED.team_name
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(employee.SubjectID), employee.FullName,
		uuid.UUID(employee.ManagerID), employee.TeamName,
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) Resolve(ctx context.Context, managerID id.ManagerID) (ports.Team, error) {
	query := `
		SELECT subject_id, team_name
		FROM employees
		WHERE manager_id = $1
		ORDER BY subject_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(managerID))
	if err != nil {
		return ports.Team{}, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	var team ports.Team
	for rows.Next() {
		var subjectID uuid.UUID
		if err := rows.Scan(&subjectID, &team.Name); err != nil {
			return ports.Team{}, fmt.Errorf("scan team member: %w", err)
		}
		team.Members = append(team.Members, id.SubjectID(subjectID))
	}
	if err := rows.Err(); err != nil {
		return ports.Team{}, fmt.Errorf("iterate team members: %w", err)
	}
	// Teams exist only through their members here, so a manager whose last
	// report moved away is indistinguishable from an unknown manager.
	if len(team.Members) == 0 {
		return ports.Team{}, sentinel.ErrNotFound
	}
	return team, nil
}

func (s *PostgresStore) ListManagers(ctx context.Context) ([]id.ManagerID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT manager_id FROM employees`)
	if err != nil {
		return nil, fmt.Errorf("query managers: %w", err)
	}
	defer rows.Close()

	var managers []id.ManagerID
	for rows.Next() {
		var managerID uuid.UUID
		if err := rows.Scan(&managerID); err != nil {
			return nil, fmt.Errorf("scan manager: %w", err)
		}
		managers = append(managers, id.ManagerID(managerID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managers: %w", err)
	}
	return managers, nil
}
