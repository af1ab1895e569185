package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
)

// Schema is the DDL for the signal events table. Applied by migrations in
// deployment and by the container helper in integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS signal_events (
	id               UUID PRIMARY KEY,
	subject_id       UUID NOT NULL,
	occurred_at      TIMESTAMPTZ NOT NULL,
	kind             TEXT NOT NULL,
	login_minutes    INT,
	is_late          BOOLEAN,
	day_of_week      INT,
	leave_class      TEXT,
	activity_level   TEXT,
	meeting_response TEXT
);
CREATE INDEX IF NOT EXISTS signal_events_subject_occurred_idx
	ON signal_events (subject_id, occurred_at);
`

// PostgresStore persists signal events in PostgreSQL. Events are append-only;
// there is no update or delete path.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event models.SignalEvent) error {
	var (
		loginMinutes, dayOfWeek        sql.NullInt64
		isLate                         sql.NullBool
		leaveClass, level, meetingResp sql.NullString
	)
	switch {
	case event.Attendance != nil:
		loginMinutes = sql.NullInt64{Int64: int64(event.Attendance.LoginMinutes), Valid: true}
		dayOfWeek = sql.NullInt64{Int64: int64(event.Attendance.DayOfWeek), Valid: true}
		isLate = sql.NullBool{Bool: event.Attendance.IsLate, Valid: true}
	case event.Leave != nil:
		leaveClass = sql.NullString{String: string(event.Leave.Class), Valid: true}
	case event.Communication != nil:
		level = sql.NullString{String: string(event.Communication.Level), Valid: true}
	case event.Meeting != nil:
		meetingResp = sql.NullString{String: string(event.Meeting.Type), Valid: true}
	}

	// ON CONFLICT DO NOTHING keeps appends idempotent by event ID under
	// at-least-once delivery.
	query := `
		INSERT INTO signal_events
			(id, subject_id, occurred_at, kind, login_minutes, is_late, day_of_week, leave_class, activity_level, meeting_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, uuid.UUID(event.SubjectID), event.OccurredAt, string(event.Kind()),
		loginMinutes, isLate, dayOfWeek, leaveClass, level, meetingResp,
	)
	if err != nil {
		return fmt.Errorf("append signal event: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadWindow(ctx context.Context, subjects []id.SubjectID, from, to time.Time) ([]models.SignalEvent, error) {
	if len(subjects) == 0 {
		return []models.SignalEvent{}, nil
	}

	subjectIDs := make([]uuid.UUID, len(subjects))
	for i, subject := range subjects {
		subjectIDs[i] = uuid.UUID(subject)
	}

	query := `
		SELECT id, subject_id, occurred_at, kind, login_minutes, is_late, day_of_week, leave_class, activity_level, meeting_response
		FROM signal_events
		WHERE subject_id = ANY($1) AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(subjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("load signal window: %w", err)
	}
	defer rows.Close()

	events := []models.SignalEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal events: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (models.SignalEvent, error) {
	var (
		event                          models.SignalEvent
		eventID, subjectID             uuid.UUID
		kind                           string
		loginMinutes, dayOfWeek        sql.NullInt64
		isLate                         sql.NullBool
		leaveClass, level, meetingResp sql.NullString
	)
	err := rows.Scan(&eventID, &subjectID, &event.OccurredAt, &kind,
		&loginMinutes, &isLate, &dayOfWeek, &leaveClass, &level, &meetingResp)
	if err != nil {
		return models.SignalEvent{}, err
	}
	event.ID = eventID
	event.SubjectID = id.SubjectID(subjectID)

	switch models.SignalKind(kind) {
	case models.KindAttendancePattern:
		event.Attendance = &models.AttendancePattern{
			LoginMinutes: int(loginMinutes.Int64),
			IsLate:       isLate.Bool,
			DayOfWeek:    int(dayOfWeek.Int64),
		}
	case models.KindLeaveRequest:
		event.Leave = &models.LeaveRequest{Class: models.LeaveClass(leaveClass.String)}
	case models.KindCommunicationActivity:
		event.Communication = &models.CommunicationActivity{Level: models.ActivityLevel(level.String)}
	case models.KindMeetingResponse:
		event.Meeting = &models.MeetingResponse{Type: models.MeetingResponseType(meetingResp.String)}
	}
	return event, nil
}
