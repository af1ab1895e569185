package handler

import (
	"time"

	id "teampulse/pkg/domain"
	dErrors "teampulse/pkg/domain-errors"

	"teampulse/internal/signals/models"
)

// RecordSignalRequest is the body of POST /signals/record.
type RecordSignalRequest struct {
	SubjectID  string     `json:"subject_id"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`

	Attendance    *models.AttendancePattern     `json:"attendance,omitempty"`
	Leave         *models.LeaveRequest          `json:"leave,omitempty"`
	Communication *models.CommunicationActivity `json:"communication,omitempty"`
	Meeting       *models.MeetingResponse       `json:"meeting,omitempty"`
}

// Validate checks the request shape before it is turned into an event.
// Payload enum values are validated by the event itself.
func (r RecordSignalRequest) Validate() error {
	if r.SubjectID == "" {
		return dErrors.New(dErrors.CodeValidation, "subject_id is required")
	}
	return nil
}

// ToEvent converts the request into an unrecorded event. The service
// fills in the event ID and, when absent, the occurrence time.
func (r RecordSignalRequest) ToEvent() (models.SignalEvent, error) {
	subjectID, err := id.ParseSubjectID(r.SubjectID)
	if err != nil {
		return models.SignalEvent{}, err
	}
	event := models.SignalEvent{
		SubjectID:     subjectID,
		Attendance:    r.Attendance,
		Leave:         r.Leave,
		Communication: r.Communication,
		Meeting:       r.Meeting,
	}
	if r.OccurredAt != nil {
		event.OccurredAt = r.OccurredAt.UTC()
	}
	return event, nil
}

// AggregateRequest is the body of POST /signals/aggregate. An empty
// manager_id requests a run over every known manager.
type AggregateRequest struct {
	ManagerID string `json:"manager_id,omitempty"`
}

// RecordSignalResponse echoes the identifiers assigned to a recorded event.
type RecordSignalResponse struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AggregateResponse reports the outcome of a manual aggregation run.
type AggregateResponse struct {
	Status string `json:"status"`
}
