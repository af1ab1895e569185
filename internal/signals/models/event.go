package models

import (
	"time"

	"github.com/google/uuid"

	id "teampulse/pkg/domain"
	dErrors "teampulse/pkg/domain-errors"
)

// SignalKind tags the behavioral observation an event carries.
type SignalKind string

const (
	KindAttendancePattern     SignalKind = "attendance_pattern"
	KindLeaveRequest          SignalKind = "leave_request"
	KindCommunicationActivity SignalKind = "communication_activity"
	KindMeetingResponse       SignalKind = "meeting_response"
)

// OfficeOpeningMinutes is the 9:00 threshold used by upstream emitters when
// tagging attendance events as late. The engine only counts the flag.
const OfficeOpeningMinutes = 9 * 60

// ActivityLevel classifies communication volume in a window.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityNormal ActivityLevel = "normal"
	ActivityHigh   ActivityLevel = "high"
)

// LeaveClass classifies a leave request relative to team calendar context.
// Clustering is detected at the event-tagging stage upstream; the engine
// merely counts clustered requests.
type LeaveClass string

const (
	LeaveBeforeDeadline LeaveClass = "before_deadline"
	LeaveAfterDeadline  LeaveClass = "after_deadline"
	LeaveIsolated       LeaveClass = "isolated"
	LeaveClustered      LeaveClass = "clustered"
)

// MeetingResponseType classifies a response to a meeting invitation.
type MeetingResponseType string

const (
	MeetingAccept     MeetingResponseType = "accept"
	MeetingDecline    MeetingResponseType = "decline"
	MeetingNoResponse MeetingResponseType = "no_response"
)

// AttendancePattern is the payload of an attendance_pattern event.
type AttendancePattern struct {
	LoginMinutes int  `json:"login_minutes"` // minutes from midnight
	IsLate       bool `json:"is_late"`
	DayOfWeek    int  `json:"day_of_week"` // 0 = Sunday
}

// LeaveRequest is the payload of a leave_request event.
type LeaveRequest struct {
	Class LeaveClass `json:"class"`
}

// CommunicationActivity is the payload of a communication_activity event.
type CommunicationActivity struct {
	Level ActivityLevel `json:"level"`
}

// MeetingResponse is the payload of a meeting_response event.
type MeetingResponse struct {
	Type MeetingResponseType `json:"type"`
}

// SignalEvent is a single timestamped behavioral observation about one
// subject. At most one payload field is populated; events are immutable once
// recorded and the engine never surfaces the subject downstream.
type SignalEvent struct {
	ID         uuid.UUID    `json:"id"`
	SubjectID  id.SubjectID `json:"subject_id"`
	OccurredAt time.Time    `json:"occurred_at"`

	Attendance    *AttendancePattern     `json:"attendance,omitempty"`
	Leave         *LeaveRequest          `json:"leave,omitempty"`
	Communication *CommunicationActivity `json:"communication,omitempty"`
	Meeting       *MeetingResponse       `json:"meeting,omitempty"`
}

// Kind reports which payload is populated, or "" for a malformed event.
func (e SignalEvent) Kind() SignalKind {
	switch {
	case e.Attendance != nil:
		return KindAttendancePattern
	case e.Leave != nil:
		return KindLeaveRequest
	case e.Communication != nil:
		return KindCommunicationActivity
	case e.Meeting != nil:
		return KindMeetingResponse
	}
	return ""
}

// Validate enforces the event shape invariant: a known subject and exactly
// one populated payload.
func (e SignalEvent) Validate() error {
	if e.SubjectID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "subject_id is required")
	}
	populated := 0
	if e.Attendance != nil {
		populated++
	}
	if e.Leave != nil {
		populated++
	}
	if e.Communication != nil {
		populated++
	}
	if e.Meeting != nil {
		populated++
	}
	if populated != 1 {
		return dErrors.New(dErrors.CodeValidation, "event must carry exactly one signal payload")
	}
	if e.Leave != nil {
		switch e.Leave.Class {
		case LeaveBeforeDeadline, LeaveAfterDeadline, LeaveIsolated, LeaveClustered:
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown leave class")
		}
	}
	if e.Communication != nil {
		switch e.Communication.Level {
		case ActivityLow, ActivityNormal, ActivityHigh:
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown communication activity level")
		}
	}
	if e.Meeting != nil {
		switch e.Meeting.Type {
		case MeetingAccept, MeetingDecline, MeetingNoResponse:
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown meeting response type")
		}
	}
	return nil
}
