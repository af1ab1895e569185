package models

import (
	"time"

	id "teampulse/pkg/domain"
)

// TrendDirection summarizes which way a metric moved against baseline.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// LoginTimeShift compares mean login minutes between the current and baseline
// windows. Value and PreviousMean are rounded to whole minutes.
type LoginTimeShift struct {
	Value        int            `json:"value"`
	PreviousMean int            `json:"previous_mean"`
	Trend        TrendDirection `json:"trend"`
}

// AttendanceVariability captures spread and lateness drift in the current
// window. Coefficient is the population standard deviation of login minutes,
// kept to one decimal; Change is the late-rate delta in percentage points.
type AttendanceVariability struct {
	Coefficient float64 `json:"coefficient"`
	Change      int     `json:"change"`
	IsElevated  bool    `json:"is_elevated"`
}

// LeaveClustering scores concentration of clustered leave requests.
// AffectedCount carries an anonymization floor: once any clustering is
// detected it never reports fewer than 3 people, so small groups cannot be
// re-identified from the aggregate.
type LeaveClustering struct {
	Score         int `json:"score"`
	ClusteredDays int `json:"clustered_days"`
	AffectedCount int `json:"affected_count"`
}

// CommunicationTrend compares weighted activity between windows.
type CommunicationTrend struct {
	ActivityChange int           `json:"activity_change"` // percent
	CurrentLevel   ActivityLevel `json:"current_level"`
	PreviousLevel  ActivityLevel `json:"previous_level"`
}

// MeetingEngagement holds response-rate percentages for the current window
// and the acceptance-rate delta against baseline.
type MeetingEngagement struct {
	AcceptanceRate int `json:"acceptance_rate"`
	DeclineRate    int `json:"decline_rate"`
	NoResponseRate int `json:"no_response_rate"`
	Change         int `json:"change"`
}

// TeamHealth is the composite score averaged from four factors. The formula
// does not clamp the result to [0,100]; extreme communication drops can push
// it below zero, which callers may clamp for display.
type TeamHealth struct {
	Score   int      `json:"score"`
	Signals []string `json:"signals"`
}

// MetricsBundle is the full set of team-level metrics produced by one
// aggregation run. It is ephemeral: recomputed from scratch every run.
type MetricsBundle struct {
	LoginTimeShift        LoginTimeShift        `json:"login_time_shift"`
	AttendanceVariability AttendanceVariability `json:"attendance_variability"`
	LeaveClustering       LeaveClustering       `json:"leave_clustering"`
	CommunicationTrend    CommunicationTrend    `json:"communication_trend"`
	MeetingEngagement     MeetingEngagement     `json:"meeting_engagement"`
	TeamHealth            TeamHealth            `json:"team_health"`
}

// AlertType identifies which detection rule fired.
type AlertType string

const (
	AlertAttendanceShift       AlertType = "ATTENDANCE_SHIFT"
	AlertLeaveClustering       AlertType = "LEAVE_CLUSTERING"
	AlertCommunicationDrop     AlertType = "COMMUNICATION_DROP"
	AlertMeetingEngagementDrop AlertType = "MEETING_ENGAGEMENT_DROP"
	AlertLowTeamHealth         AlertType = "LOW_TEAM_HEALTH"
)

// Severity tiers an alert for the manager dashboard.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a value object describing one detected pattern. Alerts reference
// team-level patterns, never individuals, and are fully regenerated each run.
type Alert struct {
	Type           AlertType `json:"type"`
	Severity       Severity  `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	DetectedAt     time.Time `json:"detected_at"`
}

// TeamSnapshot is the single persisted aggregate document per manager,
// wholly replaced on each aggregation run.
type TeamSnapshot struct {
	ManagerID id.ManagerID `json:"manager_id"`
	TeamName  string       `json:"team_name"`
	TeamSize  int          `json:"team_size"`

	Metrics MetricsBundle `json:"metrics"`
	Alerts  []Alert       `json:"alerts"`

	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	BaselineStart time.Time `json:"baseline_start"`
	BaselineEnd   time.Time `json:"baseline_end"`

	UpdatedAt time.Time `json:"updated_at"`
}

// WindowLength is the span of each comparison window. The baseline window
// immediately precedes the current one with the same length.
const WindowLength = 30 * 24 * time.Hour

// DefaultSnapshot is the neutral snapshot served before the first aggregation
// run so first-time callers never see a missing-resource error.
func DefaultSnapshot(managerID id.ManagerID, teamName string, teamSize int, now time.Time) TeamSnapshot {
	return TeamSnapshot{
		ManagerID: managerID,
		TeamName:  teamName,
		TeamSize:  teamSize,
		Metrics: MetricsBundle{
			LoginTimeShift:     LoginTimeShift{Trend: TrendStable},
			CommunicationTrend: CommunicationTrend{CurrentLevel: ActivityNormal, PreviousLevel: ActivityNormal},
			TeamHealth:         TeamHealth{Score: 100, Signals: []string{}},
		},
		Alerts:        []Alert{},
		PeriodStart:   now.Add(-WindowLength),
		PeriodEnd:     now,
		BaselineStart: now.Add(-2 * WindowLength),
		BaselineEnd:   now.Add(-WindowLength),
		UpdatedAt:     now,
	}
}
