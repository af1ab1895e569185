// Package detect applies fixed threshold rules to a metrics bundle and emits
// manager-facing alerts. Rules are evaluated in a fixed order so the alert
// list is deterministic; callers must not reorder it.
package detect

import (
	"fmt"
	"time"

	"teampulse/internal/signals/models"
)

// Fixed recommendation text per alert type. Wording is a dashboard concern;
// the triggering condition, type, and severity tier are the contract.
const (
	recAttendanceShift   = "Consider a team check-in or workload review"
	recLeaveClustering   = "Review workload distribution and project deadlines"
	recCommunicationDrop = "Consider an anonymous pulse survey or team retrospective"
	recMeetingEngagement = "Check meeting quality, frequency, and relevance"
	recLowTeamHealth     = "Schedule a comprehensive team check-in and review recent changes"
)

// Detect evaluates the five alert rules against a computed bundle.
// detectedAt is passed in rather than read from the clock so repeated runs
// over the same inputs produce identical alerts.
//
// All alerts reference team-level patterns, never individuals.
func Detect(m models.MetricsBundle, detectedAt time.Time) []models.Alert {
	alerts := []models.Alert{}

	// Rule 1: attendance shift
	if abs(m.LoginTimeShift.Value) > 30 {
		severity := models.SeverityWarning
		if m.LoginTimeShift.Value > 45 {
			severity = models.SeverityCritical
		}
		direction := "earlier"
		if m.LoginTimeShift.Value > 0 {
			direction = "later"
		}
		alerts = append(alerts, models.Alert{
			Type:     models.AlertAttendanceShift,
			Severity: severity,
			Description: fmt.Sprintf("Your team's average login time shifted %d minutes %s this month",
				abs(m.LoginTimeShift.Value), direction),
			Recommendation: recAttendanceShift,
			DetectedAt:     detectedAt,
		})
	}

	// Rule 2: leave clustering
	if m.LeaveClustering.Score > 40 {
		severity := models.SeverityWarning
		if m.LeaveClustering.Score > 70 {
			severity = models.SeverityCritical
		}
		alerts = append(alerts, models.Alert{
			Type:     models.AlertLeaveClustering,
			Severity: severity,
			Description: fmt.Sprintf("Unusual leave concentration detected: %d+ people requested leave on the same days",
				m.LeaveClustering.AffectedCount),
			Recommendation: recLeaveClustering,
			DetectedAt:     detectedAt,
		})
	}

	// Rule 3: communication drop
	if m.CommunicationTrend.ActivityChange < -25 {
		severity := models.SeverityWarning
		if m.CommunicationTrend.ActivityChange < -40 {
			severity = models.SeverityCritical
		}
		alerts = append(alerts, models.Alert{
			Type:     models.AlertCommunicationDrop,
			Severity: severity,
			Description: fmt.Sprintf("Team communication activity dropped %d%% compared to baseline",
				abs(m.CommunicationTrend.ActivityChange)),
			Recommendation: recCommunicationDrop,
			DetectedAt:     detectedAt,
		})
	}

	// Rule 4: meeting engagement decline (never critical)
	if m.MeetingEngagement.Change < -20 {
		alerts = append(alerts, models.Alert{
			Type:     models.AlertMeetingEngagementDrop,
			Severity: models.SeverityWarning,
			Description: fmt.Sprintf("Meeting acceptance rate declined by %d%%",
				abs(m.MeetingEngagement.Change)),
			Recommendation: recMeetingEngagement,
			DetectedAt:     detectedAt,
		})
	}

	// Rule 5: low composite health
	if m.TeamHealth.Score < 60 {
		severity := models.SeverityWarning
		if m.TeamHealth.Score < 40 {
			severity = models.SeverityCritical
		}
		alerts = append(alerts, models.Alert{
			Type:     models.AlertLowTeamHealth,
			Severity: severity,
			Description: fmt.Sprintf("Team health score is at %d/100 - multiple signals detected",
				m.TeamHealth.Score),
			Recommendation: recLowTeamHealth,
			DetectedAt:     detectedAt,
		})
	}

	return alerts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
