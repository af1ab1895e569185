package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teampulse/internal/signals/models"
)

var detectedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// healthyBundle triggers no rules; tests mutate single fields from here.
func healthyBundle() models.MetricsBundle {
	return models.MetricsBundle{
		LoginTimeShift:     models.LoginTimeShift{Value: 0, Trend: models.TrendStable},
		LeaveClustering:    models.LeaveClustering{Score: 0},
		CommunicationTrend: models.CommunicationTrend{ActivityChange: 0},
		MeetingEngagement:  models.MeetingEngagement{AcceptanceRate: 90, Change: 0},
		TeamHealth:         models.TeamHealth{Score: 88, Signals: []string{}},
	}
}

func TestDetect_HealthyTeamEmitsNothing(t *testing.T) {
	alerts := Detect(healthyBundle(), detectedAt)
	assert.Empty(t, alerts)
	assert.NotNil(t, alerts, "empty, not nil, so it serializes as []")
}

func TestDetect_AttendanceShift(t *testing.T) {
	t.Run("within threshold stays silent", func(t *testing.T) {
		m := healthyBundle()
		m.LoginTimeShift.Value = 30
		assert.Empty(t, Detect(m, detectedAt))
	})

	t.Run("late shift over 30 warns", func(t *testing.T) {
		m := healthyBundle()
		m.LoginTimeShift.Value = 40
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.AlertAttendanceShift, alerts[0].Type)
		assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
		assert.Equal(t, "Your team's average login time shifted 40 minutes later this month", alerts[0].Description)
		assert.Equal(t, detectedAt, alerts[0].DetectedAt)
	})

	t.Run("late shift over 45 is critical", func(t *testing.T) {
		m := healthyBundle()
		m.LoginTimeShift.Value = 60
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	})

	t.Run("early shift of the same size never escalates", func(t *testing.T) {
		// The critical check reads the signed value, so -60 stays a warning.
		m := healthyBundle()
		m.LoginTimeShift.Value = -60
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
		assert.Equal(t, "Your team's average login time shifted 60 minutes earlier this month", alerts[0].Description)
	})
}

func TestDetect_LeaveClustering(t *testing.T) {
	t.Run("score over 40 warns with affected count", func(t *testing.T) {
		m := healthyBundle()
		m.LeaveClustering = models.LeaveClustering{Score: 60, ClusteredDays: 2, AffectedCount: 3}
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.AlertLeaveClustering, alerts[0].Type)
		assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
		assert.Equal(t, "Unusual leave concentration detected: 3+ people requested leave on the same days", alerts[0].Description)
	})

	t.Run("score over 70 is critical", func(t *testing.T) {
		m := healthyBundle()
		m.LeaveClustering = models.LeaveClustering{Score: 100, ClusteredDays: 3, AffectedCount: 3}
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	})
}

func TestDetect_CommunicationDrop(t *testing.T) {
	t.Run("change below -25 warns", func(t *testing.T) {
		m := healthyBundle()
		m.CommunicationTrend.ActivityChange = -33
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.AlertCommunicationDrop, alerts[0].Type)
		assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
		assert.Equal(t, "Team communication activity dropped 33% compared to baseline", alerts[0].Description)
	})

	t.Run("change below -40 is critical", func(t *testing.T) {
		m := healthyBundle()
		m.CommunicationTrend.ActivityChange = -55
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	})
}

func TestDetect_MeetingEngagementNeverCritical(t *testing.T) {
	m := healthyBundle()
	m.MeetingEngagement.Change = -80
	alerts := Detect(m, detectedAt)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertMeetingEngagementDrop, alerts[0].Type)
	assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
	assert.Equal(t, "Meeting acceptance rate declined by 80%", alerts[0].Description)
}

func TestDetect_LowTeamHealth(t *testing.T) {
	t.Run("below 60 warns", func(t *testing.T) {
		m := healthyBundle()
		m.TeamHealth.Score = 55
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.AlertLowTeamHealth, alerts[0].Type)
		assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
		assert.Equal(t, "Team health score is at 55/100 - multiple signals detected", alerts[0].Description)
	})

	t.Run("below 40 is critical", func(t *testing.T) {
		m := healthyBundle()
		m.TeamHealth.Score = 30
		alerts := Detect(m, detectedAt)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	})
}

// TestDetect_FixedRuleOrder pins the evaluation order so downstream
// consumers see a deterministic alert list.
func TestDetect_FixedRuleOrder(t *testing.T) {
	m := models.MetricsBundle{
		LoginTimeShift:     models.LoginTimeShift{Value: 60},
		LeaveClustering:    models.LeaveClustering{Score: 100, AffectedCount: 3},
		CommunicationTrend: models.CommunicationTrend{ActivityChange: -50},
		MeetingEngagement:  models.MeetingEngagement{Change: -30},
		TeamHealth:         models.TeamHealth{Score: 20},
	}

	alerts := Detect(m, detectedAt)
	require.Len(t, alerts, 5)
	assert.Equal(t, models.AlertAttendanceShift, alerts[0].Type)
	assert.Equal(t, models.AlertLeaveClustering, alerts[1].Type)
	assert.Equal(t, models.AlertCommunicationDrop, alerts[2].Type)
	assert.Equal(t, models.AlertMeetingEngagementDrop, alerts[3].Type)
	assert.Equal(t, models.AlertLowTeamHealth, alerts[4].Type)

	for _, alert := range alerts {
		assert.NotEmpty(t, alert.Recommendation)
		assert.Equal(t, detectedAt, alert.DetectedAt)
	}
}
