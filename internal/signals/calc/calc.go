// Package calc computes the team-level metrics bundle from two windows of
// signal events. Everything here is pure: no clock, no I/O, no stored state,
// so identical inputs always produce identical bundles.
package calc

import (
	"math"

	"teampulse/internal/signals/models"
)

// Activity weights for the communication trend. A window full of "low"
// events averages 0.5, all "normal" averages 1.0.
const (
	weightLow    = 0.5
	weightNormal = 1.0
	weightHigh   = 1.5
)

// Compute derives the full metrics bundle from the current and baseline
// windows. Empty windows are valid input: every division is guarded with a
// max(count,1) denominator, which deliberately reads "no baseline data" as a
// zero baseline rather than refusing to compare.
func Compute(current, baseline []models.SignalEvent) models.MetricsBundle {
	att := attendanceFacts(current)
	baseAtt := attendanceFacts(baseline)

	shift := att.meanLogin - baseAtt.meanLogin

	clustered := clusteredLeaveCount(current)

	comm := communicationFacts(current)
	baseComm := communicationFacts(baseline)
	commChange := 0.0
	if baseComm.weightedAvg > 0 {
		commChange = (comm.weightedAvg - baseComm.weightedAvg) / baseComm.weightedAvg * 100
	}

	meet := meetingFacts(current)
	baseMeet := meetingFacts(baseline)
	meetingChange := meet.acceptanceRate - baseMeet.acceptanceRate

	return models.MetricsBundle{
		LoginTimeShift: models.LoginTimeShift{
			Value:        round(shift),
			PreviousMean: round(baseAtt.meanLogin),
			Trend:        trendOf(shift),
		},
		AttendanceVariability: models.AttendanceVariability{
			Coefficient: math.Round(populationStdDev(att.loginMinutes)*10) / 10,
			Change:      round((att.lateRate - baseAtt.lateRate) * 100),
			IsElevated:  float64(att.lateCount) > float64(baseAtt.lateCount)*1.3,
		},
		LeaveClustering: models.LeaveClustering{
			Score:         min(clustered*20, 100),
			ClusteredDays: ceilDiv(clustered, 2),
			AffectedCount: affectedCount(clustered, len(current)),
		},
		CommunicationTrend: models.CommunicationTrend{
			ActivityChange: round(commChange),
			CurrentLevel:   currentLevel(comm),
			PreviousLevel:  previousLevel(baseComm),
		},
		MeetingEngagement: models.MeetingEngagement{
			AcceptanceRate: round(meet.acceptanceRate),
			DeclineRate:    round(meet.declineRate),
			NoResponseRate: round(meet.noResponseRate),
			Change:         round(meetingChange),
		},
		TeamHealth: models.TeamHealth{
			Score:   healthScore(att.lateCount, clustered, commChange, meet.acceptanceRate),
			Signals: signalTags(shift, att.lateCount, clustered, commChange, meetingChange),
		},
	}
}

type attendance struct {
	loginMinutes []float64
	meanLogin    float64
	lateCount    int
	lateRate     float64
}

func attendanceFacts(events []models.SignalEvent) attendance {
	var facts attendance
	sum := 0.0
	for _, e := range events {
		if e.Attendance == nil {
			continue
		}
		facts.loginMinutes = append(facts.loginMinutes, float64(e.Attendance.LoginMinutes))
		sum += float64(e.Attendance.LoginMinutes)
		if e.Attendance.IsLate {
			facts.lateCount++
		}
	}
	n := len(facts.loginMinutes)
	if n > 0 {
		facts.meanLogin = sum / float64(n)
	}
	facts.lateRate = float64(facts.lateCount) / float64(max(n, 1))
	return facts
}

func clusteredLeaveCount(events []models.SignalEvent) int {
	count := 0
	for _, e := range events {
		if e.Leave != nil && e.Leave.Class == models.LeaveClustered {
			count++
		}
	}
	return count
}

type communication struct {
	low, normal, high int
	weightedAvg       float64
}

// communicationFacts weights activity levels and averages over the whole
// window's event count, not just communication events. That matches the
// upstream definition of the metric: quiet teams with busy calendars still
// read as low communication.
func communicationFacts(events []models.SignalEvent) communication {
	var facts communication
	for _, e := range events {
		if e.Communication == nil {
			continue
		}
		switch e.Communication.Level {
		case models.ActivityLow:
			facts.low++
		case models.ActivityNormal:
			facts.normal++
		case models.ActivityHigh:
			facts.high++
		}
	}
	weighted := float64(facts.low)*weightLow + float64(facts.normal)*weightNormal + float64(facts.high)*weightHigh
	facts.weightedAvg = weighted / float64(max(len(events), 1))
	return facts
}

func currentLevel(c communication) models.ActivityLevel {
	if c.low > c.normal && c.low > c.high {
		return models.ActivityLow
	}
	if c.high > c.normal {
		return models.ActivityHigh
	}
	return models.ActivityNormal
}

// previousLevel keeps the looser baseline rule: low wins over normal without
// being compared against high. Downstream consumers only use it for display.
func previousLevel(c communication) models.ActivityLevel {
	if c.low > c.normal {
		return models.ActivityLow
	}
	if c.high > c.normal {
		return models.ActivityHigh
	}
	return models.ActivityNormal
}

type meetings struct {
	accepts, declines, noResponses              int
	acceptanceRate, declineRate, noResponseRate float64
}

func meetingFacts(events []models.SignalEvent) meetings {
	var facts meetings
	for _, e := range events {
		if e.Meeting == nil {
			continue
		}
		switch e.Meeting.Type {
		case models.MeetingAccept:
			facts.accepts++
		case models.MeetingDecline:
			facts.declines++
		case models.MeetingNoResponse:
			facts.noResponses++
		}
	}
	total := float64(max(facts.accepts+facts.declines+facts.noResponses, 1))
	facts.acceptanceRate = float64(facts.accepts) / total * 100
	facts.declineRate = float64(facts.declines) / total * 100
	facts.noResponseRate = float64(facts.noResponses) / total * 100
	return facts
}

func trendOf(shift float64) models.TrendDirection {
	switch {
	case shift > 15:
		return models.TrendUp
	case shift < -15:
		return models.TrendDown
	}
	return models.TrendStable
}

// healthScore averages four factors. The communication factor is only
// neutralized for drops shallower than -20%; a deeper drop feeds through
// unclamped, so the composite can fall below zero on extreme input. That is
// intentional and callers must not assume [0,100].
func healthScore(lateCount, clustered int, commChange, acceptanceRate float64) int {
	attendanceFactor := 100 - math.Min(float64(lateCount)*5, 50)
	leaveFactor := 100 - math.Min(float64(clustered)*10, 30)
	commFactor := 100.0
	if commChange <= -20 {
		commFactor = 100 + commChange
	}
	engagementFactor := math.Max(50, acceptanceRate)
	return round((attendanceFactor + leaveFactor + commFactor + engagementFactor) / 4)
}

// signalTags derives plain-language tags from the raw (unrounded) deltas.
func signalTags(shift float64, lateCount, clustered int, commChange, meetingChange float64) []string {
	tags := []string{}

	if math.Abs(shift) > 30 {
		if shift > 0 {
			tags = append(tags, "Shifted login times")
		} else {
			tags = append(tags, "Earlier login pattern")
		}
	}
	if lateCount > 5 {
		tags = append(tags, "Increased late arrivals")
	}
	if clustered > 2 {
		tags = append(tags, "Leave request clustering")
	}
	if commChange < -25 {
		tags = append(tags, "Communication declining")
	}
	if meetingChange < -15 {
		tags = append(tags, "Lower meeting engagement")
	}

	return tags
}

// affectedCount applies the anonymization floor: once any clustering exists
// the reported headcount is at least 3 (bounded by the clustered count), so a
// lone clustered pair cannot be singled out. A heuristic, not formal
// k-anonymity; reproduce, do not strengthen.
func affectedCount(clustered, totalEvents int) int {
	return min(clustered, max(3, ceilDiv(totalEvents, 10)))
}

// populationStdDev returns sqrt(mean squared deviation) with divisor n.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// round rounds halves toward positive infinity, so -30.5 becomes -30
// rather than -31. Threshold comparisons on rounded values depend on it.
func round(v float64) int { return int(math.Floor(v + 0.5)) }

func ceilDiv(a, b int) int { return (a + b - 1) / b }
