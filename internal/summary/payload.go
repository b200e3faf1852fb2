// Package summary assembles and submits the once-per-day summary payload.
package summary

import (
	"time"

	"github.com/vitalstack/healthsync/internal/domain"
)

// HourPoint is one hourly heart-rate value in the payload.
type HourPoint struct {
	Hour  string  `json:"hour"`
	Value float64 `json:"value"`
}

// DayPoint is one per-day float value in the payload.
type DayPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// DayCount is one per-day integer value in the payload.
type DayCount struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// Totals is the summary block of the payload. Field names follow the remote
// contract; heart rate and glucose carry the day's latest reading.
type Totals struct {
	AverageHeartRate    float64 `json:"averageHeartRate"`
	TotalSteps          int     `json:"totalSteps"`
	TotalCaloriesBurned float64 `json:"totalCaloriesBurned"`
	AverageGlucoseLevel float64 `json:"averageGlucoseLevel"`
	TotalSleepHours     float64 `json:"totalSleepHours"`
	ActivityLevel       string  `json:"activityLevel"`
}

// Payload is the daily summary sent to the remote service.
type Payload struct {
	UserID          string      `json:"userId"`
	Date            string      `json:"date"`
	Summary         Totals      `json:"summary"`
	HourlyHeartRate []HourPoint `json:"hourlyHeartRate"`
	WeeklyHeartRate []DayPoint  `json:"weeklyHeartRate"`
	WeeklySteps     []DayCount  `json:"weeklySteps"`
}

// BuildPayload assembles the payload from the current in-memory state.
func BuildPayload(userID string, now time.Time, snap domain.HealthSnapshot, hourly domain.HourlyProfile, weekly domain.WeeklyProfile) Payload {
	p := Payload{
		UserID: userID,
		Date:   now.Format(time.RFC3339),
		Summary: Totals{
			AverageHeartRate:    float64(snap.HeartRate),
			TotalSteps:          snap.Steps,
			TotalCaloriesBurned: snap.CaloriesBurned,
			AverageGlucoseLevel: snap.GlucoseLevel,
			TotalSleepHours:     snap.SleepHours,
			ActivityLevel:       domain.ActivityLevel(snap.Steps),
		},
	}

	for i, v := range hourly.HeartRate {
		p.HourlyHeartRate = append(p.HourlyHeartRate, HourPoint{Hour: hourly.Hours[i], Value: v})
	}
	for i, v := range weekly.HeartRate {
		p.WeeklyHeartRate = append(p.WeeklyHeartRate, DayPoint{Day: weekly.Days[i], Value: v})
	}
	for i, v := range weekly.Steps {
		p.WeeklySteps = append(p.WeeklySteps, DayCount{Day: weekly.Days[i], Value: v})
	}
	return p
}
