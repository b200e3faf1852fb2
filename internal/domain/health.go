package domain

// Glucose units as reported by the provider. The stored GlucoseLevel value is
// not self-describing, so the snapshot carries the unit alongside it.
const (
	GlucoseUnitMgPerDL  = "mg/dL"
	GlucoseUnitMmolPerL = "mmol/L"
)

// HealthSnapshot holds "today so far". Zero-valued at startup and rehydrated
// by the daily aggregation pass.
type HealthSnapshot struct {
	Steps          int     `json:"steps"`
	CaloriesBurned float64 `json:"calories_burned"`
	HeartRate      int     `json:"heart_rate"`
	GlucoseLevel   float64 `json:"glucose_level"`
	GlucoseUnit    string  `json:"glucose_unit,omitempty"`
	SleepHours     float64 `json:"sleep_hours"`
}

// HourlyProfile holds one heart-rate average per hour of the current day.
// Both slices are either empty or fully populated with 24 entries; index i in
// both refers to the same hour-of-day bucket.
type HourlyProfile struct {
	HeartRate []float64 `json:"hourly_heart_rate"`
	Hours     []string  `json:"hours"`
}

// HoursInDay is the bucket count of a full hourly profile.
const HoursInDay = 24

// Populated reports whether the profile carries a full day of buckets.
func (p HourlyProfile) Populated() bool {
	return len(p.HeartRate) == HoursInDay && len(p.Hours) == HoursInDay
}

// WeeklyProfile holds per-day heart-rate averages and step totals for the
// current week, Monday first. All three slices are either empty or hold 7
// entries; index i refers to the same calendar day in each.
type WeeklyProfile struct {
	HeartRate []float64 `json:"weekly_heart_rate"`
	Steps     []int     `json:"weekly_steps"`
	Days      []string  `json:"week_days"`
}

// DaysInWeek is the bucket count of a full weekly profile.
const DaysInWeek = 7

// Populated reports whether the profile carries a full week of buckets.
func (p WeeklyProfile) Populated() bool {
	return len(p.HeartRate) == DaysInWeek && len(p.Steps) == DaysInWeek && len(p.Days) == DaysInWeek
}

// Activity levels derived from the daily step total.
const (
	ActivityNotVeryActive = "Not Very Active"
	ActivityLightlyActive = "Lightly Active"
	ActivityActive        = "Active"
	ActivityVeryActive    = "Very Active"
)

// ActivityLevel maps a daily step total to its activity classification.
func ActivityLevel(steps int) string {
	switch {
	case steps < 5000:
		return ActivityNotVeryActive
	case steps < 7500:
		return ActivityLightlyActive
	case steps < 10000:
		return ActivityActive
	default:
		return ActivityVeryActive
	}
}
