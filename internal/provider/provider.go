// Package provider defines the contract for on-device health-data sources.
package provider

import (
	"context"
	"time"
)

// RecordType identifies a kind of health record.
type RecordType string

const (
	RecordSteps          RecordType = "Steps"
	RecordActiveCalories RecordType = "ActiveCaloriesBurned"
	RecordHeartRate      RecordType = "HeartRate"
	RecordBloodGlucose   RecordType = "BloodGlucose"
	RecordSleepSession   RecordType = "SleepSession"
)

// AccessType is the kind of access requested for a record type.
type AccessType string

const AccessRead AccessType = "read"

// Permission pairs an access type with a record type.
type Permission struct {
	Access AccessType `json:"accessType"`
	Record RecordType `json:"recordType"`
}

// ReadPermission builds a read permission for a record type.
func ReadPermission(rt RecordType) Permission {
	return Permission{Access: AccessRead, Record: rt}
}

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// HeartRateSample is one instantaneous heart-rate measurement.
type HeartRateSample struct {
	BeatsPerMinute float64   `json:"beatsPerMinute"`
	Time           time.Time `json:"time,omitempty"`
}

// Energy is an energy amount attached to a calories record.
type Energy struct {
	InCalories float64 `json:"inCalories"`
}

// GlucoseLevel carries a blood-glucose measurement in both units the
// provider may report. Only one of the two is typically set.
type GlucoseLevel struct {
	InMilligramsPerDeciliter float64 `json:"inMilligramsPerDeciliter,omitempty"`
	InMillimolesPerLiter     float64 `json:"inMillimolesPerLiter,omitempty"`
}

// Record is one provider record. Which fields are meaningful depends on the
// record type it was read as.
type Record struct {
	Time      time.Time         `json:"time,omitempty"`
	Count     int               `json:"count,omitempty"`
	Energy    Energy            `json:"energy,omitempty"`
	Samples   []HeartRateSample `json:"samples,omitempty"`
	Level     GlucoseLevel      `json:"level,omitempty"`
	StartTime time.Time         `json:"startTime,omitempty"`
	EndTime   time.Time         `json:"endTime,omitempty"`
}

// HealthProvider is the on-device health-data source consumed by the
// aggregators.
type HealthProvider interface {
	// Initialize prepares the provider for reads.
	Initialize(ctx context.Context) error

	// RequestPermissions asks the provider for access to the given record
	// types. An error means at least one permission was denied.
	RequestPermissions(ctx context.Context, perms []Permission) error

	// ReadRecords returns all records of the given type within the range,
	// in chronological order.
	ReadRecords(ctx context.Context, rt RecordType, tr TimeRange) ([]Record, error)
}
