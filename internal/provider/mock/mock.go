// Package mock implements provider.HealthProvider with deterministic
// generated data for development and tests.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/vitalstack/healthsync/internal/provider"
)

// Provider generates plausible health records without a device. Values are a
// pure function of the requested range, so repeated reads are stable.
type Provider struct {
	mu          sync.Mutex
	initialized bool
}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	return nil
}

func (p *Provider) RequestPermissions(ctx context.Context, perms []provider.Permission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return provider.ErrNotInitialized
	}
	return nil
}

func (p *Provider) ReadRecords(ctx context.Context, rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
	p.mu.Lock()
	initialized := p.initialized
	p.mu.Unlock()

	if !initialized {
		return nil, provider.ErrNotInitialized
	}

	switch rt {
	case provider.RecordHeartRate:
		return heartRateRecords(tr), nil
	case provider.RecordSteps:
		return stepsRecords(tr), nil
	case provider.RecordActiveCalories:
		return caloriesRecords(tr), nil
	case provider.RecordBloodGlucose:
		return glucoseRecords(tr), nil
	case provider.RecordSleepSession:
		return sleepRecords(tr), nil
	default:
		return nil, nil
	}
}

// heartRateRecords emits one sample every 15 minutes, drifting with the hour
// of day so hourly averages differ bucket to bucket.
func heartRateRecords(tr provider.TimeRange) []provider.Record {
	var records []provider.Record
	for t := tr.Start; t.Before(tr.End); t = t.Add(15 * time.Minute) {
		bpm := 58 + float64((t.Hour()*7+t.Minute()/15)%32)
		records = append(records, provider.Record{
			Time:    t,
			Samples: []provider.HeartRateSample{{BeatsPerMinute: bpm, Time: t}},
		})
	}
	return records
}

func stepsRecords(tr provider.TimeRange) []provider.Record {
	var records []provider.Record
	for t := tr.Start; t.Before(tr.End); t = t.Add(time.Hour) {
		count := 0
		if h := t.Hour(); h >= 7 && h <= 21 {
			count = 350 + (h*137)%400
		}
		records = append(records, provider.Record{Time: t, Count: count})
	}
	return records
}

func caloriesRecords(tr provider.TimeRange) []provider.Record {
	var records []provider.Record
	for t := tr.Start; t.Before(tr.End); t = t.Add(time.Hour) {
		records = append(records, provider.Record{
			Time:   t,
			Energy: provider.Energy{InCalories: 35 + float64((t.Hour()*11)%50)},
		})
	}
	return records
}

func glucoseRecords(tr provider.TimeRange) []provider.Record {
	// One morning and one evening reading, mg/dL.
	var records []provider.Record
	for _, hour := range []int{8, 19} {
		t := time.Date(tr.Start.Year(), tr.Start.Month(), tr.Start.Day(), hour, 0, 0, 0, tr.Start.Location())
		if t.Before(tr.Start) || !t.Before(tr.End) {
			continue
		}
		records = append(records, provider.Record{
			Time:  t,
			Level: provider.GlucoseLevel{InMilligramsPerDeciliter: 88 + float64(hour)},
		})
	}
	return records
}

func sleepRecords(tr provider.TimeRange) []provider.Record {
	// One session ending at 06:30 of the range's first day.
	end := time.Date(tr.Start.Year(), tr.Start.Month(), tr.Start.Day(), 6, 30, 0, 0, tr.Start.Location())
	if end.Before(tr.Start) || end.After(tr.End) {
		return nil
	}
	return []provider.Record{{
		StartTime: end.Add(-7*time.Hour - 30*time.Minute),
		EndTime:   end,
	}}
}
