package sync

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/provider"
)

type readCall struct {
	recordType provider.RecordType
	timeRange  provider.TimeRange
}

// fakeProvider answers reads via a configurable function and records every
// call in order.
type fakeProvider struct {
	mu      sync.Mutex
	initErr error
	permErr error
	read    func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error)
	calls   []readCall
}

func (f *fakeProvider) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeProvider) RequestPermissions(ctx context.Context, perms []provider.Permission) error {
	return f.permErr
}

func (f *fakeProvider) ReadRecords(ctx context.Context, rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, readCall{recordType: rt, timeRange: tr})
	f.mu.Unlock()

	if f.read == nil {
		return nil, nil
	}
	return f.read(rt, tr)
}

func (f *fakeProvider) readCalls() []readCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]readCall(nil), f.calls...)
}

func hrRecords(bpm ...float64) []provider.Record {
	var records []provider.Record
	for _, v := range bpm {
		records = append(records, provider.Record{
			Samples: []provider.HeartRateSample{{BeatsPerMinute: v}},
		})
	}
	return records
}

func newTestService(prov provider.HealthProvider, clk clock.Clock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := NewCoordinator(clk, DefaultIntervals())
	return NewService(prov, coord, clk, logger, RetryConfig{Delay: time.Minute, MaxRetries: 3})
}

// Wednesday 2024-06-05, 10:30 local.
func testClock() *clock.Manual {
	return clock.NewManual(time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC))
}

func TestSyncHourly_BucketMean(t *testing.T) {
	prov := &fakeProvider{
		read: func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
			if rt == provider.RecordHeartRate && tr.Start.Hour() == 9 {
				return hrRecords(60, 70, 80), nil
			}
			return nil, nil
		},
	}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncHourly(context.Background()))

	profile := svc.HourlyProfile()
	require.True(t, profile.Populated())
	assert.Equal(t, 70.0, profile.HeartRate[9])
	assert.Equal(t, "9:00", profile.Hours[9])
	assert.Equal(t, 0.0, profile.HeartRate[3], "empty bucket averages to zero, not an error")
	assert.Equal(t, "23:00", profile.Hours[23])
}

func TestSyncHourly_BucketsReadInIndexOrder(t *testing.T) {
	prov := &fakeProvider{}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncHourly(context.Background()))

	calls := prov.readCalls()
	require.Len(t, calls, domain.HoursInDay)
	for i, call := range calls {
		assert.Equal(t, i, call.timeRange.Start.Hour(), "bucket %d", i)
		assert.Equal(t, time.Hour, call.timeRange.End.Sub(call.timeRange.Start))
	}
}

func TestSyncHourly_PermissionDeniedKeepsPriorData(t *testing.T) {
	prov := &fakeProvider{
		read: func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
			return hrRecords(65), nil
		},
	}
	clk := testClock()
	svc := newTestService(prov, clk)

	require.True(t, svc.SyncHourly(context.Background()))
	before := svc.HourlyProfile()
	require.True(t, before.Populated())

	prov.permErr = provider.ErrPermissionDenied
	clk.Advance(61 * time.Minute)

	require.True(t, svc.SyncHourly(context.Background()), "pass starts, then aborts on permissions")
	assert.Equal(t, before, svc.HourlyProfile(), "failed pass leaves published data untouched")
}

func TestSyncHourly_SuppressedInsideInterval(t *testing.T) {
	prov := &fakeProvider{}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncHourly(context.Background()))
	assert.False(t, svc.SyncHourly(context.Background()), "second call inside the hourly interval is suppressed")
	assert.Len(t, prov.readCalls(), domain.HoursInDay, "no reads past the first pass")
}

func TestSyncWeekly_MondayAnchorAndSums(t *testing.T) {
	prov := &fakeProvider{
		read: func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
			switch rt {
			case provider.RecordHeartRate:
				return hrRecords(62, 64), nil
			case provider.RecordSteps:
				return []provider.Record{{Count: 1200}, {Count: 800}}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncWeekly(context.Background()))

	profile := svc.WeeklyProfile()
	require.True(t, profile.Populated())
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, profile.Days)
	for i := 0; i < domain.DaysInWeek; i++ {
		assert.Equal(t, 63.0, profile.HeartRate[i])
		assert.Equal(t, 2000, profile.Steps[i])
	}

	// First bucket is the Monday of the current week (now is Wednesday).
	calls := prov.readCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), calls[0].timeRange.Start)
}

func TestMondayOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "wednesday",
			now:  time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC),
			want: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday stays put",
			now:  time.Date(2024, 6, 3, 0, 0, 1, 0, time.UTC),
			want: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the preceding monday",
			now:  time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC),
			want: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mondayOfWeek(tt.now))
		})
	}
}

func TestSyncWeekly_RateLimitRetries(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	attempts := 0
	prov := &fakeProvider{}
	prov.read = func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
		// Rate-limit the first two passes on their first bucket read.
		if rt == provider.RecordHeartRate && tr.Start.Equal(monday) {
			attempts++
			if attempts <= 2 {
				return nil, provider.ErrRateLimited
			}
		}
		return nil, nil
	}

	clk := testClock()
	svc := newTestService(prov, clk)

	require.True(t, svc.SyncWeekly(context.Background()))
	assert.False(t, svc.WeeklyProfile().Populated(), "first pass abandoned")
	require.Len(t, clk.Pending(), 1, "one retry scheduled at the fixed delay")

	clk.Advance(time.Minute)
	require.Len(t, clk.Pending(), 1, "second rate limit schedules one more retry")

	clk.Advance(time.Minute)
	assert.True(t, svc.WeeklyProfile().Populated(), "third attempt completes normally")
	assert.Empty(t, clk.Pending())
	assert.Equal(t, 0, svc.weeklyRetries, "counter reset after success")
	assert.Equal(t, 3, attempts, "two rate-limited attempts, then the successful one")
}

func TestSyncWeekly_RetriesExhausted(t *testing.T) {
	prov := &fakeProvider{}
	prov.read = func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
		return nil, provider.ErrRateLimited
	}

	clk := testClock()
	svc := newTestService(prov, clk)

	require.True(t, svc.SyncWeekly(context.Background()))
	for i := 0; i < 3; i++ {
		clk.Advance(time.Minute)
	}

	assert.Empty(t, clk.Pending(), "no retry past the cap")
	assert.Equal(t, 0, svc.weeklyRetries, "counter reset for the next natural cycle")
	assert.False(t, svc.WeeklyProfile().Populated())
}

func TestRetryCountersAreIndependent(t *testing.T) {
	prov := &fakeProvider{}
	prov.read = func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
		return nil, provider.ErrRateLimited
	}

	clk := testClock()
	svc := newTestService(prov, clk)

	require.True(t, svc.SyncHourly(context.Background()))
	require.True(t, svc.SyncWeekly(context.Background()))

	svc.mu.Lock()
	hourly, weekly := svc.hourlyRetries, svc.weeklyRetries
	svc.mu.Unlock()

	assert.Equal(t, 1, hourly)
	assert.Equal(t, 1, weekly)
}

func TestSyncDaily_SnapshotReduction(t *testing.T) {
	sleepStart := time.Date(2024, 6, 4, 23, 0, 0, 0, time.UTC)
	prov := &fakeProvider{
		read: func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
			// Hour-sized sibling reads see no data.
			if tr.End.Sub(tr.Start) < 23*time.Hour {
				return nil, nil
			}
			switch rt {
			case provider.RecordSteps:
				return []provider.Record{{Count: 4000}, {Count: 2500}}, nil
			case provider.RecordActiveCalories:
				return []provider.Record{
					{Energy: provider.Energy{InCalories: 120.5}},
					{Energy: provider.Energy{InCalories: 80.25}},
				}, nil
			case provider.RecordHeartRate:
				return hrRecords(70, 75, 82), nil
			case provider.RecordBloodGlucose:
				return []provider.Record{
					{Level: provider.GlucoseLevel{InMilligramsPerDeciliter: 92}},
					{Level: provider.GlucoseLevel{InMilligramsPerDeciliter: 101}},
				}, nil
			case provider.RecordSleepSession:
				return []provider.Record{{
					StartTime: sleepStart,
					EndTime:   sleepStart.Add(7*time.Hour + 20*time.Minute),
				}}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncDaily(context.Background()))

	snap := svc.Snapshot()
	assert.Equal(t, 6500, snap.Steps)
	assert.Equal(t, 200.75, snap.CaloriesBurned)
	assert.Equal(t, 82, snap.HeartRate, "chronologically last sample wins")
	assert.Equal(t, 101.0, snap.GlucoseLevel)
	assert.Equal(t, domain.GlucoseUnitMgPerDL, snap.GlucoseUnit)
	assert.Equal(t, 7.33, snap.SleepHours)
}

func TestSyncDaily_TriggersSiblingAggregators(t *testing.T) {
	prov := &fakeProvider{}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncDaily(context.Background()))

	assert.True(t, svc.HourlyProfile().Populated(), "daily pass ran the hourly aggregator through its gate")
	assert.True(t, svc.WeeklyProfile().Populated(), "daily pass ran the weekly aggregator through its gate")

	// An immediate second daily sync is fully suppressed.
	before := len(prov.readCalls())
	assert.False(t, svc.SyncDaily(context.Background()))
	assert.Equal(t, before, len(prov.readCalls()))
}

func TestSyncDaily_GlucoseUnitFallback(t *testing.T) {
	prov := &fakeProvider{
		read: func(rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
			if rt == provider.RecordBloodGlucose && tr.End.Sub(tr.Start) > 23*time.Hour {
				return []provider.Record{{Level: provider.GlucoseLevel{InMillimolesPerLiter: 5.4}}}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(prov, testClock())

	require.True(t, svc.SyncDaily(context.Background()))

	snap := svc.Snapshot()
	assert.Equal(t, 5.4, snap.GlucoseLevel)
	assert.Equal(t, domain.GlucoseUnitMmolPerL, snap.GlucoseUnit)
}
