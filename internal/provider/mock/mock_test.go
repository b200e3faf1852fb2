package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalstack/healthsync/internal/provider"
)

func TestProvider_RequiresInitialize(t *testing.T) {
	p := New()

	_, err := p.ReadRecords(context.Background(), provider.RecordSteps, provider.TimeRange{})
	require.ErrorIs(t, err, provider.ErrNotInitialized)

	require.NoError(t, p.Initialize(context.Background()))
	require.NoError(t, p.RequestPermissions(context.Background(), []provider.Permission{
		provider.ReadPermission(provider.RecordSteps),
	}))
}

func TestProvider_DeterministicReads(t *testing.T) {
	p := New()
	require.NoError(t, p.Initialize(context.Background()))

	tr := provider.TimeRange{
		Start: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
	}

	first, err := p.ReadRecords(context.Background(), provider.RecordHeartRate, tr)
	require.NoError(t, err)
	second, err := p.ReadRecords(context.Background(), provider.RecordHeartRate, tr)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4, "one sample per 15 minutes")
	for _, rec := range first {
		require.Len(t, rec.Samples, 1)
		assert.Greater(t, rec.Samples[0].BeatsPerMinute, 0.0)
	}
}

func TestProvider_SleepSessionWithinDay(t *testing.T) {
	p := New()
	require.NoError(t, p.Initialize(context.Background()))

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tr := provider.TimeRange{Start: day, End: day.Add(24 * time.Hour)}

	records, err := p.ReadRecords(context.Background(), provider.RecordSleepSession, tr)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 7.5, records[0].EndTime.Sub(records[0].StartTime).Hours())
}
