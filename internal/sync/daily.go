package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/provider"
)

// SyncDaily refreshes today's snapshot if the coordinator allows it. It
// first gives the weekly and hourly aggregators a chance to run through
// their own guards, then performs the daily reads. Reports whether the daily
// pass itself was started.
func (s *Service) SyncDaily(ctx context.Context) bool {
	// Composition, not duplication: each sibling pass still goes through
	// its own gate and keeps its own retry budget.
	s.SyncWeekly(ctx)
	s.SyncHourly(ctx)

	if !s.coord.BeginFetch(CategoryDaily) {
		s.logger.Debug("daily fetch suppressed", "category", CategoryDaily)
		return false
	}

	err := s.dailyPass(ctx)
	s.coord.EndFetch(CategoryDaily, err == nil)
	if err != nil {
		s.handlePassError(CategoryDaily, err)
	}
	return true
}

// dailyPass reads and reduces today's records into the snapshot: step and
// calorie sums, latest heart-rate and glucose readings, total sleep hours.
func (s *Service) dailyPass(ctx context.Context) error {
	if err := s.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	if err := s.provider.RequestPermissions(ctx, []provider.Permission{
		provider.ReadPermission(provider.RecordSteps),
		provider.ReadPermission(provider.RecordActiveCalories),
		provider.ReadPermission(provider.RecordHeartRate),
		provider.ReadPermission(provider.RecordBloodGlucose),
		provider.ReadPermission(provider.RecordSleepSession),
	}); err != nil {
		return fmt.Errorf("request permissions: %w", err)
	}

	dayStart := s.localDayStart()
	today := provider.TimeRange{
		Start: dayStart,
		End:   dayStart.Add(24*time.Hour - time.Millisecond),
	}

	var snap domain.HealthSnapshot

	stepRecords, err := s.provider.ReadRecords(ctx, provider.RecordSteps, today)
	if err != nil {
		return fmt.Errorf("read steps: %w", err)
	}
	snap.Steps = sumSteps(stepRecords)

	calorieRecords, err := s.provider.ReadRecords(ctx, provider.RecordActiveCalories, today)
	if err != nil {
		return fmt.Errorf("read calories: %w", err)
	}
	for _, rec := range calorieRecords {
		snap.CaloriesBurned += rec.Energy.InCalories
	}

	hrRecords, err := s.provider.ReadRecords(ctx, provider.RecordHeartRate, today)
	if err != nil {
		return fmt.Errorf("read heart rate: %w", err)
	}
	snap.HeartRate = latestHeartRate(hrRecords)

	glucoseRecords, err := s.provider.ReadRecords(ctx, provider.RecordBloodGlucose, today)
	if err != nil {
		return fmt.Errorf("read glucose: %w", err)
	}
	snap.GlucoseLevel, snap.GlucoseUnit = latestGlucose(glucoseRecords)

	sleepRecords, err := s.provider.ReadRecords(ctx, provider.RecordSleepSession, today)
	if err != nil {
		return fmt.Errorf("read sleep: %w", err)
	}
	var sleep float64
	for _, rec := range sleepRecords {
		sleep += rec.EndTime.Sub(rec.StartTime).Hours()
	}
	snap.SleepHours = round2(sleep)

	s.publishSnapshot(snap)
	s.logger.Info("daily snapshot updated",
		"steps", snap.Steps,
		"heart_rate", snap.HeartRate,
		"sleep_hours", snap.SleepHours,
	)
	return nil
}

// latestHeartRate returns the instantaneous sample of the chronologically
// last record, 0 if there is none.
func latestHeartRate(records []provider.Record) int {
	for i := len(records) - 1; i >= 0; i-- {
		if len(records[i].Samples) > 0 {
			return int(records[i].Samples[len(records[i].Samples)-1].BeatsPerMinute)
		}
	}
	return 0
}

// latestGlucose returns the chronologically last glucose reading, preferring
// mg/dL over mmol/L, tagged with the unit it was read in.
func latestGlucose(records []provider.Record) (float64, string) {
	if len(records) == 0 {
		return 0, ""
	}
	level := records[len(records)-1].Level
	if level.InMilligramsPerDeciliter > 0 {
		return level.InMilligramsPerDeciliter, domain.GlucoseUnitMgPerDL
	}
	if level.InMillimolesPerLiter > 0 {
		return level.InMillimolesPerLiter, domain.GlucoseUnitMmolPerL
	}
	return 0, ""
}
