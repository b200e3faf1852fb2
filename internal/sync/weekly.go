package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/provider"
)

// SyncWeekly runs the weekly aggregation if the coordinator allows it. It
// reports whether a pass was started.
func (s *Service) SyncWeekly(ctx context.Context) bool {
	if !s.coord.BeginFetch(CategoryWeekly) {
		s.logger.Debug("weekly fetch suppressed", "category", CategoryWeekly)
		return false
	}
	s.runWeekly(ctx)
	return true
}

func (s *Service) runWeekly(ctx context.Context) {
	err := s.weeklyPass(ctx)
	s.coord.EndFetch(CategoryWeekly, err == nil)
	if err == nil {
		s.resetRetries(CategoryWeekly)
		return
	}
	s.handlePassError(CategoryWeekly, err)
}

// mondayOfWeek returns local midnight of the Monday of the week containing t.
func mondayOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// weeklyPass reads heart-rate and step records for each calendar day of the
// current week, Monday first, and publishes all three 7-bucket sequences
// atomically.
func (s *Service) weeklyPass(ctx context.Context) error {
	if err := s.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	if err := s.provider.RequestPermissions(ctx, []provider.Permission{
		provider.ReadPermission(provider.RecordHeartRate),
		provider.ReadPermission(provider.RecordSteps),
	}); err != nil {
		return fmt.Errorf("request permissions: %w", err)
	}

	monday := mondayOfWeek(s.clk.Now())
	rates := make([]float64, 0, domain.DaysInWeek)
	steps := make([]int, 0, domain.DaysInWeek)
	days := make([]string, 0, domain.DaysInWeek)

	for i := 0; i < domain.DaysInWeek; i++ {
		dayStart := monday.AddDate(0, 0, i)
		bucket := provider.TimeRange{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

		hrRecords, err := s.provider.ReadRecords(ctx, provider.RecordHeartRate, bucket)
		if err != nil {
			return fmt.Errorf("read heart rate for %s: %w", dayStart.Format("2006-01-02"), err)
		}
		stepRecords, err := s.provider.ReadRecords(ctx, provider.RecordSteps, bucket)
		if err != nil {
			return fmt.Errorf("read steps for %s: %w", dayStart.Format("2006-01-02"), err)
		}

		rates = append(rates, round2(meanBPM(hrRecords)))
		steps = append(steps, sumSteps(stepRecords))
		days = append(days, dayStart.Format("Mon"))
	}

	s.publishWeekly(domain.WeeklyProfile{HeartRate: rates, Steps: steps, Days: days})
	s.logger.Info("weekly profile updated", "week_start", monday.Format("2006-01-02"))
	return nil
}
