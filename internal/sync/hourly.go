package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/provider"
)

// SyncHourly runs the hourly heart-rate aggregation if the coordinator
// allows it. It reports whether a pass was started; a suppressed pass is not
// an error.
func (s *Service) SyncHourly(ctx context.Context) bool {
	if !s.coord.BeginFetch(CategoryHourly) {
		s.logger.Debug("hourly fetch suppressed", "category", CategoryHourly)
		return false
	}
	s.runHourly(ctx)
	return true
}

func (s *Service) runHourly(ctx context.Context) {
	err := s.hourlyPass(ctx)
	s.coord.EndFetch(CategoryHourly, err == nil)
	if err == nil {
		s.resetRetries(CategoryHourly)
		return
	}
	s.handlePassError(CategoryHourly, err)
}

// hourlyPass reads heart-rate records for each hour of the current local day
// and publishes the 24-bucket profile atomically.
func (s *Service) hourlyPass(ctx context.Context) error {
	if err := s.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	if err := s.provider.RequestPermissions(ctx, []provider.Permission{
		provider.ReadPermission(provider.RecordHeartRate),
	}); err != nil {
		return fmt.Errorf("request permissions: %w", err)
	}

	dayStart := s.localDayStart()
	rates := make([]float64, 0, domain.HoursInDay)
	hours := make([]string, 0, domain.HoursInDay)

	for i := 0; i < domain.HoursInDay; i++ {
		bucket := provider.TimeRange{
			Start: dayStart.Add(time.Duration(i) * time.Hour),
			End:   dayStart.Add(time.Duration(i+1) * time.Hour),
		}
		records, err := s.provider.ReadRecords(ctx, provider.RecordHeartRate, bucket)
		if err != nil {
			return fmt.Errorf("read heart rate for hour %d: %w", i, err)
		}
		rates = append(rates, round2(meanBPM(records)))
		hours = append(hours, fmt.Sprintf("%d:00", i))
	}

	s.publishHourly(domain.HourlyProfile{HeartRate: rates, Hours: hours})
	s.logger.Info("hourly profile updated", "buckets", len(rates))
	return nil
}
