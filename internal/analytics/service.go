package analytics

import (
	"context"
	"time"
)

type AnalyticsRepository interface {
	DeliveredSalesSince(ctx context.Context, from time.Time) (float64, error)
}

type Totals struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

type Service struct {
	repo AnalyticsRepository
	now  func() time.Time
}

func NewService(repo AnalyticsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Sales sums delivered order totals over rolling windows anchored to the
// moment of the call: since local midnight, since the start of the current
// week (Sunday), since the first of the month. Orders count by the time
// they were marked Delivered, not by creation time.
func (s *Service) Sales(ctx context.Context) (*Totals, error) {
	now := s.now()
	loc := now.Location()

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	week := day.AddDate(0, 0, -int(now.Weekday()))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	daily, err := s.repo.DeliveredSalesSince(ctx, day)
	if err != nil {
		return nil, err
	}
	weekly, err := s.repo.DeliveredSalesSince(ctx, week)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.DeliveredSalesSince(ctx, month)
	if err != nil {
		return nil, err
	}

	return &Totals{Daily: daily, Weekly: weekly, Monthly: monthly}, nil
}
