package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubAnalyticsRepo struct {
	totals map[time.Time]float64
	calls  []time.Time
}

func (r *stubAnalyticsRepo) DeliveredSalesSince(ctx context.Context, from time.Time) (float64, error) {
	r.calls = append(r.calls, from)
	return r.totals[from], nil
}

func TestSalesEmptyStore(t *testing.T) {
	repo := &stubAnalyticsRepo{totals: map[time.Time]float64{}}
	svc := NewService(repo)

	totals, err := svc.Sales(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0.0, totals.Daily)
	assert.Equal(t, 0.0, totals.Weekly)
	assert.Equal(t, 0.0, totals.Monthly)
}

func TestSalesWindowAnchors(t *testing.T) {
	// Wednesday 2026-03-18 15:30 UTC
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

	day := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	week := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // Sunday
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := &stubAnalyticsRepo{totals: map[time.Time]float64{
		day:   1099,
		week:  5000,
		month: 20000,
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	totals, err := svc.Sales(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []time.Time{day, week, month}, repo.calls)
	assert.Equal(t, 1099.0, totals.Daily)
	assert.Equal(t, 5000.0, totals.Weekly)
	assert.Equal(t, 20000.0, totals.Monthly)
}

func TestSalesWeekStartOnSunday(t *testing.T) {
	// A Sunday: the week window starts that same midnight.
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	repo := &stubAnalyticsRepo{totals: map[time.Time]float64{}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	_, err := svc.Sales(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, midnight, repo.calls[0])
	assert.Equal(t, midnight, repo.calls[1])
}
