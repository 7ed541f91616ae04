package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/cache"
	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

// OrderSource supplies the raw orders the pipeline summarises. The Square
// fetcher is the production implementation; the demo generator is another.
type OrderSource interface {
	FetchRecentPickupOrders(ctx context.Context, locationID string, now time.Time) ([]models.Order, error)
}

// Service runs the fetch, bucket, flatten, aggregate pipeline and caches the
// finished reports per location and day window. The cache TTL bounds
// staleness; a refresh failure does not evict the previous result.
type Service struct {
	source     OrderSource
	conv       *timeutil.Converter
	locationID string
	daysBack   int
	daysAhead  int
	reports    *cache.Cache[[]models.DayReport]
}

func NewService(source OrderSource, conv *timeutil.Converter, cfg *models.Config) *Service {
	return &Service{
		source:     source,
		conv:       conv,
		locationID: cfg.LocationID,
		daysBack:   cfg.DaysBack,
		daysAhead:  cfg.DaysAhead,
		reports:    cache.New[[]models.DayReport](cfg.CacheTTL),
	}
}

// Reports returns one DayReport per target date, today first. The caller
// passes the current wall-clock time so the day window rolls at local
// midnight regardless of how long a cache entry lives.
func (s *Service) Reports(ctx context.Context, now time.Time) ([]models.DayReport, error) {
	key := fmt.Sprintf("%s|%d|%d", s.locationID, s.daysBack, s.daysAhead)
	return s.reports.Get(ctx, key, now, func(ctx context.Context) ([]models.DayReport, error) {
		return s.build(ctx, now)
	})
}

func (s *Service) build(ctx context.Context, now time.Time) ([]models.DayReport, error) {
	orders, err := s.source.FetchRecentPickupOrders(ctx, s.locationID, now)
	if err != nil {
		return nil, fmt.Errorf("refresh pickup orders: %w", err)
	}

	dates := s.conv.Window(now, s.daysAhead)
	buckets := BucketByPickupDate(orders, dates, s.conv)

	out := make([]models.DayReport, 0, len(dates))
	for _, date := range dates {
		schedule := FlattenLineItems(buckets[date], s.conv)
		out = append(out, models.DayReport{
			Date:       date,
			Orders:     buckets[date],
			Schedule:   schedule,
			Production: AggregateProduction(schedule),
		})
	}
	return out, nil
}
