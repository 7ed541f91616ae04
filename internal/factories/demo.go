package factories

import (
	"context"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

const demoOrderCount = 25

// DemoSource stands in for the Square fetcher when no credentials are
// around, generating a fresh batch of plausible pickup orders per refresh.
type DemoSource struct {
	factory OrderFactory
	conv    *timeutil.Converter
	days    int
}

func NewDemoSource(conv *timeutil.Converter, cfg *models.Config) *DemoSource {
	return &DemoSource{conv: conv, days: cfg.DaysAhead}
}

func (s *DemoSource) FetchRecentPickupOrders(ctx context.Context, locationID string, now time.Time) ([]models.Order, error) {
	return s.factory.CreateOrdersForWindow(s.conv, now, s.days, demoOrderCount), nil
}
