package summary

import (
	"log"

	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

// BucketByPickupDate groups orders by the local calendar date of their pickup
// fulfillments. Every target date gets an entry, possibly empty. An order
// lands at most once per date even when several of its fulfillments resolve
// to that date; orders whose pickup dates all fall outside the window are
// silently excluded. A missing pickup_at never defaults to today, and a
// malformed one is logged and skipped rather than failing the refresh.
func BucketByPickupDate(orders []models.Order, dates []timeutil.Date, conv *timeutil.Converter) map[timeutil.Date][]models.Order {
	buckets := make(map[timeutil.Date][]models.Order, len(dates))
	targets := make(map[timeutil.Date]bool, len(dates))
	for _, d := range dates {
		buckets[d] = []models.Order{}
		targets[d] = true
	}

	for _, order := range orders {
		added := make(map[timeutil.Date]bool)
		for _, f := range order.PickupFulfillments() {
			if f.PickupDetails == nil {
				continue
			}
			date, ok, err := conv.LocalDate(f.PickupDetails.PickupAt)
			if err != nil {
				log.Printf("Skipping fulfillment with bad pickup time on order %s: %v", order.ID, err)
				continue
			}
			if !ok || !targets[date] || added[date] {
				continue
			}
			buckets[date] = append(buckets[date], order)
			added[date] = true
		}
	}

	return buckets
}
