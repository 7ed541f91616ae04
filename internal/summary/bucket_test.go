package summary

import (
	"reflect"
	"testing"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

func mustConverter(t *testing.T) *timeutil.Converter {
	t.Helper()
	conv, err := timeutil.NewConverter("America/Los_Angeles")
	if err != nil {
		t.Fatalf("NewConverter returned error: %v", err)
	}
	return conv
}

func strPtr(s string) *string {
	return &s
}

func pickupOrder(id string, pickupAts ...string) models.Order {
	order := models.Order{ID: id, State: "OPEN"}
	for _, at := range pickupAts {
		at := at
		f := models.Fulfillment{
			Type:          models.FulfillmentTypePickup,
			PickupDetails: &models.PickupDetails{},
		}
		if at != "" {
			f.PickupDetails.PickupAt = &at
		}
		order.Fulfillments = append(order.Fulfillments, f)
	}
	return order
}

// fixedNow maps to local date 2025-11-23 (10:30 in Los Angeles).
var fixedNow = time.Date(2025, 11, 23, 18, 30, 0, 0, time.UTC)

func TestBucketPlacesOrderOnPickupDateOnly(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	today := pickupOrder("today-order", "2025-11-23T18:00:00Z")
	tomorrow := pickupOrder("tomorrow-order", "2025-11-24T18:00:00Z")

	buckets := BucketByPickupDate([]models.Order{today, tomorrow}, dates, conv)

	if got := buckets[dates[0]]; len(got) != 1 || got[0].ID != "today-order" {
		t.Fatalf("today bucket = %+v, want the today order alone", got)
	}
	if got := buckets[dates[1]]; len(got) != 1 || got[0].ID != "tomorrow-order" {
		t.Fatalf("tomorrow bucket = %+v, want the tomorrow order alone", got)
	}
}

func TestBucketDedupsMultipleFulfillmentsSameDate(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	order := pickupOrder("dup", "2025-11-23T18:00:00Z", "2025-11-23T20:00:00Z")
	buckets := BucketByPickupDate([]models.Order{order}, dates, conv)

	if got := len(buckets[dates[0]]); got != 1 {
		t.Fatalf("order appeared %d times in its date bucket, want exactly once", got)
	}
}

func TestBucketOrderWithFulfillmentsOnTwoDates(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	order := pickupOrder("split", "2025-11-23T18:00:00Z", "2025-11-24T18:00:00Z")
	buckets := BucketByPickupDate([]models.Order{order}, dates, conv)

	if len(buckets[dates[0]]) != 1 || len(buckets[dates[1]]) != 1 {
		t.Fatalf("expected the order once per date, got %d and %d",
			len(buckets[dates[0]]), len(buckets[dates[1]]))
	}
}

func TestBucketIdempotence(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)
	orders := []models.Order{
		pickupOrder("a", "2025-11-23T18:00:00Z"),
		pickupOrder("b", "2025-11-24T01:00:00Z"),
		pickupOrder("c", "2025-11-24T18:00:00Z"),
	}

	first := BucketByPickupDate(orders, dates, conv)
	second := BucketByPickupDate(orders, dates, conv)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("bucketing the same orders twice produced different buckets")
	}
}

func TestBucketExcludesAbsentAndOutOfWindow(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	orders := []models.Order{
		pickupOrder("no-pickup-at", ""),
		pickupOrder("last-week", "2025-11-16T18:00:00Z"),
		{ID: "no-fulfillments", State: "OPEN"},
	}
	buckets := BucketByPickupDate(orders, dates, conv)

	for _, date := range dates {
		if got := buckets[date]; len(got) != 0 {
			t.Fatalf("bucket %s should be empty, got %+v", date, got)
		}
	}
}

func TestBucketEveryTargetDateGetsAnEntry(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 3)

	buckets := BucketByPickupDate(nil, dates, conv)
	if len(buckets) != 3 {
		t.Fatalf("expected %d entries got %d", 3, len(buckets))
	}
	for _, date := range dates {
		if buckets[date] == nil {
			t.Fatalf("bucket %s missing", date)
		}
	}
}

func TestBucketSkipsMalformedPickupTime(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	bad := pickupOrder("bad", "not-a-time")
	good := pickupOrder("good", "2025-11-23T18:00:00Z")
	buckets := BucketByPickupDate([]models.Order{bad, good}, dates, conv)

	if got := buckets[dates[0]]; len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("expected only the good order bucketed, got %+v", got)
	}
}

func TestBucketIgnoresNonPickupFulfillments(t *testing.T) {
	conv := mustConverter(t)
	dates := conv.Window(fixedNow, 2)

	at := "2025-11-23T18:00:00Z"
	order := models.Order{
		ID: "shipment",
		Fulfillments: []models.Fulfillment{
			{Type: "SHIPMENT", PickupDetails: &models.PickupDetails{PickupAt: &at}},
		},
	}
	buckets := BucketByPickupDate([]models.Order{order}, dates, conv)

	if got := len(buckets[dates[0]]); got != 0 {
		t.Fatalf("shipment fulfillment bucketed %d times, want none", got)
	}
}
