package summary

import (
	"log"
	"sort"
	"strconv"

	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

// FlattenLineItems expands orders into one row per (pickup fulfillment, line
// item) pair. Line items belong to the order, so an order with two pickup
// fulfillments repeats its items for each. Rows come back sorted by pickup
// time (rows without one first), then recipient, item and variation, for a
// stable human-scannable schedule.
func FlattenLineItems(orders []models.Order, conv *timeutil.Converter) []models.LineRow {
	rows := []models.LineRow{}

	for _, order := range orders {
		for _, f := range order.PickupFulfillments() {
			var pickupAt *string
			var recipient *models.Recipient
			if f.PickupDetails != nil {
				pickupAt = f.PickupDetails.PickupAt
				recipient = f.PickupDetails.Recipient
			}

			pickupLocal, err := conv.LocalDateTime(pickupAt)
			if err != nil {
				log.Printf("Unparseable pickup time on order %s, leaving blank: %v", order.ID, err)
				pickupLocal = nil
			}

			name := recipient.ResolvedName()
			var email, phone *string
			if recipient != nil {
				email = recipient.EmailAddress
				phone = recipient.PhoneNumber
			}

			for _, li := range order.LineItems {
				rows = append(rows, models.LineRow{
					PickupAt:       pickupLocal,
					RecipientName:  name,
					RecipientEmail: email,
					RecipientPhone: phone,
					ItemName:       li.Name,
					VariationName:  li.VariationName,
					Quantity:       parseQuantity(li.Quantity),
				})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return lessRow(rows[i], rows[j])
	})

	return rows
}

// parseQuantity coerces the upstream quantity string. Failure means the
// quantity is unknown, not zero.
func parseQuantity(s string) models.NullFloat {
	if s == "" {
		return models.NullFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.NullFloat{}
	}
	return models.Float(v)
}

func lessRow(a, b models.LineRow) bool {
	// absent pickup times sort first so unscheduled rows stay visible
	switch {
	case a.PickupAt == nil && b.PickupAt != nil:
		return true
	case a.PickupAt != nil && b.PickupAt == nil:
		return false
	case a.PickupAt != nil && b.PickupAt != nil:
		if !a.PickupAt.Equal(*b.PickupAt) {
			return a.PickupAt.Before(*b.PickupAt)
		}
	}
	if an, bn := strOrEmpty(a.RecipientName), strOrEmpty(b.RecipientName); an != bn {
		return an < bn
	}
	if an, bn := strOrEmpty(a.ItemName), strOrEmpty(b.ItemName); an != bn {
		return an < bn
	}
	return strOrEmpty(a.VariationName) < strOrEmpty(b.VariationName)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
