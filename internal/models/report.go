package models

import (
	"strconv"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
)

// NullFloat is a quantity that may be absent. An unparseable upstream
// quantity becomes invalid, never zero, so that aggregation can skip it.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// String renders the value for tabular output, empty when absent.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// Ptr returns the value as a nullable pointer for database and JSON sinks.
func (n NullFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// LineRow is one (pickup fulfillment, line item) pair of a bucketed order:
// a single row of the customer pickup schedule.
type LineRow struct {
	PickupAt       *time.Time `json:"-"`
	RecipientName  *string    `json:"recipient_name,omitempty"`
	RecipientEmail *string    `json:"recipient_email,omitempty"`
	RecipientPhone *string    `json:"recipient_phone,omitempty"`
	ItemName       *string    `json:"item_name,omitempty"`
	VariationName  *string    `json:"variation_name,omitempty"`
	Quantity       NullFloat  `json:"-"`
}

// FulfillmentTime formats the local pickup timestamp for display, empty when
// the fulfillment has no resolvable pickup instant.
func (r LineRow) FulfillmentTime() string {
	if r.PickupAt == nil {
		return ""
	}
	return r.PickupAt.Format("2006-01-02 15:04")
}

// ProductionRow is one aggregated (item, variation) total of the kitchen
// production table.
type ProductionRow struct {
	ItemName      string    `json:"item_name"`
	VariationName *string   `json:"variation_name,omitempty"`
	Quantity      NullFloat `json:"-"`
}

// DayReport bundles everything derived for one local pickup date. Reports are
// recomputed value objects; a refresh replaces them wholesale.
type DayReport struct {
	Date       timeutil.Date
	Orders     []Order
	Schedule   []LineRow
	Production []ProductionRow
}
