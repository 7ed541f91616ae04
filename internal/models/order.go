package models

// Wire types for the Square Orders API. Orders are read-only here; fields the
// upstream may omit are pointers so that absence stays distinguishable from a
// zero value.

const (
	OrderStateDraft = "DRAFT"

	FulfillmentTypePickup = "PICKUP"
)

type Order struct {
	ID           string        `json:"id,omitempty"`
	LocationID   string        `json:"location_id,omitempty"`
	State        string        `json:"state,omitempty"`
	CreatedAt    *string       `json:"created_at,omitempty"`
	UpdatedAt    *string       `json:"updated_at,omitempty"`
	Fulfillments []Fulfillment `json:"fulfillments,omitempty"`
	LineItems    []LineItem    `json:"line_items,omitempty"`
}

type Fulfillment struct {
	UID           *string        `json:"uid,omitempty"`
	Type          string         `json:"type,omitempty"`
	State         string         `json:"state,omitempty"`
	PickupDetails *PickupDetails `json:"pickup_details,omitempty"`
}

type PickupDetails struct {
	PickupAt  *string    `json:"pickup_at,omitempty"`
	Note      *string    `json:"note,omitempty"`
	Recipient *Recipient `json:"recipient,omitempty"`
}

type Recipient struct {
	DisplayName  *string `json:"display_name,omitempty"`
	GivenName    *string `json:"given_name,omitempty"`
	FamilyName   *string `json:"family_name,omitempty"`
	EmailAddress *string `json:"email_address,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
}

// LineItem belongs to the order, not to a fulfillment. Quantity arrives as a
// numeric string and may fail to parse.
type LineItem struct {
	UID           *string `json:"uid,omitempty"`
	Name          *string `json:"name,omitempty"`
	Quantity      string  `json:"quantity,omitempty"`
	VariationName *string `json:"variation_name,omitempty"`
}

// PickupFulfillments returns the order's fulfillments of pickup type.
func (o Order) PickupFulfillments() []Fulfillment {
	var pickups []Fulfillment
	for _, f := range o.Fulfillments {
		if f.Type == FulfillmentTypePickup {
			pickups = append(pickups, f)
		}
	}
	return pickups
}

// ResolvedName returns the recipient's display name, falling back to the
// given and family names joined with a space. Nil when no name is present.
func (r *Recipient) ResolvedName() *string {
	if r == nil {
		return nil
	}
	if r.DisplayName != nil && *r.DisplayName != "" {
		return r.DisplayName
	}
	name := ""
	if r.GivenName != nil && *r.GivenName != "" {
		name = *r.GivenName
	}
	if r.FamilyName != nil && *r.FamilyName != "" {
		if name != "" {
			name += " "
		}
		name += *r.FamilyName
	}
	if name == "" {
		return nil
	}
	return &name
}
