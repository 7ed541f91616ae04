package square

import (
	"fmt"
	"strings"

	"github.com/jimzijun/shechill-order-summary/internal/models"
)

type SearchOrdersRequest struct {
	LocationIDs []string           `json:"location_ids"`
	Query       *SearchOrdersQuery `json:"query,omitempty"`
	Limit       int                `json:"limit,omitempty"`
	Cursor      string             `json:"cursor,omitempty"`
}

type SearchOrdersQuery struct {
	Filter *SearchOrdersFilter `json:"filter,omitempty"`
}

type SearchOrdersFilter struct {
	DateTimeFilter    *DateTimeFilter    `json:"date_time_filter,omitempty"`
	FulfillmentFilter *FulfillmentFilter `json:"fulfillment_filter,omitempty"`
}

type DateTimeFilter struct {
	UpdatedAt *TimeRange `json:"updated_at,omitempty"`
}

type TimeRange struct {
	StartAt string `json:"start_at,omitempty"`
	EndAt   string `json:"end_at,omitempty"`
}

type FulfillmentFilter struct {
	FulfillmentTypes  []string `json:"fulfillment_types,omitempty"`
	FulfillmentStates []string `json:"fulfillment_states,omitempty"`
}

type SearchOrdersResponse struct {
	Orders []models.Order `json:"orders,omitempty"`
	Cursor string         `json:"cursor,omitempty"`
	Errors []Error        `json:"errors,omitempty"`
}

type Error struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

func (e Error) String() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return e.Code
}

// APIError is the upstream's error list; any page returning one aborts the
// whole fetch.
type APIError struct {
	StatusCode int
	Errors     []Error
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		msgs = append(msgs, apiErr.String())
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("square: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("square: request failed with status %d: %s", e.StatusCode, strings.Join(msgs, "; "))
}
