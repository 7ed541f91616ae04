package square

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
	"github.com/schollz/progressbar/v3"
)

// maxSearchPages caps cursor following so a malformed or cyclic cursor can
// never loop the fetch forever.
const maxSearchPages = 100

// ErrTooManyPages means the cursor never went absent within the page cap.
var ErrTooManyPages = errors.New("square: too many result pages, aborting fetch")

// searchStates are the fulfillment states worth reporting on; canceled and
// failed pickups are filtered server-side.
var searchStates = []string{"PROPOSED", "RESERVED", "PREPARED", "COMPLETED"}

// Fetcher pulls recent pickup orders. The upstream cannot filter by pickup
// time server-side, so it searches on an updated_at window and leaves pickup
// date handling to the bucketer.
type Fetcher struct {
	client       *Client
	daysBack     int
	pageLimit    int
	showProgress bool
}

func NewFetcher(client *Client, cfg *models.Config) *Fetcher {
	return &Fetcher{
		client:       client,
		daysBack:     cfg.DaysBack,
		pageLimit:    cfg.PageLimit,
		showProgress: cfg.ShowProgress,
	}
}

// FetchRecentPickupOrders accumulates every page of pickup orders updated in
// [now-daysBack, now]. Draft orders are dropped client-side since the search
// filter does not exclude them. Any page error aborts the whole fetch; no
// partial result is returned.
func (f *Fetcher) FetchRecentPickupOrders(ctx context.Context, locationID string, now time.Time) ([]models.Order, error) {
	start := now.AddDate(0, 0, -f.daysBack)

	var bar *progressbar.ProgressBar
	if f.showProgress {
		bar = progressbar.Default(-1, "fetching order pages")
		defer bar.Finish()
	}

	var all []models.Order
	cursor := ""
	for page := 0; ; page++ {
		if page >= maxSearchPages {
			return nil, ErrTooManyPages
		}

		req := &SearchOrdersRequest{
			LocationIDs: []string{locationID},
			Query: &SearchOrdersQuery{
				Filter: &SearchOrdersFilter{
					DateTimeFilter: &DateTimeFilter{
						UpdatedAt: &TimeRange{
							StartAt: timeutil.ToUTCString(start),
							EndAt:   timeutil.ToUTCString(now),
						},
					},
					FulfillmentFilter: &FulfillmentFilter{
						FulfillmentTypes:  []string{models.FulfillmentTypePickup},
						FulfillmentStates: searchStates,
					},
				},
			},
			Limit:  f.pageLimit,
			Cursor: cursor,
		}

		resp, err := f.client.SearchOrders(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("fetch orders page %d: %w", page+1, err)
		}
		if bar != nil {
			bar.Add(1)
		}

		for _, order := range resp.Orders {
			if order.State == models.OrderStateDraft {
				continue
			}
			all = append(all, order)
		}

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	return all, nil
}
