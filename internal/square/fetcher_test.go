package square

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jimzijun/shechill-order-summary/internal/models"
)

var testNow = time.Date(2025, 11, 23, 18, 30, 0, 0, time.UTC)

func testFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient("test-token", "sandbox")
	client.BaseURL = srv.URL

	cfg := &models.Config{DaysBack: 14, PageLimit: 1000}
	return NewFetcher(client, cfg), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestFetchFollowsCursorAcrossPages(t *testing.T) {
	var requests []SearchOrdersRequest
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchOrdersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, req)

		switch req.Cursor {
		case "":
			writeJSON(t, w, SearchOrdersResponse{
				Orders: []models.Order{{ID: "o1", State: "OPEN"}},
				Cursor: "page2",
			})
		case "page2":
			writeJSON(t, w, SearchOrdersResponse{
				Orders: []models.Order{{ID: "o2", State: "COMPLETED"}},
			})
		default:
			t.Errorf("unexpected cursor %q", req.Cursor)
		}
	}))

	orders, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "o1" || orders[1].ID != "o2" {
		t.Fatalf("expected orders o1, o2 across pages, got %+v", orders)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 page requests got %d", len(requests))
	}
}

func TestFetchRequestShape(t *testing.T) {
	var captured SearchOrdersRequest
	var auth, version string
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		version = r.Header.Get("Square-Version")
		if r.URL.Path != "/v2/orders/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		writeJSON(t, w, SearchOrdersResponse{})
	}))

	if _, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	if auth != "Bearer test-token" {
		t.Fatalf("Authorization = %q", auth)
	}
	if version == "" {
		t.Fatal("Square-Version header missing")
	}
	if len(captured.LocationIDs) != 1 || captured.LocationIDs[0] != "L123" {
		t.Fatalf("location ids = %v", captured.LocationIDs)
	}
	if captured.Limit != 1000 {
		t.Fatalf("limit = %d, want 1000", captured.Limit)
	}

	filter := captured.Query.Filter
	if got := filter.DateTimeFilter.UpdatedAt.EndAt; got != "2025-11-23T18:30:00Z" {
		t.Fatalf("window end = %q", got)
	}
	if got := filter.DateTimeFilter.UpdatedAt.StartAt; got != "2025-11-09T18:30:00Z" {
		t.Fatalf("window start = %q, want 14 days back", got)
	}
	if got := filter.FulfillmentFilter.FulfillmentTypes; len(got) != 1 || got[0] != "PICKUP" {
		t.Fatalf("fulfillment types = %v", got)
	}
	states := filter.FulfillmentFilter.FulfillmentStates
	want := map[string]bool{"PROPOSED": true, "RESERVED": true, "PREPARED": true, "COMPLETED": true}
	if len(states) != len(want) {
		t.Fatalf("fulfillment states = %v", states)
	}
	for _, s := range states {
		if !want[s] {
			t.Fatalf("unexpected fulfillment state %q", s)
		}
	}
}

func TestFetchDropsDraftOrders(t *testing.T) {
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, SearchOrdersResponse{
			Orders: []models.Order{
				{ID: "draft", State: models.OrderStateDraft},
				{ID: "open", State: "OPEN"},
			},
		})
	}))

	orders, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "open" {
		t.Fatalf("expected only the open order, got %+v", orders)
	}
}

func TestFetchAbortsOnAPIError(t *testing.T) {
	pages := 0
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if pages == 1 {
			writeJSON(t, w, SearchOrdersResponse{
				Orders: []models.Order{{ID: "o1", State: "OPEN"}},
				Cursor: "page2",
			})
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		writeJSON(t, w, SearchOrdersResponse{
			Errors: []Error{{Category: "RATE_LIMIT_ERROR", Code: "RATE_LIMITED", Detail: "slow down"}},
		})
	}))

	orders, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow)
	if err == nil {
		t.Fatal("expected the fetch to abort on a page error")
	}
	if orders != nil {
		t.Fatalf("a failed fetch must not return partial results, got %+v", orders)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError in the chain, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
}

func TestFetchCapsRunawayCursor(t *testing.T) {
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cursor never goes absent
		writeJSON(t, w, SearchOrdersResponse{
			Orders: []models.Order{{ID: "o", State: "OPEN"}},
			Cursor: "again",
		})
	}))

	_, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow)
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("expected ErrTooManyPages got %v", err)
	}
}

func TestFetchEmptyResult(t *testing.T) {
	fetcher, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, SearchOrdersResponse{})
	}))

	orders, err := fetcher.FetchRecentPickupOrders(context.Background(), "L123", testNow)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders got %d", len(orders))
	}
}
