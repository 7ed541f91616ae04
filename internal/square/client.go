package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ProductionBaseURL = "https://connect.squareup.com"
	SandboxBaseURL    = "https://connect.squareupsandbox.com"

	apiVersion = "2024-08-21"
)

// Client is a minimal Square REST client covering the single endpoint this
// pipeline needs. No retries: a failed page fails the refresh and the next
// cycle tries again from scratch.
type Client struct {
	BaseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(accessToken, environment string) *Client {
	baseURL := ProductionBaseURL
	if environment == "sandbox" {
		baseURL = SandboxBaseURL
	}
	return &Client{
		BaseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchOrders calls POST /v2/orders/search and returns one page of results.
func (c *Client) SearchOrders(ctx context.Context, req *SearchOrdersRequest) (*SearchOrdersResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("square: marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/orders/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("square: build search request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Square-Version", apiVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("square: search orders: %w", err)
	}
	defer httpResp.Body.Close()

	var resp SearchOrdersResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("square: decode search response (status %d): %w", httpResp.StatusCode, err)
	}

	if len(resp.Errors) > 0 || httpResp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: httpResp.StatusCode, Errors: resp.Errors}
	}

	return &resp, nil
}
