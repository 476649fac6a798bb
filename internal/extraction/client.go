// Package extraction talks to the AgentQL query-data API, which turns the
// HTML of an order page into structured order data.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the AgentQL API root.
const DefaultBaseURL = "https://api.agentql.com/v1"

// ErrNoPage is returned when neither HTML nor a URL is given.
var ErrNoPage = errors.New("must provide either html or url")

// orderQuery is the AgentQL query describing an order page.
const orderQuery = `
{
  order_info {
    order_number,
    order_date,
    total_amount,
    tax_amount,
    shipping_cost,
    subtotal
  },
  items[] {
    product_name,
    product_price,
    quantity,
    unit_price,
    product_image_url,
    product_description,
    seller_name
  },
  billing_info {
    billing_address,
    payment_method,
    card_ending
  },
  shipping_info {
    shipping_address,
    delivery_date,
    tracking_number
  }
}
`

// Page is the content of an order page.
type Page struct {
	HTML string
	URL  string
}

// APIError is a non-2xx answer from the extraction provider.
type APIError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("extraction provider returned %d: %s", e.StatusCode, string(e.Body))
}

type queryParams struct {
	WaitFor           int    `json:"wait_for"`
	ScrollToBottom    bool   `json:"is_scroll_to_bottom_enabled"`
	Mode              string `json:"mode"`
	ScreenshotEnabled bool   `json:"is_screenshot_enabled"`
}

type queryRequest struct {
	Query  string      `json:"query"`
	HTML   string      `json:"html,omitempty"`
	URL    string      `json:"url,omitempty"`
	Params queryParams `json:"params"`
}

// Client calls the extraction provider.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the API at baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetHeader("X-API-Key", apiKey),
	}
}

// Extract sends the page to the provider and returns its raw JSON answer.
// HTML takes precedence over the URL when both are given.
func (c *Client) Extract(ctx context.Context, page Page) (json.RawMessage, error) {
	if page.HTML == "" && page.URL == "" {
		return nil, ErrNoPage
	}

	req := queryRequest{
		Query: orderQuery,
		HTML:  page.HTML,
		Params: queryParams{
			Mode: "fast",
		},
	}
	if page.HTML == "" {
		req.URL = page.URL
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/query-data")
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: errorBody(resp.Body())}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("extraction provider returned invalid JSON (%d bytes)", len(body))
	}
	slog.Debug("Extraction completed", "url", page.URL, "html_bytes", len(page.HTML), "response_bytes", len(body))
	return json.RawMessage(body), nil
}

// errorBody keeps JSON error bodies as-is and quotes anything else.
func errorBody(b []byte) json.RawMessage {
	if len(b) > 0 && json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}
