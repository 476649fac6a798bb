// Package client calls a running SplitShare server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-resty/resty/v2"

	"github.com/mmynk/splitshare/internal/page"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/sheets"
)

// DefaultServerURL is where a locally started server listens.
const DefaultServerURL = "http://localhost:3000"

// Error is a failed call, carrying the server's {error} message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type errorPayload struct {
	Error json.RawMessage `json:"error"`
}

// Extraction is the answer of /extract-order.
type Extraction struct {
	Raw        json.RawMessage
	ItemsFound int
}

// Client talks to the server over HTTP.
type Client struct {
	http   *resty.Client
	ledger *service.LedgerServiceClient
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   rc,
		ledger: service.NewLedgerServiceClient(rc.GetClient(), baseURL),
	}
}

// ExtractOrder sends a captured page for extraction.
func (c *Client) ExtractOrder(ctx context.Context, p *page.Content) (*Extraction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"html": p.HTML, "url": p.URL}).
		Post("/extract-order")
	if err != nil {
		return nil, fmt.Errorf("extract-order request failed: %w", err)
	}
	if resp.IsError() {
		return nil, callError(resp)
	}

	found, _ := strconv.Atoi(resp.Header().Get(service.ItemsFoundHeader))
	return &Extraction{Raw: json.RawMessage(resp.Body()), ItemsFound: found}, nil
}

// TestSheet checks that the spreadsheet is reachable.
func (c *Client) TestSheet(ctx context.Context, sheetURLOrID string) (*sheets.Spreadsheet, error) {
	var out struct {
		OK          bool                `json:"ok"`
		Spreadsheet *sheets.Spreadsheet `json:"spreadsheet"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"sheetUrlOrId": sheetURLOrID}).
		SetResult(&out).
		Post("/test-sheet")
	if err != nil {
		return nil, fmt.Errorf("test-sheet request failed: %w", err)
	}
	if resp.IsError() {
		return nil, callError(resp)
	}
	return out.Spreadsheet, nil
}

// WriteSheet appends rows to a sheet. An empty sheetName means the server
// default.
func (c *Client) WriteSheet(ctx context.Context, sheetURLOrID, sheetName string, rows [][]any) (*sheets.Updates, error) {
	body := map[string]any{"sheetUrlOrId": sheetURLOrID, "rows": rows}
	if sheetName != "" {
		body["sheetName"] = sheetName
	}

	var out struct {
		OK      bool            `json:"ok"`
		Updates *sheets.Updates `json:"updates"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/write-sheet")
	if err != nil {
		return nil, fmt.Errorf("write-sheet request failed: %w", err)
	}
	if resp.IsError() {
		return nil, callError(resp)
	}
	return out.Updates, nil
}

// ComputeLedger asks the server to compute a ledger.
func (c *Client) ComputeLedger(ctx context.Context, req *service.ComputeLedgerRequest) (*service.ComputeLedgerResponse, error) {
	resp, err := c.ledger.ComputeLedger(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// callError turns a non-2xx response into an *Error. String messages are
// unquoted; structured upstream bodies are kept as JSON text.
func callError(resp *resty.Response) error {
	e := &Error{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(string(resp.Body()))}

	var payload errorPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || len(payload.Error) == 0 {
		return e
	}
	var msg string
	if err := json.Unmarshal(payload.Error, &msg); err == nil {
		e.Message = msg
	} else {
		e.Message = string(payload.Error)
	}
	return e
}
