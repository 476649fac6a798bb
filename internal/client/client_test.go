package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitshare/internal/extraction"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/page"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/sheets"
)

type stubExtractor struct {
	raw json.RawMessage
	err error
}

func (s stubExtractor) Extract(context.Context, extraction.Page) (json.RawMessage, error) {
	return s.raw, s.err
}

type stubSheets struct {
	err  error
	rows [][]any
}

func (s *stubSheets) Describe(_ context.Context, id string) (*sheets.Spreadsheet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sheets.Spreadsheet{SpreadsheetID: id, Title: "Groceries", Sheets: []string{"Sheet1", "October"}}, nil
}

func (s *stubSheets) Append(_ context.Context, id, sheetName string, rows [][]any) (*sheets.Updates, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rows = rows
	return &sheets.Updates{SpreadsheetID: id, UpdatedRange: sheetName + "!A1:C3", UpdatedRows: int64(len(rows))}, nil
}

func newTestClient(t *testing.T, ex stubExtractor, sh *stubSheets) *Client {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	mux := http.NewServeMux()
	service.Register(mux, service.NewOrderService(ex, m), service.NewSheetService(sh, m), service.NewLedgerService(m))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func TestExtractOrder(t *testing.T) {
	raw := `{"data":{"items":[{"product_name":"Milk","product_price":"$2.97"}]}}`
	c := newTestClient(t, stubExtractor{raw: json.RawMessage(raw)}, &stubSheets{})

	got, err := c.ExtractOrder(context.Background(), &page.Content{HTML: "<html></html>"})
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(got.Raw))
	assert.Equal(t, 1, got.ItemsFound)
}

func TestExtractOrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		ex      stubExtractor
		content *page.Content
		status  int
		message string
	}{
		{
			name:    "no page",
			content: &page.Content{},
			status:  http.StatusBadRequest,
			message: "Must provide either html or url",
		},
		{
			name:    "structured upstream error",
			ex:      stubExtractor{err: &extraction.APIError{StatusCode: 429, Body: json.RawMessage(`{"detail":"rate limited"}`)}},
			content: &page.Content{URL: "https://example.com"},
			status:  http.StatusInternalServerError,
			message: `{"detail":"rate limited"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.ex, &stubSheets{})

			_, err := c.ExtractOrder(context.Background(), tt.content)
			var callErr *Error
			require.ErrorAs(t, err, &callErr)
			assert.Equal(t, tt.status, callErr.StatusCode)
			assert.Equal(t, tt.message, callErr.Message)
		})
	}
}

func TestTestSheet(t *testing.T) {
	c := newTestClient(t, stubExtractor{}, &stubSheets{})

	got, err := c.TestSheet(context.Background(), "https://docs.google.com/spreadsheets/d/sheet_42/edit")
	require.NoError(t, err)
	assert.Equal(t, "sheet_42", got.SpreadsheetID)
	assert.Equal(t, []string{"Sheet1", "October"}, got.Sheets)
}

func TestWriteSheet(t *testing.T) {
	sh := &stubSheets{}
	c := newTestClient(t, stubExtractor{}, sh)

	rows := [][]any{{"Item", "Total Price", "Alice"}, {"Milk", 2.97, 2.97}, {"Total", 2.97, 2.97}}
	got, err := c.WriteSheet(context.Background(), "abc", "", rows)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1!A1:C3", got.UpdatedRange)
	assert.Equal(t, int64(3), got.UpdatedRows)
	assert.Equal(t, rows, sh.rows)
}

func TestWriteSheetUpstreamError(t *testing.T) {
	c := newTestClient(t, stubExtractor{}, &stubSheets{err: errors.New("quota exceeded")})

	_, err := c.WriteSheet(context.Background(), "abc", "Sheet1", [][]any{{"x"}})
	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, http.StatusInternalServerError, callErr.StatusCode)
	assert.Equal(t, "quota exceeded", callErr.Message)
}

func TestComputeLedger(t *testing.T) {
	c := newTestClient(t, stubExtractor{}, &stubSheets{})

	got, err := c.ComputeLedger(context.Background(), &service.ComputeLedgerRequest{
		Participants: []string{"Alice", "Bob"},
		Payload:      json.RawMessage(`{"items":[{"product_name":"Bread","product_price":2.48},{"product_name":"Milk","product_price":2.97}]}`),
		Assignments:  map[int][]string{1: {"Alice"}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.21, got.PersonTotals["Alice"], 1e-9)
	assert.InDelta(t, 1.24, got.PersonTotals["Bob"], 1e-9)

	_, err = c.ComputeLedger(context.Background(), &service.ComputeLedgerRequest{Participants: []string{""}})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
