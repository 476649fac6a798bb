// Package sheets reads spreadsheet metadata and appends rows through the
// Google Sheets v4 API using service-account credentials.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is used when no sheet (tab) name is given.
const DefaultSheetName = "Sheet1"

// ErrNotConfigured is returned by a Client built without credentials.
var ErrNotConfigured = errors.New("missing GOOGLE_SERVICE_ACCOUNT_KEY_JSON env var")

var (
	spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	plainSheetName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// SpreadsheetID accepts a full spreadsheet URL or a bare id and returns the id.
func SpreadsheetID(urlOrID string) string {
	urlOrID = strings.TrimSpace(urlOrID)
	if m := spreadsheetURL.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}
	return urlOrID
}

// Spreadsheet describes a spreadsheet and its sheet titles.
type Spreadsheet struct {
	SpreadsheetID string   `json:"spreadsheetId"`
	Title         string   `json:"title"`
	Sheets        []string `json:"sheets"`
}

// Updates summarises an append.
type Updates struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	UpdatedRange   string `json:"updatedRange"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

// Client wraps the Sheets service.
type Client struct {
	svc *gsheets.Service
}

// NewClient builds a client from a service-account key JSON blob. An empty
// blob yields a client whose calls fail with ErrNotConfigured, so the server
// can start before credentials are provisioned.
func NewClient(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return &Client{}, nil
	}
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	svc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewClientWithService wraps an existing service, e.g. one pointed at a
// test endpoint.
func NewClientWithService(svc *gsheets.Service) *Client {
	return &Client{svc: svc}
}

// Describe fetches the spreadsheet title and its sheet titles.
func (c *Client) Describe(ctx context.Context, spreadsheetID string) (*Spreadsheet, error) {
	if c.svc == nil {
		return nil, ErrNotConfigured
	}
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	out := &Spreadsheet{SpreadsheetID: spreadsheetID, Sheets: []string{}}
	if resp.Properties != nil {
		out.Title = resp.Properties.Title
	}
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			out.Sheets = append(out.Sheets, s.Properties.Title)
		}
	}
	return out, nil
}

// Append writes rows after the last non-empty row of the named sheet.
// Values are parsed as if typed by a user.
func (c *Client) Append(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) (*Updates, error) {
	if c.svc == nil {
		return nil, ErrNotConfigured
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, appendRange(sheetName), &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append to %s: %w", appendRange(sheetName), err)
	}

	out := &Updates{SpreadsheetID: spreadsheetID}
	if u := resp.Updates; u != nil {
		out.SpreadsheetID = u.SpreadsheetId
		out.UpdatedRange = u.UpdatedRange
		out.UpdatedRows = u.UpdatedRows
		out.UpdatedColumns = u.UpdatedColumns
		out.UpdatedCells = u.UpdatedCells
	}
	return out, nil
}

// appendRange returns the A1 anchor of a sheet, quoting names that need it.
func appendRange(sheetName string) string {
	if !plainSheetName.MatchString(sheetName) {
		sheetName = "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
	}
	return sheetName + "!A1"
}
