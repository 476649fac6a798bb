package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/sheets"
)

// SheetClient reads and appends to spreadsheets.
type SheetClient interface {
	Describe(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error)
	Append(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) (*sheets.Updates, error)
}

type testSheetRequest struct {
	SheetURLOrID string `json:"sheetUrlOrId" validate:"required"`
}

type testSheetResponse struct {
	OK          bool                `json:"ok"`
	Spreadsheet *sheets.Spreadsheet `json:"spreadsheet"`
}

type writeSheetRequest struct {
	SheetURLOrID string  `json:"sheetUrlOrId" validate:"required"`
	SheetName    string  `json:"sheetName"`
	Rows         [][]any `json:"rows" validate:"required"`
}

type writeSheetResponse struct {
	OK      bool            `json:"ok"`
	Updates *sheets.Updates `json:"updates"`
}

// SheetService serves spreadsheet connectivity checks and exports.
type SheetService struct {
	client       SheetClient
	metrics      *metrics.Metrics
	maxBodyBytes int64
}

// NewSheetService creates a SheetService backed by the given client.
func NewSheetService(client SheetClient, m *metrics.Metrics) *SheetService {
	return &SheetService{client: client, metrics: m, maxBodyBytes: DefaultMaxBodyBytes}
}

// TestSheet handles POST /test-sheet.
func (s *SheetService) TestSheet(w http.ResponseWriter, r *http.Request) {
	var req testSheetRequest
	if err := decode(w, r, s.maxBodyBytes, &req); err != nil || strings.TrimSpace(req.SheetURLOrID) == "" {
		badRequest(w, "Provide sheetUrlOrId")
		return
	}

	id := sheets.SpreadsheetID(req.SheetURLOrID)
	spreadsheet, err := s.client.Describe(r.Context(), id)
	if err != nil {
		slog.Error("TestSheet failed", "spreadsheet_id", id, "error", err)
		s.metrics.ObserveUpstreamError(metrics.UpstreamSheets)
		upstreamError(w, err)
		return
	}

	slog.Info("Spreadsheet reachable", "spreadsheet_id", id, "title", spreadsheet.Title, "sheets", len(spreadsheet.Sheets))
	writeJSON(w, http.StatusOK, testSheetResponse{OK: true, Spreadsheet: spreadsheet})
}

// WriteSheet handles POST /write-sheet.
func (s *SheetService) WriteSheet(w http.ResponseWriter, r *http.Request) {
	var req writeSheetRequest
	if err := decode(w, r, s.maxBodyBytes, &req); err != nil || strings.TrimSpace(req.SheetURLOrID) == "" {
		badRequest(w, "Provide sheetUrlOrId and rows array")
		return
	}

	id := sheets.SpreadsheetID(req.SheetURLOrID)
	sheetName := strings.TrimSpace(req.SheetName)
	if sheetName == "" {
		sheetName = sheets.DefaultSheetName
	}

	updates, err := s.client.Append(r.Context(), id, sheetName, req.Rows)
	if err != nil {
		slog.Error("WriteSheet failed", "spreadsheet_id", id, "sheet", sheetName, "error", err)
		s.metrics.ObserveUpstreamError(metrics.UpstreamSheets)
		upstreamError(w, err)
		return
	}

	s.metrics.RowsWritten.Add(float64(len(req.Rows)))
	slog.Info("Rows appended", "spreadsheet_id", id, "sheet", sheetName, "rows", len(req.Rows), "range", updates.UpdatedRange)
	writeJSON(w, http.StatusOK, writeSheetResponse{OK: true, Updates: updates})
}
