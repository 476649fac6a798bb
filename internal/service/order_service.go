package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/splitshare/internal/extraction"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/normalize"
)

// ItemsFoundHeader reports how many items the normalizer found in an
// extraction response.
const ItemsFoundHeader = "X-Items-Found"

// Extractor turns an order page into raw structured data.
type Extractor interface {
	Extract(ctx context.Context, page extraction.Page) (json.RawMessage, error)
}

type extractRequest struct {
	HTML string `json:"html" validate:"required_without=URL"`
	URL  string `json:"url" validate:"required_without=HTML"`
}

// OrderService serves order extraction.
type OrderService struct {
	extractor    Extractor
	metrics      *metrics.Metrics
	maxBodyBytes int64
}

// NewOrderService creates an OrderService backed by the given extractor.
func NewOrderService(extractor Extractor, m *metrics.Metrics) *OrderService {
	return &OrderService{extractor: extractor, metrics: m, maxBodyBytes: DefaultMaxBodyBytes}
}

// ExtractOrder handles POST /extract-order. The provider response is passed
// through unchanged; clients normalize it themselves.
func (s *OrderService) ExtractOrder(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decode(w, r, s.maxBodyBytes, &req); err != nil {
		slog.Debug("ExtractOrder rejected", "error", err)
		badRequest(w, "Must provide either html or url")
		return
	}

	raw, err := s.extractor.Extract(r.Context(), extraction.Page{
		HTML: req.HTML,
		URL:  strings.TrimSpace(req.URL),
	})
	if err != nil {
		slog.Error("Extraction failed", "url", req.URL, "error", err)
		s.metrics.ObserveUpstreamError(metrics.UpstreamExtraction)
		upstreamError(w, err)
		return
	}

	found := len(normalize.Items(raw))
	s.metrics.ItemsExtracted.Observe(float64(found))
	if found == 0 {
		slog.Warn("No items found in extraction response", "url", req.URL, "response_bytes", len(raw))
	} else {
		slog.Info("Order extracted", "url", req.URL, "items", found)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ItemsFoundHeader, strconv.Itoa(found))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		slog.Error("Failed to write extraction response", "error", err)
	}
}
