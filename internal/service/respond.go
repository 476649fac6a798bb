package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitshare/internal/extraction"
)

// DefaultMaxBodyBytes bounds request bodies; order pages can be large.
const DefaultMaxBodyBytes = 10 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorResponse is the uniform failure payload of the JSON routes.
type errorResponse struct {
	Error any `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// badRequest reports an input error.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// upstreamError reports a failed upstream call, carrying the upstream
// response body when there is one.
func upstreamError(w http.ResponseWriter, err error) {
	var apiErr *extraction.APIError
	if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apiErr.Body})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// decode reads a size-limited JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(dst)
}
