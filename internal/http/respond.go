package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "error", err, "path", r.URL.Path, "status", status)
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

var validationErrors = []error{
	core.ErrMissingUser,
	core.ErrEmptyCategory,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrInvalidDateRange,
	core.ErrInvalidType,
	core.ErrInvalidPeriod,
	core.ErrInvalidFrequency,
	core.ErrInvalidReportType,
	core.ErrInvalidGrouping,
	core.ErrDescriptionTooLong,
	reports.ErrUnsupportedReportType,
}

func statusForError(err error) int {
	var badReq errBadRequest
	if errors.As(err, &badReq) {
		return http.StatusBadRequest
	}
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// decodeBody reads a JSON request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadRequest{reason: "invalid JSON body: " + err.Error()}
	}
	return nil
}

// errBadRequest marks malformed requests so writeError maps them to 400.
type errBadRequest struct {
	reason string
}

func (e errBadRequest) Error() string { return e.reason }

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
