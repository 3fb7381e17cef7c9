package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/clinicapi"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}

// handleError maps the error taxonomy onto status codes.
func handleError(w http.ResponseWriter, err error) {
	var (
		formatErr   *schedule.FormatError
		notFoundErr *clinicapi.NotFoundError
		netErr      *clinicapi.NetworkError
	)
	switch {
	case errors.As(err, &formatErr):
		writeError(w, http.StatusBadRequest, "invalid_format", formatErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.As(err, &netErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:          "upstream_error",
			Details:        err.Error(),
			UpstreamStatus: netErr.Status,
		})
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
