package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
)

// ErrorResponse represents an RFC 9457 Problem Details response.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single field-level binding error within an
// ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := StatusFor(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes the HTTP response for a failed operation.
//
// Binding failures (400) and authentication failures (401) get an
// application/problem+json body. Not-found (404) and every unexpected failure
// (500) are written as a bare status with no body, so nothing about the
// failure reaches the client.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if !hasProblemBody(status) {
		w.WriteHeader(status)
		return
	}

	resp := NewErrorResponse(r, err)

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// StatusFor maps domain sentinel errors to HTTP status codes. Anything that
// is not a recognized domain outcome is an unexpected failure.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func hasProblemBody(status int) bool {
	return status == http.StatusBadRequest || status == http.StatusUnauthorized
}

// validationFieldsToDetails lists fields in location order so the body is
// stable.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for _, loc := range slices.Sorted(maps.Keys(fields)) {
		details = append(details, ErrorDetail{Location: loc, Message: fields[loc]})
	}
	return details
}
