package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
)

// parseID extracts an int64 path parameter from the chi URL params.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid integer"},
		}
	}
	return id, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError is the single outcome mapper shared by every Todo endpoint.
// Binding and not-found outcomes are expected and written as is; anything
// else is logged once here and answered with a bodiless 500.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if dto.StatusFor(err) == http.StatusInternalServerError {
		logging.Failure(r.Context(), operation, err)
	}
	dto.WriteErrorResponse(w, r, err)
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes. A missing, malformed or mistyped body is a
// binding failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		msg := "invalid JSON"
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is required"
		case errors.As(err, &typeErr) && typeErr.Field != "":
			msg = "field " + typeErr.Field + " has the wrong type"
		}
		return &domain.ValidationError{Fields: map[string]string{"body": msg}}
	}
	return nil
}
