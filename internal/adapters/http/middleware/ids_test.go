package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/middleware"
)

func captureIDs(reqID, corrID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reqID = middleware.RequestIDFromContext(r.Context())
		*corrID = middleware.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	var reqID, corrID string
	handler := middleware.Chain(middleware.RequestID(), middleware.CorrelationID())(captureIDs(&reqID, &corrID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	parsed, err := uuid.Parse(reqID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.Equal(t, reqID, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, reqID, corrID, "correlation ID falls back to the request ID")
}

func TestRequestID_ReusesInboundHeaders(t *testing.T) {
	t.Parallel()

	var reqID, corrID string
	handler := middleware.Chain(middleware.RequestID(), middleware.CorrelationID())(captureIDs(&reqID, &corrID))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set("X-Correlation-ID", "corr-456")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", reqID)
	assert.Equal(t, "corr-456", corrID)
	assert.Equal(t, "corr-456", rec.Header().Get("X-Correlation-ID"))
}

func TestRequestID_ReplacesOversizedInbound(t *testing.T) {
	t.Parallel()

	var reqID, corrID string
	handler := middleware.Chain(middleware.RequestID(), middleware.CorrelationID())(captureIDs(&reqID, &corrID))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", strings.Repeat("a", 500))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	_, err := uuid.Parse(reqID)
	assert.NoError(t, err)
}

func TestIDsFromBareContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	assert.Empty(t, middleware.RequestIDFromContext(req.Context()))
	assert.Empty(t, middleware.CorrelationIDFromContext(req.Context()))
}
