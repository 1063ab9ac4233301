package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/todo-api/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/todo-api/internal/platform/health"
	"github.com/jsamuelsen11/todo-api/mocks"
)

func TestLiveness_AlwaysOK(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(mocks.NewMockHealthRegistry(t))

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "ok", decodeJSON[map[string]string](t, rec)["status"])
}

func TestReadiness_AllHealthy(t *testing.T) {
	t.Parallel()

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{
		"todo-store": nil,
	})

	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(registry).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "ready", resp["status"])
	checks, ok := resp["checks"].(map[string]any)
	require.True(t, ok, "checks field not a map")
	assert.Equal(t, "ok", checks["todo-store"])
}

func TestReadiness_NoCheckers(t *testing.T) {
	t.Parallel()

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})

	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(registry).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	requireStatus(t, rec, http.StatusOK)
}

func TestReadiness_ClosedStoreIsNotReady(t *testing.T) {
	t.Parallel()

	store := memory.New()
	registry := health.New()
	registry.Register(store)
	require.NoError(t, store.Close())

	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(registry).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	requireStatus(t, rec, http.StatusServiceUnavailable)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "not_ready", resp["status"])
	checks, ok := resp["checks"].(map[string]any)
	require.True(t, ok, "checks field not a map")
	assert.Equal(t, memory.ErrStoreClosed.Error(), checks["todo-store"])
}

func TestProbes_NotCached(t *testing.T) {
	t.Parallel()

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})
	h := handlers.NewHealthHandler(registry)

	live := httptest.NewRecorder()
	h.Liveness(live, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))
	assert.Equal(t, "no-store", live.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, live.Body.String())

	ready := httptest.NewRecorder()
	h.Readiness(ready, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))
	assert.Equal(t, "no-store", ready.Header().Get("Cache-Control"))
}
