package todoapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/todo-api/internal/adapters/clients/todoapi"
	adapthttp "github.com/jsamuelsen11/todo-api/internal/adapters/http"
	"github.com/jsamuelsen11/todo-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/todo-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/todo-api/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/todo-api/internal/app"
	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
	"github.com/jsamuelsen11/todo-api/internal/platform/config"
	"github.com/jsamuelsen11/todo-api/internal/platform/health"
	"github.com/jsamuelsen11/todo-api/internal/platform/httpclient"
)

const (
	testPrefix = "/todo"
	testSecret = "client-test-secret"
)

func clientConfig(baseURL, token string, attempts int) *config.ClientConfig {
	return &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Token:   token,
		Retry: config.RetryConfig{
			MaxAttempts:     attempts,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// serveAPI starts the real router over a fresh memory store.
func serveAPI(t *testing.T, auth config.AuthConfig) *httptest.Server {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	router := adapthttp.NewRouter(testPrefix,
		handlers.NewTodoHandler(app.NewTodoService(store, nil, nil), testPrefix),
		handlers.NewHealthHandler(health.New()),
		middleware.Authenticate(auth),
		middleware.Recovery(nil),
	)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, baseURL, token string) *todoapi.Client {
	t.Helper()
	return todoapi.New(httpclient.New(clientConfig(baseURL, token, 1), "todo-api", nil, nil), nil)
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()

	ts := serveAPI(t, config.AuthConfig{})
	c := newClient(t, ts.URL+testPrefix, "")
	ctx := context.Background()

	msg, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, handlers.PingMessage, msg)

	created, loc, err := c.AddTodo(ctx, todo.Todo{ID: 42, Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, &todo.Todo{ID: 1, Title: "buy milk"}, created)
	assert.Equal(t, "/todo/1", loc)

	_, _, err = c.AddTodo(ctx, todo.New("walk dog", true))
	require.NoError(t, err)

	require.NoError(t, c.MarkComplete(ctx, 1))
	require.NoError(t, c.MarkComplete(ctx, 1))

	got, err := c.GetTodo(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsComplete)

	list, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []todo.Todo{
		{ID: 1, Title: "buy milk", IsComplete: true},
		{ID: 2, Title: "walk dog", IsComplete: true},
	}, list)

	require.NoError(t, c.DeleteTodo(ctx, 1))
	assert.ErrorIs(t, c.DeleteTodo(ctx, 1), domain.ErrNotFound)
	_, err = c.GetTodo(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, c.MarkComplete(ctx, 1), domain.ErrNotFound)
}

func TestClient_ListEmpty(t *testing.T) {
	t.Parallel()

	ts := serveAPI(t, config.AuthConfig{})
	list, err := newClient(t, ts.URL+testPrefix, "").ListTodos(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_Auth(t *testing.T) {
	t.Parallel()

	ts := serveAPI(t, config.AuthConfig{Enabled: true, Secret: testSecret})
	ctx := context.Background()

	t.Run("ping is open", func(t *testing.T) {
		t.Parallel()
		_, err := newClient(t, ts.URL+testPrefix, "").Ping(ctx)
		assert.NoError(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		_, err := newClient(t, ts.URL+testPrefix, "").ListTodos(ctx)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "todoctl",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newClient(t, ts.URL+testPrefix, token).ListTodos(ctx)
		assert.NoError(t, err)
	})
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	_, err := newClient(t, ts.URL, "").GetTodo(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClient_MarkCompleteRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/7/completed", r.URL.Path)
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)

	c := todoapi.New(httpclient.New(clientConfig(ts.URL, "", 3), "todo-api", nil, nil), nil)
	require.NoError(t, c.MarkComplete(context.Background(), 7))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_AddTodoIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	c := todoapi.New(httpclient.New(clientConfig(ts.URL, "", 3), "todo-api", nil, nil), nil)
	_, _, err := c.AddTodo(context.Background(), todo.New("x", false))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UndecodableBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"one"`))
	}))
	t.Cleanup(ts.Close)

	_, err := newClient(t, ts.URL, "").GetTodo(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	c := newClient(t, "http://127.0.0.1:1", "")
	assert.Equal(t, "todo-api", c.Name())
	assert.NoError(t, c.HealthCheck(context.Background()))
}
