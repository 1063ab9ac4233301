package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/todo-api/internal/platform/config"
	"github.com/jsamuelsen11/todo-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/todo-api/internal/platform/telemetry"
)

func testConfig(baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// countingServer answers the first failCount requests with failStatus and
// the rest with 200, recording request bodies.
type countingServer struct {
	*httptest.Server
	count  atomic.Int32
	mu     sync.Mutex
	bodies []string
}

func newCountingServer(t *testing.T, failCount int, failStatus int) *countingServer {
	t.Helper()
	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.bodies = append(cs.bodies, string(b))
		cs.mu.Unlock()

		if int(cs.count.Add(1)) <= failCount {
			w.WriteHeader(failStatus)
			_, _ = io.WriteString(w, "unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(cs.Close)
	return cs
}

func do(t *testing.T, ctx context.Context, c *httpclient.Client, method, url, body string) (*http.Response, error) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	require.NoError(t, err)

	resp, err := c.Do(ctx, req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 0, 0)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	resp, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/ping", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestDo_RetryOnRetryableStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		failStatus   int
		failCount    int
		wantAttempts int32
	}{
		{name: "5xx retries until success", failStatus: http.StatusInternalServerError, failCount: 2, wantAttempts: 3},
		{name: "429 retries until success", failStatus: http.StatusTooManyRequests, failCount: 1, wantAttempts: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newCountingServer(t, tt.failCount, tt.failStatus)
			client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

			resp, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantAttempts, srv.count.Load())
		})
	}
}

func TestDo_NoRetryOn4xx(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 10, http.StatusNotFound)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	resp, err := do(t, context.Background(), client, http.MethodDelete, srv.URL+"/todo/9", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), srv.count.Load())
}

func TestDo_MaxRetriesExhausted(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 10, http.StatusServiceUnavailable)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	resp, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	require.Error(t, err)
	assert.Equal(t, int32(3), srv.count.Load())

	require.NotNil(t, resp, "last response is returned with its body")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "unavailable", string(body))
}

func TestDo_PostIsNotRetried(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 1, http.StatusInternalServerError)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	resp, err := do(t, context.Background(), client, http.MethodPost, srv.URL+"/todo/", `{"title":"x"}`)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), srv.count.Load(), "a retried POST could create a duplicate todo")
}

func TestDo_RetrySafeBodyReplayed(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 1, http.StatusInternalServerError)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	ctx := httpclient.WithRetrySafe(context.Background())
	resp, err := do(t, ctx, client, http.MethodPatch, srv.URL+"/todo/1/completed", "hello")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"hello", "hello"}, srv.bodies)
}

func TestDo_HeaderInjection(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Token = "client-token"
	client := httpclient.New(cfg, "todo-api", nil, nil)

	ctx := httpclient.WithRequestID(context.Background(), "req-123")
	ctx = httpclient.WithCorrelationID(ctx, "corr-456")

	_, err := do(t, ctx, client, http.MethodGet, srv.URL+"/todo/all", "")
	require.NoError(t, err)
	assert.Equal(t, "req-123", got.Get("X-Request-ID"))
	assert.Equal(t, "corr-456", got.Get("X-Correlation-ID"))
	assert.Equal(t, "Bearer client-token", got.Get("Authorization"))
}

func TestDo_NoHeadersWithoutContext(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	_, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	require.NoError(t, err)
	assert.Empty(t, got.Get("X-Request-ID"))
	assert.Empty(t, got.Get("X-Correlation-ID"))
	assert.Empty(t, got.Get("Authorization"))
}

func TestDo_CircuitBreakerOpensAndRecovers(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	cfg.Retry.MaxAttempts = 1
	client := httpclient.New(cfg, "todo-api", nil, nil)

	_, _ = do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	assert.ErrorContains(t, client.HealthCheck(context.Background()), "failing")

	before := hits.Load()
	_, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, hits.Load(), "server must not be hit while the breaker is open")

	time.Sleep(150 * time.Millisecond)
	assert.ErrorContains(t, client.HealthCheck(context.Background()), "degraded")

	failing.Store(false)
	resp, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 10, http.StatusInternalServerError)
	client := httpclient.New(testConfig(srv.URL), "todo-api", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := do(t, ctx, client, http.MethodGet, srv.URL+"/todo/all", "")
	assert.Error(t, err)
}

func TestDo_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, 0, 0)
	cfg := testConfig(srv.URL)
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1}
	client := httpclient.New(cfg, "todo-api", nil, nil)

	_, err := do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/ping", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = do(t, ctx, client, http.MethodGet, srv.URL+"/todo/ping", "")
	require.Error(t, err)
	assert.Equal(t, int32(1), srv.count.Load())
}

func TestDo_RecordsClientMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := telemetry.NewMetrics(mp)
	require.NoError(t, err)

	srv := newCountingServer(t, 0, 0)
	client := httpclient.New(testConfig(srv.URL), "todo-api", metrics, nil)

	_, err = do(t, context.Background(), client, http.MethodGet, srv.URL+"/todo/all", "")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.client.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				result, _ := dp.Attributes.Value(telemetry.AttrResult)
				assert.Equal(t, "success", result.AsString())
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), total)
}

func TestClient_Accessors(t *testing.T) {
	t.Parallel()

	client := httpclient.New(testConfig("http://localhost:8080/todo"), "todo-api", nil, nil)

	assert.Equal(t, "todo-api", client.Name())
	assert.Equal(t, "http://localhost:8080/todo", client.BaseURL())
	assert.NoError(t, client.HealthCheck(context.Background()))
}
