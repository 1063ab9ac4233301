package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// jitterFraction spreads each delay by up to ±25%.
const jitterFraction = 0.25

// doWithRetry sends req up to maxAttempts times when retryAllowed permits,
// otherwise once. The body is buffered so each attempt replays it.
//
// The final response is stored in *resp, never returned, so the caller owns
// closing it. A retryable status on the last attempt stores the response and
// also returns an error.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	attempts := 1
	if retryAllowed(ctx, req.Method) {
		attempts = c.retryCfg.maxAttempts
	}

	body, err := snapshotBody(req)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			if err := c.pause(ctx, req, attempt, lastErr); err != nil {
				return err
			}
		}
		rewindBody(req, body)

		r, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = err
			if !isRetryable(err) {
				return err
			}
		case !isRetryableStatus(r.StatusCode):
			*resp = r
			return nil
		case attempt == attempts-1:
			*resp = r
			return fmt.Errorf("HTTP %d from %s", r.StatusCode, c.serviceName)
		default:
			lastErr = fmt.Errorf("HTTP %d from %s", r.StatusCode, c.serviceName)
			discard(r)
		}
	}

	return lastErr
}

// snapshotBody reads and closes req.Body. It returns nil for a bodiless
// request.
func snapshotBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func rewindBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
}

// discard drains r so the connection can be reused by the next attempt.
func discard(r *http.Response) {
	_, _ = io.Copy(io.Discard, r.Body)
	_ = r.Body.Close()
}

// pause logs the upcoming attempt and sleeps for its backoff, returning early
// with ctx's error if ctx ends first.
func (c *Client) pause(ctx context.Context, req *http.Request, attempt int, lastErr error) error {
	delay := backoff(attempt, c.retryCfg)

	c.logger.WarnContext(ctx, "retrying HTTP request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("peer_service", c.serviceName),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff returns the jittered delay before retry number attempt (1-based).
// The exponential part is capped at maxInterval before jitter is applied.
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	delay = min(delay, float64(cfg.maxInterval))

	// Jitter only spreads retries out; it needs no cryptographic source.
	delay += delay * jitterFraction * (2*rand.Float64() - 1) //nolint:gosec
	return time.Duration(max(delay, 0))
}

// retryAllowed reports whether a request may be sent more than once. Only
// idempotent methods qualify unless ctx was marked with WithRetrySafe.
func retryAllowed(ctx context.Context, method string) bool {
	if safe, _ := ctx.Value(retrySafeKey{}).(bool); safe {
		return true
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// isRetryable treats every transport error as transient except cancellation
// and deadline expiry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableStatus reports 429 and every 5xx as worth another attempt.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
