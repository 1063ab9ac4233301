package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/todo-api/internal/platform/httpclient"
)

// maxTextBodySize bounds plain text responses such as the ping greeting.
const maxTextBodySize = 64 << 10

// Requester owns the request lifecycle for API calls: building the request,
// JSON encoding, sending it through httpclient.Client, status checking,
// error translation and decoding.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by the given HTTP client and logger.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// Do sends method to the base URL joined with path and expects wantStatus.
//
// reqBody, when non-nil, is sent as JSON. respBody, when non-nil, receives the
// response: a *string gets the raw text, anything else is JSON decoded. The
// response headers are returned on success so callers can read Location.
// A different status is translated by TranslateHTTPError.
func (r *Requester) Do(ctx context.Context, method, path string, wantStatus int, reqBody, respBody any) (http.Header, error) {
	url := r.client.BaseURL() + path

	body := io.Reader(http.NoBody)
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s body for %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return r.execute(req, wantStatus, respBody)
}

func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

func (r *Requester) execute(req *http.Request, wantStatus int, respBody any) (http.Header, error) {
	ctx := req.Context()

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		// Exhausted retries on a retryable status still hand back the last
		// response; translate it rather than surfacing the retry error.
		if resp != nil {
			defer r.closeBody(ctx, resp)
			if resp.StatusCode != wantStatus {
				return nil, TranslateHTTPError(resp)
			}
		}
		r.logger.DebugContext(ctx, "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer r.closeBody(ctx, resp)

	if resp.StatusCode != wantStatus {
		r.logger.DebugContext(ctx, "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return nil, TranslateHTTPError(resp)
	}

	switch dst := respBody.(type) {
	case nil:
	case *string:
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBodySize))
		if err != nil {
			return nil, fmt.Errorf("reading response from %s %s: %w", req.Method, req.URL.Path, err)
		}
		*dst = string(b)
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return nil, fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
		}
	}

	return resp.Header, nil
}
