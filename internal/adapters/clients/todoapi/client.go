// Package todoapi is the outbound adapter for a remote TODO API. It speaks
// the service's own wire format and maps HTTP outcomes back onto domain
// errors, so callers such as todoctl handle domain.ErrNotFound the same way
// the server side does.
package todoapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
	"github.com/jsamuelsen11/todo-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoClient    = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client implements [ports.TodoClient]. The base URL of the underlying
// [httpclient.Client] must include the route prefix, for example
// "http://localhost:8080/todo". Circuit breaking, retries, rate limiting and
// tracing all come from the httpclient.
type Client struct {
	http *httpclient.Client
	req  *Requester
}

// New creates a Client that sends requests through hc. logger may be nil.
func New(hc *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{http: hc, req: NewRequester(hc, logger)}
}

// Ping fetches the greeting from GET /ping.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var msg string
	if _, err := c.req.Do(ctx, http.MethodGet, "/ping", http.StatusOK, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// AddTodo sends POST / and returns the created todo with the Location the
// server reported. Any ID set on t is not sent.
func (c *Client) AddTodo(ctx context.Context, t todo.Todo) (*todo.Todo, string, error) {
	var body todoBody
	hdr, err := c.req.Do(ctx, http.MethodPost, "/", http.StatusCreated, toAddTodoBody(t), &body)
	if err != nil {
		return nil, "", err
	}
	created := body.toDomain()
	return &created, hdr.Get("Location"), nil
}

// GetTodo fetches GET /{id}. Returns domain.ErrNotFound on 404.
func (c *Client) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	var body todoBody
	if _, err := c.req.Do(ctx, http.MethodGet, todoPath(id), http.StatusOK, nil, &body); err != nil {
		return nil, err
	}
	t := body.toDomain()
	return &t, nil
}

// ListTodos fetches GET /all.
func (c *Client) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	var bodies []todoBody
	if _, err := c.req.Do(ctx, http.MethodGet, "/all", http.StatusOK, nil, &bodies); err != nil {
		return nil, err
	}
	return toDomainList(bodies), nil
}

// DeleteTodo sends DELETE /{id}. Returns domain.ErrNotFound on 404.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	_, err := c.req.Do(ctx, http.MethodDelete, todoPath(id), http.StatusNoContent, nil, nil)
	return err
}

// MarkComplete sends PATCH /{id}/completed. Completion is idempotent on the
// server, so the call is marked safe to retry.
func (c *Client) MarkComplete(ctx context.Context, id int64) error {
	path := todoPath(id) + "/completed"
	_, err := c.req.Do(httpclient.WithRetrySafe(ctx), http.MethodPatch, path, http.StatusNoContent, nil, nil)
	return err
}

// Name returns the identifier used for health registration.
func (c *Client) Name() string {
	return c.http.Name()
}

// HealthCheck reports the breaker state of the underlying client. No network
// call is made.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.http.HealthCheck(ctx)
}

func todoPath(id int64) string {
	return fmt.Sprintf("/%d", id)
}
