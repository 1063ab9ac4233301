package ports

import (
	"context"

	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
)

// TodoClient defines the client port for a remote TODO API.
// Implemented by the todoapi adapter; called by the command line client.
// Remote outcomes are mapped back onto domain errors, so a 404 surfaces as
// domain.ErrNotFound and a 5xx as domain.ErrUnavailable.
type TodoClient interface {
	// Ping returns the greeting served by the API's liveness endpoint.
	Ping(ctx context.Context) (string, error)

	// AddTodo creates a todo and returns the stored entity along with the
	// Location the server reported for it.
	AddTodo(ctx context.Context, t todo.Todo) (*todo.Todo, string, error)

	// GetTodo fetches a single todo.
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// ListTodos fetches every todo.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// DeleteTodo removes a todo.
	DeleteTodo(ctx context.Context, id int64) error

	// MarkComplete marks a todo complete.
	MarkComplete(ctx context.Context, id int64) error
}
