package ports

import (
	"context"

	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
)

// TodoService defines the service port for Todo use cases.
// Implemented by the application layer; called by inbound adapters (handlers).
// Each method performs exactly one storage call.
type TodoService interface {
	// AddTodo stores a new todo and returns it with its server-assigned ID.
	AddTodo(ctx context.Context, t todo.Todo) (*todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// ListTodos returns all todos in insertion order.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// DeleteTodo removes a todo.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id int64) error

	// MarkComplete sets IsComplete on a todo. Completing an already complete
	// todo succeeds without change.
	// Returns domain.ErrNotFound if the todo does not exist.
	MarkComplete(ctx context.Context, id int64) error
}
