package ports

import (
	"context"

	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
)

// TodoStore defines the storage port for the Todo collection.
// Implemented by storage adapters; called by the application layer.
// Every method is atomic on its own; no isolation is provided across calls.
// Returned entities are copies owned by the caller.
type TodoStore interface {
	// Add assigns a new unique ID to the todo, inserts it and returns the
	// stored entity. Any ID already set on the input is ignored.
	Add(ctx context.Context, t todo.Todo) (*todo.Todo, error)

	// FindByID returns the todo with the given ID.
	// Returns domain.ErrNotFound if no such todo exists.
	FindByID(ctx context.Context, id int64) (*todo.Todo, error)

	// Remove deletes the todo with the given ID.
	// Returns domain.ErrNotFound if no such todo exists.
	Remove(ctx context.Context, id int64) error

	// ListAll returns every stored todo in insertion order. The slice is
	// empty, not nil, when the store holds nothing.
	ListAll(ctx context.Context) ([]todo.Todo, error)

	// Update applies fn to the stored todo under the store's lock and returns
	// the result. fn must not change the ID.
	// Returns domain.ErrNotFound if no such todo exists.
	Update(ctx context.Context, id int64, fn func(*todo.Todo)) (*todo.Todo, error)
}
