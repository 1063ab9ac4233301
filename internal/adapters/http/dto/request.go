package dto

import "github.com/jsamuelsen11/todo-api/internal/domain/todo"

// AddTodoRequest represents the JSON body for creating a new todo.
// ID is accepted so that clients echoing a full Todo still bind, but it is
// never used: the store always assigns the ID.
type AddTodoRequest struct {
	ID         *int64 `json:"id,omitempty"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

// ToDomain maps the request onto an unsaved domain Todo.
func (r *AddTodoRequest) ToDomain() todo.Todo {
	return todo.New(r.Title, r.IsComplete)
}
