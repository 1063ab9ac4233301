// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import "github.com/jsamuelsen11/todo-api/internal/domain/todo"

// TodoResponse is the wire shape of a single todo.
type TodoResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:         t.ID,
		Title:      t.Title,
		IsComplete: t.IsComplete,
	}
}

// ToTodoListResponse converts todos to a JSON array body. The result is never
// nil so an empty collection encodes as [] rather than null.
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}
