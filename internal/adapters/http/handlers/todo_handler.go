package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// PingMessage is the fixed liveness greeting of the Todo API.
const PingMessage = "Welcome to TODO API!"

// TodoHandler handles HTTP requests for the Todo resource. Each handler binds
// its input, calls exactly one service operation, and maps the outcome.
type TodoHandler struct {
	svc    ports.TodoService
	prefix string
}

// NewTodoHandler creates a new TodoHandler. prefix is the path the Todo
// routes are mounted under and is used to build Location headers.
func NewTodoHandler(svc ports.TodoService, prefix string) *TodoHandler {
	return &TodoHandler{svc: svc, prefix: prefix}
}

// Ping handles GET {prefix}/ping.
func (h *TodoHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, PingMessage)
}

// AddTodo handles POST {prefix}/.
func (h *TodoHandler) AddTodo(w http.ResponseWriter, r *http.Request) {
	var req dto.AddTodoRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(w, r, "AddTodo", err)
		return
	}

	created, err := h.svc.AddTodo(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, r, "AddTodo", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", h.prefix, created.ID))
	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(created))
}

// GetTodo handles GET {prefix}/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, "GetTodo", err)
		return
	}

	t, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		writeError(w, r, "GetTodo", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(t))
}

// ListTodos handles GET {prefix}/all.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		writeError(w, r, "ListTodos", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// DeleteTodo handles DELETE {prefix}/{id}.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, "DeleteTodo", err)
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
		writeError(w, r, "DeleteTodo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkComplete handles PATCH {prefix}/{id}/completed.
func (h *TodoHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, "MarkComplete", err)
		return
	}

	if err := h.svc.MarkComplete(r.Context(), id); err != nil {
		writeError(w, r, "MarkComplete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
