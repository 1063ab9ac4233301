// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
	"github.com/jsamuelsen11/todo-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// Operation names used in logs and the todo.operation.total metric.
const (
	opAddTodo      = "AddTodo"
	opGetTodo      = "GetTodo"
	opListTodos    = "ListTodos"
	opDeleteTodo   = "DeleteTodo"
	opMarkComplete = "MarkComplete"
)

// Metric result values.
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultError    = "error"
)

// TodoService implements ports.TodoService on top of a ports.TodoStore.
// Every use case is a single store call; the service adds structured logging
// and operation metrics but makes no decisions about HTTP status codes.
type TodoService struct {
	store   ports.TodoStore
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewTodoService creates a TodoService. A nil logger is replaced with a
// discarding one; nil metrics disable metric recording.
func NewTodoService(store ports.TodoStore, metrics *telemetry.Metrics, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TodoService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// AddTodo stores a new todo. The ID is always assigned by the store; the
// completion flag is taken from the caller.
func (s *TodoService) AddTodo(ctx context.Context, t todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "adding todo", slog.Bool("is_complete", t.IsComplete))

	t.ID = 0
	created, err := s.store.Add(ctx, t)
	s.record(ctx, opAddTodo, err)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "todo added", slog.Int64("id", created.ID))
	return created, nil
}

// GetTodo returns a single todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.Int64("id", id))

	t, err := s.store.FindByID(ctx, id)
	s.record(ctx, opGetTodo, err)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTodos returns every todo in insertion order.
func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	todos, err := s.store.ListAll(ctx)
	s.record(ctx, opListTodos, err)
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// DeleteTodo removes a todo regardless of its completion state.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.Int64("id", id))

	err := s.store.Remove(ctx, id)
	s.record(ctx, opDeleteTodo, err)
	return err
}

// MarkComplete moves a todo to the complete state in one atomic store call.
// It succeeds without change when the todo is already complete.
func (s *TodoService) MarkComplete(ctx context.Context, id int64) error {
	s.logger.InfoContext(ctx, "marking todo complete", slog.Int64("id", id))

	changed := false
	_, err := s.store.Update(ctx, id, func(t *todo.Todo) {
		changed = t.MarkComplete()
	})
	s.record(ctx, opMarkComplete, err)
	if err != nil {
		return err
	}

	if !changed {
		s.logger.DebugContext(ctx, "todo already complete", slog.Int64("id", id))
	}
	return nil
}

// record counts the outcome of one operation and logs expected absences at
// debug level. Unexpected failures are logged by the HTTP boundary.
func (s *TodoService) record(ctx context.Context, operation string, err error) {
	result := resultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = resultNotFound
		s.logger.DebugContext(ctx, "todo not found",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
	default:
		result = resultError
	}

	if s.metrics == nil {
		return
	}
	s.metrics.TodoOperationTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrOperation.String(operation),
		telemetry.AttrResult.String(result),
	))
}
