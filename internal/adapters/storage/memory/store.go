// Package memory provides the volatile, process-local Todo collection.
// A Store lives from process start until Close; nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// ErrStoreClosed is returned by every operation after Close.
var ErrStoreClosed = errors.New("memory: store closed")

const checkerName = "todo-store"

// Store is a thread-safe, insertion-ordered collection of todos keyed by ID.
// IDs are assigned sequentially starting at 1 and are never reused.
type Store struct {
	mu     sync.RWMutex
	items  []todo.Todo
	index  map[int64]int
	nextID int64
	closed bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

// Add assigns the next ID, appends the todo and returns a copy of it.
func (s *Store) Add(_ context.Context, t todo.Todo) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	t.ID = s.nextID
	s.nextID++

	s.index[t.ID] = len(s.items)
	s.items = append(s.items, t)

	return &t, nil
}

// FindByID returns a copy of the todo with the given ID.
func (s *Store) FindByID(_ context.Context, id int64) (*todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	pos, ok := s.index[id]
	if !ok {
		return nil, notFound(id)
	}

	t := s.items[pos]
	return &t, nil
}

// Remove deletes the todo with the given ID, keeping the order of the rest.
func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	pos, ok := s.index[id]
	if !ok {
		return notFound(id)
	}

	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ID] = i
	}

	return nil
}

// ListAll returns a copy of every todo in insertion order.
func (s *Store) ListAll(_ context.Context) ([]todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	out := make([]todo.Todo, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Update runs fn against the stored todo while holding the write lock.
// The ID is restored after fn returns so it cannot be changed.
func (s *Store) Update(_ context.Context, id int64, fn func(*todo.Todo)) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	pos, ok := s.index[id]
	if !ok {
		return nil, notFound(id)
	}

	t := s.items[pos]
	fn(&t)
	t.ID = id
	s.items[pos] = t

	return &t, nil
}

// Len returns the number of stored todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close drops all todos and ends the store's lifecycle. Calling Close more
// than once is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.items = nil
	s.index = nil
	return nil
}

// Name identifies the store in readiness results.
func (s *Store) Name() string {
	return checkerName
}

// HealthCheck reports the store as unhealthy once it has been closed.
func (s *Store) HealthCheck(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
}
