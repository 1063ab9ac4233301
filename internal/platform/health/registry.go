// Package health holds the readiness registry. Components such as the todo
// store register at startup; the readiness endpoint runs every check on each
// probe.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen11/todo-api/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// DefaultCheckTimeout bounds a single health check.
const DefaultCheckTimeout = 2 * time.Second

// Registry is a concurrency-safe [ports.HealthRegistry].
type Registry struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout sets the per-check deadline. Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		timeout:  DefaultCheckTimeout,
		checkers: make(map[string]ports.HealthChecker),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker under its Name. A later checker with the same name
// replaces the earlier one.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// CheckAll runs every registered check concurrently, each bounded by the
// registry timeout, and returns results keyed by checker name. Nil values
// indicate healthy components.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make(map[string]ports.HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(checkers))
	)
	for name, c := range checkers {
		wg.Go(func() {
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			err := c.HealthCheck(checkCtx)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		})
	}
	wg.Wait()

	return results
}
