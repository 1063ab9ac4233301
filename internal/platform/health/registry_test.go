package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/todo-api/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/todo-api/internal/platform/health"
	"github.com/jsamuelsen11/todo-api/mocks"
)

func newChecker(t *testing.T, name string, err error) *mocks.MockHealthChecker {
	t.Helper()
	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return(name)
	c.EXPECT().HealthCheck(mock.Anything).Return(err)
	return c
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	results := health.New().CheckAll(context.Background())

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")

	r := health.New()
	r.Register(newChecker(t, "todo-store", nil))
	r.Register(newChecker(t, "todo-api", refused))

	results := r.CheckAll(context.Background())

	require.Len(t, results, 2)
	assert.NoError(t, results["todo-store"])
	assert.ErrorIs(t, results["todo-api"], refused)
}

func TestCheckAll_MemoryStoreLifecycle(t *testing.T) {
	t.Parallel()

	store := memory.New()
	r := health.New()
	r.Register(store)

	assert.NoError(t, r.CheckAll(context.Background())["todo-store"])

	require.NoError(t, store.Close())
	assert.ErrorIs(t, r.CheckAll(context.Background())["todo-store"], memory.ErrStoreClosed)
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("todo-store")
	checker.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() != nil
	})).Return(context.Canceled)

	r := health.New()
	r.Register(checker)

	assert.ErrorIs(t, r.CheckAll(ctx)["todo-store"], context.Canceled)
}

func TestCheckAll_SlowCheckerTimesOut(t *testing.T) {
	t.Parallel()

	slow := mocks.NewMockHealthChecker(t)
	slow.EXPECT().Name().Return("slow")
	slow.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	r := health.New(health.WithCheckTimeout(20 * time.Millisecond))
	r.Register(slow)
	r.Register(newChecker(t, "fast", nil))

	start := time.Now()
	results := r.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, results["slow"], context.DeadlineExceeded)
	assert.NoError(t, results["fast"])
}

func TestRegister_DuplicateNameReplaces(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("todo-store")

	secondErr := errors.New("second failure")

	r := health.New()
	r.Register(first)
	r.Register(newChecker(t, "todo-store", secondErr))

	results := r.CheckAll(context.Background())

	require.Len(t, results, 1)
	assert.ErrorIs(t, results["todo-store"], secondErr)
}

func TestCheckAll_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	for i := range 50 {
		if i%2 == 0 {
			wg.Go(func() {
				c := mocks.NewMockHealthChecker(t)
				c.EXPECT().Name().Return("checker").Maybe()
				c.EXPECT().HealthCheck(mock.Anything).Return(nil).Maybe()
				r.Register(c)
			})
			continue
		}
		wg.Go(func() {
			r.CheckAll(context.Background())
		})
	}
	wg.Wait()
}
