// Package main is the entry point for the TODO API server. Dependencies are
// wired with samber/do v2 and the process shuts down gracefully on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/todo-api/internal/adapters/http"
	"github.com/jsamuelsen11/todo-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/todo-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/todo-api/internal/adapters/storage/memory"

	"github.com/jsamuelsen11/todo-api/internal/app"
	"github.com/jsamuelsen11/todo-api/internal/platform/config"
	"github.com/jsamuelsen11/todo-api/internal/platform/health"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
	"github.com/jsamuelsen11/todo-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := config.ProfileFromEnv("")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	registerDependencies(injector, cfg, logger)

	// Resolving the server wires the whole graph, the store included.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	store := do.MustInvoke[*memory.Store](injector)
	do.MustInvoke[ports.HealthRegistry](injector).Register(store)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		runErr = fmt.Errorf("server failed: %w", err)
		serverErr <- nil
	}

	shutdown(logger, server, serverErr, store, otel)
	return runErr
}

// shutdown drains in-flight requests before closing the store. Telemetry is
// flushed last so spans from the drained requests are exported.
func shutdown(logger *slog.Logger, server *adapthttp.Server, serverErr <-chan error, store *memory.Store, otel *telemetry.Providers) {
	drainCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}
	<-serverErr

	if err := store.Close(); err != nil {
		logger.Error("store close error", slog.Any("error", err))
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer flushCancel()

	if err := otel.Shutdown(flushCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*memory.Store, error) {
		return memory.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		store := do.MustInvoke[*memory.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewTodoService(store, metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc, cfg.Server.RoutePrefix), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		todoH := do.MustInvoke[*handlers.TodoHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(cfg.Server.RoutePrefix, todoH, healthH,
			middleware.Authenticate(cfg.Auth),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
