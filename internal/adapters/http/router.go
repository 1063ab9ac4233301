// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
//
// The todo routes are mounted under prefix ("" mounts them at the root).
// auth, when non-nil, guards the todo resource routes; ping and the health
// endpoints are always open. middlewares are applied globally in the order
// given.
func NewRouter(
	prefix string,
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	auth func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	todoRoutes := func(r chi.Router) {
		r.Get("/ping", todoHandler.Ping)

		r.Group(func(r chi.Router) {
			if auth != nil {
				r.Use(auth)
			}
			r.Post("/", todoHandler.AddTodo)
			r.Get("/all", todoHandler.ListTodos)
			r.Get("/{id}", todoHandler.GetTodo)
			r.Delete("/{id}", todoHandler.DeleteTodo)
			r.Patch("/{id}/completed", todoHandler.MarkComplete)
		})
	}

	if prefix == "" {
		r.Group(todoRoutes)
	} else {
		r.Route(prefix, todoRoutes)
	}

	return r
}
