// Package ports declares the seams of the todo service.
//
// TodoService is implemented by internal/app and consumed by the HTTP
// handlers. TodoStore is implemented by the storage adapters, TodoClient by
// the outbound API client used from todoctl, and HealthChecker by anything
// the readiness probe should consult.
package ports
