package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Sentinels checked with errors.Is at the edges. Storage and the service
// only ever produce ErrNotFound; the others come from request binding,
// authentication and the outbound client.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

// ValidationError lists binding failures keyed by input location ("body",
// "id", ...). It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
