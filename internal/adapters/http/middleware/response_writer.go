// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// The server composes them in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → router
//
// Authenticate is not part of the global chain; the router applies it to the
// todo resource routes only.
package middleware

import "net/http"

// responseWriter records the status code and byte count of a response so
// that Recovery, OpenTelemetry and Logging can report on it.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the first status code and forwards it.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write forwards b; the first write without WriteHeader implies 200.
func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
