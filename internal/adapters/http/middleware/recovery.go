package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/todo-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
)

// errPanic marks a recovered panic. It never reaches the client: the
// response is a bare 500.
var errPanic = errors.New("panic recovered")

// Recovery returns middleware that turns a panic in a downstream handler into
// a logged failure and a bodiless 500. When the response has already started
// only the log entry is written. http.ErrAbortHandler is re-raised so the
// server can abort the connection as usual.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				ctx := logging.WithLogger(r.Context(), logger)
				logging.Failure(ctx, "recover", fmt.Errorf("%w: %v", errPanic, v),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				if !rw.headerWritten {
					dto.WriteErrorResponse(rw, r, errPanic)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
