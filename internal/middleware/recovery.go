package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a handler panic into a logged 500 envelope. With
// exposeDetail (development) the panic value is echoed in the message.
// http.ErrAbortHandler is re-panicked so net/http can drop the connection.
func Recoverer(logger *slog.Logger, exposeDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				logger.Error("panic recovered",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", v),
					slog.String("stack", string(debug.Stack())),
				)

				// The client already has a status line; a second body would
				// corrupt the response.
				if rec.status != 0 {
					return
				}
				message := "Internal server error"
				if exposeDetail {
					message = fmt.Sprintf("Server error: %v", v)
				}
				writeError(rec, http.StatusInternalServerError, message)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
