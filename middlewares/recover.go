package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"todo-api/utils"
)

// Recover turns a handler panic into a 500 envelope.
func Recover(ew *utils.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ew.Logger.Debug("panic stack", "stack", string(debug.Stack()))
				ew.Write(w, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
