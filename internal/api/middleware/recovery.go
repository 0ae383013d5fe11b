package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/floreria/catalog/internal/api/types"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"go.uber.org/zap"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				types.WriteJSON(w, http.StatusInternalServerError,
					types.NewError(appErr.CodeInternal, "Error interno del servidor"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
