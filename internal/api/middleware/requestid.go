package middleware

import (
	"net/http"

	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

// RequestID ensures each request has an ID in the response headers and on
// the request-scoped logger, as request_id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logger.With(r.Context(), zap.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
