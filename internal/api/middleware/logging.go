package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/floreria/catalog/pkg/logger"
	"go.uber.org/zap"
)

const accessKey ctxKey = "access"

// access collects facts learned deeper in the chain, such as the caller
// once Auth has run, for the access log line.
type access struct {
	userID string
}

func noteCaller(ctx context.Context, userID string) {
	if a, ok := ctx.Value(accessKey).(*access); ok {
		a.userID = userID
	}
}

// Logging logs basic request information with request ID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		a := &access{}
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), accessKey, a)))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if a.userID != "" {
			fields = append(fields, zap.String("user_id", a.userID))
		}
		log := logger.FromContext(r.Context())
		if rw.status >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) { s.status = code; s.ResponseWriter.WriteHeader(code) }
