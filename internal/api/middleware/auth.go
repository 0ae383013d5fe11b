package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/auth"
	appErr "github.com/floreria/catalog/pkg/errors"
)

type identityKeyType string

const IdentityKey identityKeyType = "identity"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// Auth validates a Bearer JWT and adds the caller's identity to the context.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				types.WriteJSON(w, http.StatusUnauthorized,
					types.NewError(appErr.CodeUnauthorized, "No se proporcionó un token de autenticación válido"))
				return
			}
			id, err := tokens.Parse(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				types.WriteJSON(w, http.StatusUnauthorized,
					types.NewError(appErr.CodeUnauthorized, "Token de autenticación inválido"))
				return
			}
			noteCaller(r.Context(), id.UserID.String())
			ctx := context.WithValue(r.Context(), IdentityKey, *id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the ADMIN role. It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r.Context())
		if !ok || !id.IsAdmin() {
			types.WriteJSON(w, http.StatusForbidden,
				types.NewError(appErr.CodeForbidden, "Acceso denegado: se requiere rol de administrador"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity returns the identity Auth stored in ctx.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(auth.Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}
