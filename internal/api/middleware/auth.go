package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/daybook/daybook/internal/api/handlers"
	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/apperr"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(raw string) (*services.Claims, error)
}

// RequireUser guards routes carrying a {userId} path value. The caller's
// token, from the Authorization header or the token cookie, must belong to
// that user. When enabled is false every request passes through.
func RequireUser(enabled bool, tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			raw := bearerToken(r)
			if raw == "" {
				handlers.WriteError(w, r, apperr.ErrUnauthorized)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil || claims.UserID != r.PathValue("userId") {
				handlers.WriteError(w, r, apperr.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}
