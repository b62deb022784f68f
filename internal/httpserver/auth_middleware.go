package httpserver

import (
	"context"
	"net/http"
	"strings"

	"messenger/internal/security"
	"messenger/internal/service"
)

type contextKey string

const loginContextKey contextKey = "currentLogin"

// WithLogin returns a new context carrying the authenticated login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginContextKey, login)
}

// CurrentLogin extracts the authenticated login from context, if any.
func CurrentLogin(r *http.Request) string {
	login, _ := r.Context().Value(loginContextKey).(string)
	return login
}

// AuthMiddleware validates the Bearer token and attaches its login to the
// context. Tokens of deleted accounts are rejected.
func AuthMiddleware(tokens *security.TokenService, identity *service.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid Authorization header"})
				return
			}
			tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

			login, err := tokens.Parse(tokenStr)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			ok, err := identity.Exists(r.Context(), login)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user not found"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithLogin(r.Context(), login)))
		})
	}
}
