package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"engrave-backend/internal/auth"
)

type contextKey string

const UsernameKey contextKey = "username"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	enabled    bool
}

// NewAuthMiddleware builds the admin auth guard. With no JWT secret
// configured the guard passes everything through, for local development.
func NewAuthMiddleware(jwtManager *auth.JWTManager, secret string) *AuthMiddleware {
	if secret == "" {
		log.Printf("[Auth] No JWT secret configured, admin routes are unprotected")
	}
	return &AuthMiddleware{jwtManager: jwtManager, enabled: secret != ""}
}

// Authenticate validates the Bearer token on admin routes.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUsernameFromContext extracts the admin username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
