package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/soundseek/api/internal/application/session"
	"github.com/soundseek/api/internal/domain"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "sessionToken"
)

// Auth returns middleware that resolves the Bearer session token to its user
// and injects both into the request context. The four failure modes (missing
// header, missing token, invalid token, expired token) each get their own
// generic message; all of them are a plain 401.
func Auth(sessions session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "authorization header required")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if !strings.HasPrefix(authHeader, "Bearer ") || tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "bearer token required")
				return
			}
			u, err := sessions.Validate(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, session.ErrExpiredToken) {
					writeJSONError(w, http.StatusUnauthorized, "session expired")
					return
				}
				if errors.Is(err, domain.ErrUnauthorized) {
					writeJSONError(w, http.StatusUnauthorized, "invalid session token")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			ctx = context.WithValue(ctx, tokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// TokenFromContext extracts the presented session token from the request context.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}
