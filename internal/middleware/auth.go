package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pantree/internal/repository"
)

// SessionCookieName is the cookie carrying the session token. API clients
// may instead send the token as a bearer Authorization header.
const SessionCookieName = "pantree_session"

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*repository.User, bool) {
	u, ok := ctx.Value(userContextKey).(*repository.User)
	return u, ok
}

// WithUser stores a user in the context (exported for handler tests).
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// SessionToken extracts the session token from the request, preferring the
// Authorization header over the cookie.
func SessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth validates the session token, loads the user, and stores it in
// the request context. Requests without a valid session get 401.
func RequireAuth(repo *repository.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized")
				return
			}

			session, err := repo.GetSession(r.Context(), token)
			if err != nil {
				unauthorized(w, "Unauthorized")
				return
			}

			if time.Now().UTC().After(session.ExpiresAt) {
				// Clean up expired session
				repo.DeleteSession(r.Context(), token)
				unauthorized(w, "Session expired")
				return
			}

			user, err := repo.GetUserByID(r.Context(), session.UserID)
			if err != nil {
				unauthorized(w, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin gates a route to ADMIN users. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != repository.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
