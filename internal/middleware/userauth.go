// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// UserHeader names the header carrying the authenticated user's UID.
// Session handling is owned by the host; by the time a request reaches this
// service the identity is already validated upstream.
const UserHeader = "X-Deck-User"

// UserAuth is a middleware that requires the authenticated-user header on
// every request and stores its value in the request context, so it can be
// used downstream as the acting user ID.
func UserAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(UserHeader)
		if uid == "" {
			http.Error(w, "no user provided", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the acting user ID from the request context.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
