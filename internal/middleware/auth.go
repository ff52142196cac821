// Package middleware carries the HTTP middlewares shared by the route layer.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

type contextKey string

const userIDKey contextKey = "auth_user_id"

// Authenticator gates protected routes. Identity is asserted upstream: the
// session layer (or edge worker) that terminates the login flow forwards the
// stable user id in X-Auth-User-Id, optionally proving itself with
// X-Auth-Gateway-Secret when AUTH_GATEWAY_SECRET is set.
type Authenticator struct {
	// Secret, when non-empty, must match the X-Auth-Gateway-Secret header
	// before the forwarded identity is trusted.
	Secret string
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{Secret: strings.TrimSpace(os.Getenv("AUTH_GATEWAY_SECRET"))}
}

// Require wraps a handler and rejects requests without an asserted identity.
// Unauthenticated requests short-circuit before reaching storage.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := a.identify(r)
		if userID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}

func (a *Authenticator) identify(r *http.Request) string {
	if a.Secret != "" && strings.TrimSpace(r.Header.Get("X-Auth-Gateway-Secret")) != a.Secret {
		return ""
	}
	return strings.TrimSpace(r.Header.Get("X-Auth-User-Id"))
}

// WithUserID stores the authenticated owner id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated owner id, or "" when the request did not
// pass the auth gate.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
