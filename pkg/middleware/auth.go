// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dlatelier/storefront/pkg/auth"
	"github.com/dlatelier/storefront/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// token extracts the JWT from the Authorization header or the session cookie.
func token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
	ctx = context.WithValue(ctx, roleKey{}, claims.Role)
	return r.WithContext(ctx)
}

// Auth requires a valid JWT and stores user id and role in the request
// context. Rejects with 401 otherwise.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := token(r)
		if t == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(t)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// OptionalAuth attaches claims when a valid token is present and lets the
// request through either way. Cart routes use this: guests stay anonymous,
// authenticated users get entitlement-gated behaviour.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t := token(r); t != "" {
			if claims, err := auth.ValidateToken(t); err == nil {
				r = withClaims(r, claims)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromCtx returns the authenticated user id stored by Auth/OptionalAuth.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated role stored by Auth/OptionalAuth.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok
}
