package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/storelane/storelane/pkg/auth"
	"github.com/storelane/storelane/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// AuthMiddleware validates the Bearer token and stores the caller's user id
// and role in the request context. Downstream handlers read them with
// UserIDFromCtx / RoleFromCtx; rbac.HasRole builds on the same values.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}
