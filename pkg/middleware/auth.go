package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/themelissanyc/melissa/pkg/auth"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/response"
)

// AuthUser is the authenticated caller attached to the request context.
// The password hash never travels past the lookup.
type AuthUser struct {
	ID       string
	Username string
	Email    string
	Role     string
}

// UserSource resolves a token's subject to a live account. Returning
// (nil, nil) means the account no longer exists.
type UserSource interface {
	FindAuthUser(ctx context.Context, id string) (*AuthUser, error)
}

type userCtxKey struct{}

// UserFromCtx returns the authenticated user set by Authenticate, or nil.
func UserFromCtx(ctx context.Context) *AuthUser {
	u, _ := ctx.Value(userCtxKey{}).(*AuthUser)
	return u
}

// Authenticate verifies the Bearer token and re-fetches the account on
// every request, so deleted users and stale role claims are rejected even
// while their tokens are still within the 24h window.
func Authenticate(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "Access denied. No token provided.")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			user, err := users.FindAuthUser(r.Context(), claims.UserID)
			if err != nil {
				logger.WithCtx(r.Context()).Error("auth user lookup failed", "error", err)
				response.Unauthorized(w, "Invalid token")
				return
			}
			if user == nil {
				response.NotFound(w, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
