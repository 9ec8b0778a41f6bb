// Package rbac gates routes by account role. Roles live on the user record,
// so a demoted admin loses access on their next request even with a valid
// token, because middleware.Authenticate re-fetches the account.
package rbac

import (
	"net/http"

	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/middleware"
	"github.com/themelissanyc/melissa/pkg/response"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RequireRole allows the request through only when the authenticated user
// holds one of the given roles. Must be mounted after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := middleware.UserFromCtx(r.Context())
			if user == nil {
				response.Unauthorized(w, "Access denied. No token provided.")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WithCtx(r.Context()).Warn("role gate denied",
				"username", user.Username, "role", user.Role, "path", r.URL.Path)
			response.Forbidden(w, "Access denied. Admin privileges required.")
		})
	}
}
