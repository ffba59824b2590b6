package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timesheet-management/internal"
)

// RequireRole creates a middleware that checks the authenticated user's role.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			hasRole := false
			for _, role := range roles {
				if user.Role == role {
					hasRole = true
					break
				}
			}

			if !hasRole {
				slog.Warn("access denied: user lacks required role",
					"user_id", user.ID,
					"required_roles", roles,
					"user_role", user.Role)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireManager restricts an endpoint to manager accounts.
func RequireManager() func(http.Handler) http.Handler {
	return RequireRole(internal.RoleManager)
}
