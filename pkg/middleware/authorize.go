package middleware

import (
	"net/http"

	"seva-donation-platform/pkg/response"
)

// Role is the closed set of caller roles. Role checks happen at the route
// boundary, not inline in handlers.
type Role string

const (
	RoleDonor Role = "donor"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleAdmin
}

// RequireRole ensures the authenticated caller has one of the allowed roles.
func RequireRole(allowedRoles ...Role) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[Role]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := CallerFromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}

			if !allowed[Role(claims.Role)] {
				response.Error(w, http.StatusForbidden, "Access denied. Admin only.", "Insufficient role")
				return
			}

			next(w, r)
		}
	}
}

// RequireAdmin guards the moderation endpoints.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(RoleAdmin)(next)
}
