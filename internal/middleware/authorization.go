package middleware

import (
	"net/http"
	"slices"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the caller has the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]domain.Role{domain.RoleAdmin}, logger)
}

// RequireRole middleware ensures the authenticated caller has one of the specified roles
func RequireRole(allowedRoles []domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if !principal.Authenticated() {
				logger.Warn("Principal not found in context")
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.Contains(allowedRoles, principal.Role) {
				logger.Warn("User role not authorized",
					zap.Int64("user_id", principal.ID),
					zap.Stringer("role", principal.Role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
