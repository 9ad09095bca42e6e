package middleware

import (
	"net/http"

	"farmconnect/internal/auth"

	"go.uber.org/zap"
)

// RequirePermission ensures the caller's role holds the given
// permission before the handler runs. Must be mounted after
// AuthMiddleware.
func RequirePermission(p auth.Permission, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context",
					zap.String("permission", string(p)),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !auth.Can(role, p) {
				logger.Warn("Permission denied",
					zap.String("role", string(role)),
					zap.String("permission", string(p)),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
