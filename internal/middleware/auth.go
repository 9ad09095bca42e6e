package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"farmconnect/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// AuthMiddleware validates JWT tokens and places the caller's identity
// into the request context.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				logger.Error("Missing user_id in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			role, ok := claims["role"].(string)
			if !ok {
				logger.Error("Missing role in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, domain.Role(role))

			logger.Debug("User authenticated",
				zap.String("user_id", userID),
				zap.String("role", role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts the authenticated user's role from the context.
func GetUserRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(domain.Role)
	return role, ok
}
