// backend/src/handlers/middleware.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/openaudit/backend/src/database"
	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/utils"
)

type contextKey string

const (
	userIDContextKey    contextKey = "userID"
	requestIDContextKey contextKey = "requestID"
)

// GetUserIDFromContext returns the authenticated user ID set by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// ContextualLoggerMiddleware attaches a request-scoped logger with a request ID.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))
		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware validates the bearer token and stores the user ID in context.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ctxLogger.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			ctxLogger.Debug("AuthMiddleware: Token string empty", "path", r.URL.Path)
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		userIDStr, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			ctxLogger.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		enrichedLogger := ctxLogger.With(slog.String("userID", userIDStr))
		ctx := logger.ToContext(r.Context(), enrichedLogger)
		ctx = context.WithValue(ctx, userIDContextKey, userIDStr)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware requires an authenticated user with the admin flag set.
func (h *AuthHandler) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := logger.FromContext(r.Context())

		userIDStr, ok := GetUserIDFromContext(r.Context())
		if !ok {
			utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			ctxLogger.Warn("AdminMiddleware: non-numeric user ID in token", "userID", userIDStr)
			utils.SendJSONError(w, "Admin access required", http.StatusForbidden)
			return
		}

		user, err := models.GetUserByID(database.DB, userID)
		if err != nil {
			ctxLogger.Warn("AdminMiddleware: user lookup failed", "userID", userID, "error", err)
			utils.SendJSONError(w, "Admin access required", http.StatusForbidden)
			return
		}
		if !user.IsAdmin {
			ctxLogger.Warn("AdminMiddleware: non-admin access attempt", "userID", userID, "path", r.URL.Path)
			utils.SendJSONError(w, "Admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
