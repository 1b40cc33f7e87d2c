package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/session"
	"github.com/pageturn/storefront/internal/utils/response"
)

type contextKey uuid.UUID

var SessionContextKey = contextKey(uuid.New())

// AuthMiddleware turns the bearer token into an explicit session
// capability. The token signature is the bookstore API's to verify; the
// storefront only fails fast on tokens that are malformed or already
// expired, saving the upstream round trip.
type AuthMiddleware struct{}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthenticatedError("Authorization header is required"))

			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthenticatedError("Invalid authorization format"))

			return
		}

		sess, err := session.FromToken(tokenParts[1])
		if err != nil {
			logger.Warn("Token decoding failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if sess.Expired(time.Now()) {
			logger.Warn("Expired token", slog.Int64("userId", sess.UserID()))
			response.Error(w, errors.UnauthenticatedError("Token expired"))

			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sess)

		requestScopedLogger := logger.With(slog.Int64("userId", sess.UserID()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the session placed by Authenticate, or nil
// on unauthenticated routes.
func SessionFromContext(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionContextKey).(*session.Session); ok {
		return sess
	}

	return nil
}
