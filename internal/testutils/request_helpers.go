package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageturn/storefront/internal/api/middleware"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
)

// NewSession builds an authenticated session without going through a real
// token. Handler and service tests only need the claims, never a valid
// signature.
func NewSession(userID int64) *session.Session {
	return &session.Session{
		Token: "test-token",
		Claims: &models.Claims{
			UserID:           userID,
			Role:             "customer",
			RegisteredClaims: jwt.RegisteredClaims{},
		},
	}
}

func CreateTestRequestWithContext(method, target string, body io.Reader, sess *session.Session, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.SessionContextKey, sess)
	ctx = context.WithValue(ctx, middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}
