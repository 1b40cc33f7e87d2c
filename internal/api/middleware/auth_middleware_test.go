package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageturn/storefront/internal/api/middleware"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
	"github.com/pageturn/storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims *models.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)

	return token
}

func newRequestWithLogger(target, authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

func decodeError(t *testing.T, body io.Reader) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))

	return resp
}

func TestAuthenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware()

	t.Run("Success - Session Placed In Context", func(t *testing.T) {
		// Arrange
		token := signedToken(t, &models.Claims{
			UserID: 42,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		req := newRequestWithLogger("/api/v1/cart", "Bearer "+token)
		recorder := httptest.NewRecorder()

		var gotSession *session.Session

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSession = middleware.SessionFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, gotSession)
		assert.Equal(t, int64(42), gotSession.UserID())
		assert.Equal(t, token, gotSession.Token)
	})

	t.Run("Failure - Missing Header", func(t *testing.T) {
		// Arrange
		req := newRequestWithLogger("/api/v1/cart", "")
		recorder := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not run")
		})

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		resp := decodeError(t, recorder.Body)
		assert.False(t, resp.Success)
	})

	t.Run("Failure - Wrong Scheme", func(t *testing.T) {
		// Arrange
		req := newRequestWithLogger("/api/v1/cart", "Basic dXNlcjpwYXNz")
		recorder := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not run")
		})

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Malformed Token", func(t *testing.T) {
		// Arrange
		req := newRequestWithLogger("/api/v1/cart", "Bearer not-a-jwt")
		recorder := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not run")
		})

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Expired Token Fails Fast", func(t *testing.T) {
		// Arrange
		token := signedToken(t, &models.Claims{
			UserID: 42,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		req := newRequestWithLogger("/api/v1/cart", "Bearer "+token)
		recorder := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not run")
		})

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestSessionFromContext(t *testing.T) {
	t.Run("Missing Session Returns Nil", func(t *testing.T) {
		assert.Nil(t, middleware.SessionFromContext(context.Background()))
	})
}
