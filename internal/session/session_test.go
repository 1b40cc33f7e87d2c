package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	appErrors "github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims *models.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)

	return token
}

func TestFromToken(t *testing.T) {
	t.Run("Success - Claims Decoded Without Verification", func(t *testing.T) {
		// Arrange
		token := signedToken(t, &models.Claims{
			UserID: 42,
			Role:   "customer",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		// Act
		sess, err := session.FromToken(token)

		// Assert
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
		assert.Equal(t, int64(42), sess.UserID())
		assert.Equal(t, token, sess.Token)
	})

	t.Run("Failure - Malformed Token", func(t *testing.T) {
		// Act
		sess, err := session.FromToken("not-a-jwt")

		// Assert
		assert.Nil(t, sess)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeUnauthenticated))
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()

	t.Run("Token Past Expiry", func(t *testing.T) {
		sess := &session.Session{
			Token: "t",
			Claims: &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
				},
			},
		}

		assert.True(t, sess.Expired(now))
	})

	t.Run("Token Still Valid", func(t *testing.T) {
		sess := &session.Session{
			Token: "t",
			Claims: &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				},
			},
		}

		assert.False(t, sess.Expired(now))
	})

	t.Run("Token Without Exp Claim Left To Upstream", func(t *testing.T) {
		sess := &session.Session{Token: "t", Claims: &models.Claims{UserID: 42}}

		assert.False(t, sess.Expired(now))
	})
}

func TestAuthenticated(t *testing.T) {
	t.Run("Nil Session", func(t *testing.T) {
		var sess *session.Session

		assert.False(t, sess.Authenticated())
		assert.Zero(t, sess.UserID())
	})

	t.Run("Empty Token", func(t *testing.T) {
		sess := &session.Session{}

		assert.False(t, sess.Authenticated())
	})
}
