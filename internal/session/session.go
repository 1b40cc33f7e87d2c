// Package session models the customer's credential as an explicit
// capability object threaded into every component, instead of ambient
// global state.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
)

type Session struct {
	Token  string
	Claims *models.Claims
}

// FromToken decodes the bearer token without verifying its signature. The
// bookstore API is the verifier; the storefront only reads the claims for
// identity display and to fail fast on an already expired credential.
func FromToken(token string) (*Session, error) {

	claims := &models.Claims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, errors.UnauthenticatedError("Invalid token").WithError(err)
	}

	return &Session{Token: token, Claims: claims}, nil
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim are left for the upstream API to judge.
func (s *Session) Expired(now time.Time) bool {

	if s == nil || s.Claims == nil || s.Claims.ExpiresAt == nil {
		return false
	}

	return s.Claims.ExpiresAt.Time.Before(now)
}

func (s *Session) UserID() int64 {

	if s == nil || s.Claims == nil {
		return 0
	}

	return s.Claims.UserID
}
