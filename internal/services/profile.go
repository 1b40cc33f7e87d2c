package service

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
)

// ProfileService passes profile reads and updates through to the
// bookstore API. Free-text fields are sanitized in both directions so
// markup never round-trips into the rendered storefront.
type ProfileService struct {
	api       client.API
	sanitizer *bluemonday.Policy
}

func NewProfileService(api client.API) *ProfileService {
	return &ProfileService{
		api:       api,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, sess *session.Session) (*models.Profile, error) {

	if !sess.Authenticated() {
		return nil, errors.UnauthenticatedError("Please login to view your profile")
	}

	profile, err := s.api.GetProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	profile.FirstName = s.sanitizer.Sanitize(profile.FirstName)
	profile.LastName = s.sanitizer.Sanitize(profile.LastName)
	profile.ShippingAddress = s.sanitizer.Sanitize(profile.ShippingAddress)

	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, sess *session.Session, req *models.UpdateProfileRequest) error {

	if !sess.Authenticated() {
		return errors.UnauthenticatedError("Please login to update your profile")
	}

	req.FirstName = s.sanitizer.Sanitize(req.FirstName)
	req.LastName = s.sanitizer.Sanitize(req.LastName)
	req.ShippingAddress = s.sanitizer.Sanitize(req.ShippingAddress)

	return s.api.UpdateProfile(ctx, sess, req)
}

func (s *ProfileService) UpdatePassword(ctx context.Context, sess *session.Session, req *models.UpdatePasswordRequest) error {

	if !sess.Authenticated() {
		return errors.UnauthenticatedError("Please login to change your password")
	}

	return s.api.UpdatePassword(ctx, sess, req)
}
