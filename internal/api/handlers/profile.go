package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pageturn/storefront/internal/api/middleware"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	service "github.com/pageturn/storefront/internal/services"
	"github.com/pageturn/storefront/internal/utils"
	"github.com/pageturn/storefront/internal/utils/response"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	validator      *validator.Validate
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator.New(),
	}
}

func (h *ProfileHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		profile, err := h.profileService.GetProfile(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to fetch profile", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, profile)
	}
}

func (h *ProfileHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update profile input")

			return
		}

		if err := h.profileService.UpdateProfile(r.Context(), sess, &req); err != nil {
			logger.Error("Failed to update profile", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
	}
}

func (h *ProfileHandler) UpdatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		var req models.UpdatePasswordRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update password input")

			return
		}

		if err := h.profileService.UpdatePassword(r.Context(), sess, &req); err != nil {
			logger.Error("Failed to update password", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Password updated")
		response.Success(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
