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

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		cart, err := h.cartService.LoadCart(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to load cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")

			return
		}

		if req.Quantity == 0 {
			req.Quantity = 1
		}

		cart, err := h.cartService.AddItem(r.Context(), sess, req.ISBN, req.Quantity)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.String("isbn", req.ISBN), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Item added to cart", slog.String("isbn", req.ISBN), slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")

			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), sess, req.ISBN, req.Quantity)
		if err != nil {
			logger.Error("Failed to update quantity", slog.String("isbn", req.ISBN), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		isbn := r.PathValue("isbn")
		if isbn == "" {
			response.Error(w, errors.ValidationError("ISBN is required"))

			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), sess, isbn)
		if err != nil {
			logger.Error("Failed to remove item", slog.String("isbn", isbn), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Item removed from cart", slog.String("isbn", isbn))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) Count() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		count, err := h.cartService.Count(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to get cart count", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.CartCountResponse{Count: count})
	}
}
