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

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

// SubmitOrder converts the current cart into an order. The payment
// instrument lives only for this request; nothing beyond the card's
// last four digits is ever logged.
func (h *CheckoutHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		var instrument models.PaymentInstrument
		if !utils.ParseAndValidate(r, w, &instrument, h.validator) {
			logger.Warn("Invalid checkout input")

			return
		}

		order, err := h.checkoutService.SubmitOrder(r.Context(), sess, &instrument)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Checkout succeeded", slog.Int64("orderId", order.OrderID))
		response.Success(w, http.StatusCreated, order)
	}
}
