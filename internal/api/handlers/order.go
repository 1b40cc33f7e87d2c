package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pageturn/storefront/internal/api/middleware"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	service "github.com/pageturn/storefront/internal/services"
	"github.com/pageturn/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		orders, err := h.orderService.ListOrders(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Orders listed", slog.Int("count", len(orders)))
		response.Success(w, http.StatusOK, models.OrdersResponse{Orders: orders})
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, errors.ValidationError("Invalid order id"))

			return
		}

		order, err := h.orderService.GetOrder(r.Context(), sess, orderID)
		if err != nil {
			logger.Error("Failed to fetch order", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) RecentOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			response.Error(w, errors.UnauthenticatedError("Authentication required"))

			return
		}

		orders, err := h.orderService.RecentOrders(r.Context(), sess)
		if err != nil {
			logger.Error("Failed to list recent orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.OrdersResponse{Orders: orders})
	}
}
