package service

import (
	"context"

	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
)

const recentOrderCount = 3

// OrderService is a read-only projection of past orders. Orders are
// immutable once created; the server-returned order is preserved.
type OrderService struct {
	api client.API
}

func NewOrderService(api client.API) *OrderService {
	return &OrderService{api: api}
}

func (s *OrderService) ListOrders(ctx context.Context, sess *session.Session) ([]models.Order, error) {

	if !sess.Authenticated() {
		return nil, errors.UnauthenticatedError("Please login to view your orders")
	}

	return s.api.ListOrders(ctx, sess)
}

// GetOrder fetches a single order by id. Access control is the server's
// concern; an order belonging to another customer comes back as an
// upstream error.
func (s *OrderService) GetOrder(ctx context.Context, sess *session.Session, orderID int64) (*models.Order, error) {

	if !sess.Authenticated() {
		return nil, errors.UnauthenticatedError("Please login to view your orders")
	}

	return s.api.GetOrder(ctx, sess, orderID)
}

// RecentOrders returns the first few orders for the dashboard.
func (s *OrderService) RecentOrders(ctx context.Context, sess *session.Session) ([]models.Order, error) {

	orders, err := s.ListOrders(ctx, sess)
	if err != nil {
		return nil, err
	}

	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}

	return orders, nil
}
