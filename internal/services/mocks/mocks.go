// Package mocks holds hand-written testify mocks for the interfaces the
// service layer depends on.
package mocks

import (
	"context"
	"time"

	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
	"github.com/stretchr/testify/mock"
)

// API mocks client.API.
type API struct {
	mock.Mock
}

func (m *API) SearchBooks(ctx context.Context, q models.SearchQuery) ([]models.Book, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *API) GetCart(ctx context.Context, s *session.Session) (*models.Cart, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *API) AddToCart(ctx context.Context, s *session.Session, isbn string, quantity int) error {
	args := m.Called(ctx, s, isbn, quantity)

	return args.Error(0)
}

func (m *API) UpdateCartItem(ctx context.Context, s *session.Session, isbn string, quantity int) error {
	args := m.Called(ctx, s, isbn, quantity)

	return args.Error(0)
}

func (m *API) RemoveCartItem(ctx context.Context, s *session.Session, isbn string) error {
	args := m.Called(ctx, s, isbn)

	return args.Error(0)
}

func (m *API) ClearCart(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)

	return args.Error(0)
}

func (m *API) CartCount(ctx context.Context, s *session.Session) (int, error) {
	args := m.Called(ctx, s)

	return args.Int(0), args.Error(1)
}

func (m *API) PlaceOrder(ctx context.Context, s *session.Session, req *models.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *API) ListOrders(ctx context.Context, s *session.Session) ([]models.Order, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *API) GetOrder(ctx context.Context, s *session.Session, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, s, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *API) GetProfile(ctx context.Context, s *session.Session) (*models.Profile, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *API) UpdateProfile(ctx context.Context, s *session.Session, req *models.UpdateProfileRequest) error {
	args := m.Called(ctx, s, req)

	return args.Error(0)
}

func (m *API) UpdatePassword(ctx context.Context, s *session.Session, req *models.UpdatePasswordRequest) error {
	args := m.Called(ctx, s, req)

	return args.Error(0)
}

// Cache mocks cache.Cache.
type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *Cache) Close() error {
	args := m.Called()

	return args.Error(0)
}

// ConfirmationSender mocks service.ConfirmationSender.
type ConfirmationSender struct {
	mock.Mock
}

func (m *ConfirmationSender) OrderConfirmation(ctx context.Context, sess *session.Session, order *models.Order) error {
	args := m.Called(ctx, sess, order)

	return args.Error(0)
}

// EmailService mocks sendgrid.EmailService.
type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, req *models.EmailRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}
