package service_test

import (
	"context"
	"testing"

	"github.com/pageturn/storefront/internal/config"
	appErrors "github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	service "github.com/pageturn/storefront/internal/services"
	"github.com/pageturn/storefront/internal/services/mocks"
	"github.com/pageturn/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cartTestSession() *session.Session {
	return &session.Session{
		Token:  "test-token",
		Claims: &models.Claims{UserID: 42},
	}
}

func otherCartTestSession() *session.Session {
	return &session.Session{
		Token:  "other-token",
		Claims: &models.Claims{UserID: 7},
	}
}

func setupCartService() (*mocks.API, *mocks.Cache, *service.CartService) {
	mockAPI := new(mocks.API)
	mockCache := new(mocks.Cache)
	cfg := &config.CacheConfig{}
	cartService := service.NewCartService(mockAPI, mockCache, cfg)

	return mockAPI, mockCache, cartService
}

func sampleCart() *models.Cart {
	return &models.Cart{
		Items: []models.CartItem{
			{ISBN: "9780132350884", Title: "Clean Code", SellingPrice: 25.50, Quantity: 2, TotalPrice: 51.00},
		},
		Total: 51.00,
	}
}

func TestLoadCart(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Snapshot Replaced", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		serverCart := sampleCart()
		mockAPI.On("GetCart", ctx, sess).Return(serverCart, nil).Once()

		// Act
		cart, err := cartService.LoadCart(ctx, sess)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, serverCart, cart)
		assert.Equal(t, serverCart, cartService.Current(sess))
		mockAPI.AssertExpectations(t)
	})

	t.Run("Success - Snapshots Are Per User", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		other := otherCartTestSession()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, err := cartService.LoadCart(ctx, sess)
		require.NoError(t, err)

		// Act
		otherCurrent := cartService.Current(other)

		// Assert
		assert.Nil(t, otherCurrent)
		assert.NotNil(t, cartService.Current(sess))
	})

	t.Run("Failure - Not Authenticated", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()

		// Act
		cart, err := cartService.LoadCart(ctx, nil)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeUnauthenticated))
		mockAPI.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Upstream Error Keeps Snapshot", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, _ = cartService.LoadCart(ctx, sess)

		mockAPI.On("GetCart", ctx, sess).Return(nil, appErrors.NetworkError("Network error. Please try again.")).Once()

		// Act
		cart, err := cartService.LoadCart(ctx, sess)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.NotNil(t, cartService.Current(sess))
		mockAPI.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Adds Then Resyncs", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		serverCart := sampleCart()
		mockAPI.On("AddToCart", ctx, sess, "9780132350884", 1).Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(serverCart, nil).Once()

		// Act
		cart, err := cartService.AddItem(ctx, sess, "9780132350884", 1)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, serverCart, cart)
		assert.Equal(t, serverCart, cartService.Current(sess))
		mockAPI.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Failure - Missing ISBN", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()

		// Act
		cart, err := cartService.AddItem(ctx, sess, "", 1)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeValidation))
		mockAPI.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Quantity Below One", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()

		// Act
		cart, err := cartService.AddItem(ctx, sess, "9780132350884", 0)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeValidation))
		mockAPI.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Stock Exhausted Surfaces Server Message", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		stockErr := appErrors.UpstreamError("Only 2 left in stock", 400)
		mockAPI.On("AddToCart", ctx, sess, "9780132350884", 5).Return(stockErr).Once()

		// Act
		cart, err := cartService.AddItem(ctx, sess, "9780132350884", 5)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		var appErr *appErrors.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Only 2 left in stock", appErr.Message)
		mockAPI.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Overlapping Mutation On Same Line", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		started := make(chan struct{})
		release := make(chan struct{})

		mockAPI.On("AddToCart", ctx, sess, "9780132350884", 1).
			Run(func(args mock.Arguments) {
				close(started)
				<-release
			}).
			Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()

		firstDone := make(chan error, 1)
		go func() {
			_, err := cartService.AddItem(ctx, sess, "9780132350884", 1)
			firstDone <- err
		}()
		<-started
		assert.True(t, cartService.Busy(sess, "9780132350884"))

		// Act
		cart, err := cartService.AddItem(ctx, sess, "9780132350884", 1)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeCartItemBusy))

		close(release)
		assert.NoError(t, <-firstDone)
		assert.False(t, cartService.Busy(sess, "9780132350884"))
		mockAPI.AssertExpectations(t)
	})

	t.Run("Success - Busy Line Never Blocks Another User", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		other := otherCartTestSession()
		started := make(chan struct{})
		release := make(chan struct{})

		mockAPI.On("AddToCart", ctx, sess, "9780132350884", 1).
			Run(func(args mock.Arguments) {
				close(started)
				<-release
			}).
			Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()

		mockAPI.On("AddToCart", ctx, other, "9780132350884", 1).Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:7").Return(nil).Once()
		mockAPI.On("GetCart", ctx, other).Return(sampleCart(), nil).Once()

		firstDone := make(chan error, 1)
		go func() {
			_, err := cartService.AddItem(ctx, sess, "9780132350884", 1)
			firstDone <- err
		}()
		<-started
		assert.True(t, cartService.Busy(sess, "9780132350884"))
		assert.False(t, cartService.Busy(other, "9780132350884"))

		// Act
		cart, err := cartService.AddItem(ctx, other, "9780132350884", 1)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, cart)

		close(release)
		assert.NoError(t, <-firstDone)
		mockAPI.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Resync Determines Totals", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		serverCart := sampleCart()
		mockAPI.On("UpdateCartItem", ctx, sess, "9780132350884", 3).Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(serverCart, nil).Once()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, sess, "9780132350884", 3)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, serverCart, cart)
		mockAPI.AssertExpectations(t)
	})

	t.Run("No-op - Quantity Below Floor", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, sess, "9780132350884", 0)

		// Assert
		assert.NoError(t, err)
		assert.Nil(t, cart)
		mockAPI.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockAPI.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("No-op - Floor Returns Caller's Own Snapshot", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		other := otherCartTestSession()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, err := cartService.LoadCart(ctx, sess)
		require.NoError(t, err)

		// Act
		cart, err := cartService.UpdateQuantity(ctx, other, "9780132350884", 0)

		// Assert
		assert.NoError(t, err)
		assert.Nil(t, cart)
		mockAPI.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Floor Still Requires Authentication", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, _ = cartService.LoadCart(ctx, sess)

		// Act
		cart, err := cartService.UpdateQuantity(ctx, nil, "9780132350884", 0)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeUnauthenticated))
	})

	t.Run("Failure - Resyncs Even When Update Fails", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		updateErr := appErrors.UpstreamError("Failed to update quantity", 500)
		mockAPI.On("UpdateCartItem", ctx, sess, "9780132350884", 3).Return(updateErr).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, sess, "9780132350884", 3)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.ErrorIs(t, err, updateErr)
		assert.NotNil(t, cartService.Current(sess))
		mockAPI.AssertExpectations(t)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Removes Then Resyncs", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		emptied := &models.Cart{Items: []models.CartItem{}, Total: 0}
		mockAPI.On("RemoveCartItem", ctx, sess, "9780132350884").Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()
		mockAPI.On("GetCart", ctx, sess).Return(emptied, nil).Once()

		// Act
		cart, err := cartService.RemoveItem(ctx, sess, "9780132350884")

		// Assert
		assert.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Upstream Error Skips Resync", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		mockAPI.On("RemoveCartItem", ctx, sess, "9780132350884").
			Return(appErrors.UpstreamError("Failed to remove item", 500)).Once()

		// Act
		cart, err := cartService.RemoveItem(ctx, sess, "9780132350884")

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		mockAPI.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Clears Locally Without Refetch", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, _ = cartService.LoadCart(ctx, sess)

		mockAPI.On("ClearCart", ctx, sess).Return(nil).Once()
		mockCache.On("Delete", ctx, "cartcount:42").Return(nil).Once()

		// Act
		cart, err := cartService.ClearCart(ctx, sess)

		// Assert
		assert.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.True(t, cartService.Current(sess).IsEmpty())
		mockAPI.AssertNumberOfCalls(t, "GetCart", 1)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Snapshot Untouched", func(t *testing.T) {
		// Arrange
		mockAPI, _, cartService := setupCartService()
		mockAPI.On("GetCart", ctx, sess).Return(sampleCart(), nil).Once()
		_, _ = cartService.LoadCart(ctx, sess)

		mockAPI.On("ClearCart", ctx, sess).
			Return(appErrors.UpstreamError("Failed to clear cart", 500)).Once()

		// Act
		cart, err := cartService.ClearCart(ctx, sess)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		assert.False(t, cartService.Current(sess).IsEmpty())
	})
}

func TestCartCount(t *testing.T) {
	ctx := context.Background()
	sess := cartTestSession()

	t.Run("Success - Served From Cache", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		mockCache.On("Get", ctx, "cartcount:42", mock.AnythingOfType("*int")).
			Run(func(args mock.Arguments) {
				*(args.Get(2).(*int)) = 3
			}).
			Return(true, nil).Once()

		// Act
		count, err := cartService.Count(ctx, sess)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
		mockAPI.AssertNotCalled(t, "CartCount", mock.Anything, mock.Anything)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Miss Falls Through To Upstream", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		mockCache.On("Get", ctx, "cartcount:42", mock.AnythingOfType("*int")).Return(false, nil).Once()
		mockAPI.On("CartCount", ctx, sess).Return(5, nil).Once()
		mockCache.On("Set", ctx, "cartcount:42", 5, mock.Anything).Return(nil).Once()

		// Act
		count, err := cartService.Count(ctx, sess)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 5, count)
		mockAPI.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Failure - Upstream Error", func(t *testing.T) {
		// Arrange
		mockAPI, mockCache, cartService := setupCartService()
		mockCache.On("Get", ctx, "cartcount:42", mock.AnythingOfType("*int")).Return(false, nil).Once()
		mockAPI.On("CartCount", ctx, sess).
			Return(0, appErrors.NetworkError("Network error. Please try again.")).Once()

		// Act
		count, err := cartService.Count(ctx, sess)

		// Assert
		assert.Error(t, err)
		assert.Zero(t, count)
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
