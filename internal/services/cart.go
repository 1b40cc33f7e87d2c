package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/pageturn/storefront/internal/cache"
	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/config"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
)

// lineKey scopes the in-flight guard to one line of one customer's cart.
// Two customers touching the same ISBN never contend.
type lineKey struct {
	userID int64
	isbn   string
}

// CartService owns the storefront's view of the customer carts. The
// server is the single source of truth for prices and totals, so every
// mutation is followed by a full re-sync instead of a local
// recomputation. All local state (snapshot and in-flight guard) is keyed
// by the session's user; the service itself is shared across sessions.
type CartService struct {
	api      client.API
	cache    cache.Cache
	cfg      *config.CacheConfig
	mu       sync.Mutex
	inflight map[lineKey]struct{}
	current  map[int64]*models.Cart
}

func NewCartService(api client.API, c cache.Cache, cfg *config.CacheConfig) *CartService {
	return &CartService{
		api:      api,
		cache:    c,
		cfg:      cfg,
		inflight: make(map[lineKey]struct{}),
		current:  make(map[int64]*models.Cart),
	}
}

// Current returns the caller's last synced cart snapshot, which is only
// ever the in-memory render of the most recent server read.
func (s *CartService) Current(sess *session.Session) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current[sess.UserID()]
}

// Busy reports whether a mutation for the given ISBN of the caller's cart
// is still in flight. Presentation layers use this to disable the line's
// controls.
func (s *CartService) Busy(sess *session.Session, isbn string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, busy := s.inflight[lineKey{userID: sess.UserID(), isbn: isbn}]

	return busy
}

func (s *CartService) acquire(sess *session.Session, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{userID: sess.UserID(), isbn: isbn}

	if _, busy := s.inflight[key]; busy {
		return errors.CartItemBusyError(isbn)
	}

	s.inflight[key] = struct{}{}

	return nil
}

func (s *CartService) release(sess *session.Session, isbn string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, lineKey{userID: sess.UserID(), isbn: isbn})
}

func (s *CartService) setCurrent(sess *session.Session, cart *models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current[sess.UserID()] = cart
}

func requireSession(sess *session.Session) error {

	if !sess.Authenticated() {
		return errors.UnauthenticatedError("Please login to view your cart")
	}

	return nil
}

// LoadCart fetches the authoritative cart state and replaces the local
// snapshot with it.
func (s *CartService) LoadCart(ctx context.Context, sess *session.Session) (*models.Cart, error) {

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	cart, err := s.api.GetCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.setCurrent(sess, cart)

	return cart, nil
}

// AddItem adds a book to the cart and re-syncs on success. The re-sync,
// not the add response, determines the displayed totals: catalog pricing
// may already be stale by the time the add lands.
func (s *CartService) AddItem(ctx context.Context, sess *session.Session, isbn string, quantity int) (*models.Cart, error) {

	if isbn == "" {
		return nil, errors.ValidationError("ISBN is required")
	}

	if quantity < 1 {
		return nil, errors.ValidationError("Quantity must be at least 1")
	}

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	if err := s.acquire(sess, isbn); err != nil {
		return nil, err
	}
	defer s.release(sess, isbn)

	if err := s.api.AddToCart(ctx, sess, isbn, quantity); err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, sess)

	return s.LoadCart(ctx, sess)
}

// UpdateQuantity sets the absolute quantity of a cart line. Quantities
// below 1 are a deliberate no-op, not an error: decrementing past the
// floor is ignored, and removal stays a separate explicit operation.
// The cart is re-synced after the request resolves regardless of its
// outcome, to recover from partial failure.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, isbn string, quantity int) (*models.Cart, error) {

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	if quantity < 1 {
		return s.Current(sess), nil
	}

	if isbn == "" {
		return nil, errors.ValidationError("ISBN is required")
	}

	if err := s.acquire(sess, isbn); err != nil {
		return nil, err
	}
	defer s.release(sess, isbn)

	updateErr := s.api.UpdateCartItem(ctx, sess, isbn, quantity)

	s.invalidateCount(ctx, sess)

	cart, syncErr := s.LoadCart(ctx, sess)

	if updateErr != nil {
		return nil, updateErr
	}

	return cart, syncErr
}

// RemoveItem deletes a cart line and re-syncs. User confirmation is the
// caller's concern.
func (s *CartService) RemoveItem(ctx context.Context, sess *session.Session, isbn string) (*models.Cart, error) {

	if isbn == "" {
		return nil, errors.ValidationError("ISBN is required")
	}

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	if err := s.acquire(sess, isbn); err != nil {
		return nil, err
	}
	defer s.release(sess, isbn)

	if err := s.api.RemoveCartItem(ctx, sess, isbn); err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, sess)

	return s.LoadCart(ctx, sess)
}

// ClearCart empties the cart server-side. The empty state is unambiguous,
// so on success the local snapshot is cleared without a re-fetch. On
// failure the snapshot is left untouched.
func (s *CartService) ClearCart(ctx context.Context, sess *session.Session) (*models.Cart, error) {

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	if err := s.api.ClearCart(ctx, sess); err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, sess)

	empty := &models.Cart{Items: []models.CartItem{}, Total: 0}
	s.setCurrent(sess, empty)

	return empty, nil
}

// Count returns the cart badge count, served from a short-TTL cache when
// possible. Cache failures degrade to an upstream read.
func (s *CartService) Count(ctx context.Context, sess *session.Session) (int, error) {

	if err := requireSession(sess); err != nil {
		return 0, err
	}

	key := countKey(sess)

	var count int

	if found, err := s.cache.Get(ctx, key, &count); err == nil && found {
		return count, nil
	}

	count, err := s.api.CartCount(ctx, sess)
	if err != nil {
		return 0, err
	}

	_ = s.cache.Set(ctx, key, count, s.cfg.CountTTL)

	return count, nil
}

func (s *CartService) invalidateCount(ctx context.Context, sess *session.Session) {
	_ = s.cache.Delete(ctx, countKey(sess))
}

func countKey(sess *session.Session) string {
	return cache.Key(cache.CartCountKeyPrefix, strconv.FormatInt(sess.UserID(), 10))
}
