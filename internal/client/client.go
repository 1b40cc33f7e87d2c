// Package client wraps the remote bookstore REST API. Every response
// shape has an explicit decoder; a schema mismatch surfaces as an
// upstream error, never a crash.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pageturn/storefront/internal/config"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// API is the storefront's view of the bookstore service. Services depend
// on this interface so they can be tested against a mock.
type API interface {
	SearchBooks(ctx context.Context, q models.SearchQuery) ([]models.Book, error)
	GetCart(ctx context.Context, s *session.Session) (*models.Cart, error)
	AddToCart(ctx context.Context, s *session.Session, isbn string, quantity int) error
	UpdateCartItem(ctx context.Context, s *session.Session, isbn string, quantity int) error
	RemoveCartItem(ctx context.Context, s *session.Session, isbn string) error
	ClearCart(ctx context.Context, s *session.Session) error
	CartCount(ctx context.Context, s *session.Session) (int, error)
	PlaceOrder(ctx context.Context, s *session.Session, req *models.PlaceOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, s *session.Session) ([]models.Order, error)
	GetOrder(ctx context.Context, s *session.Session, orderID int64) (*models.Order, error)
	GetProfile(ctx context.Context, s *session.Session) (*models.Profile, error)
	UpdateProfile(ctx context.Context, s *session.Session, req *models.UpdateProfileRequest) error
	UpdatePassword(ctx context.Context, s *session.Session, req *models.UpdatePasswordRequest) error
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg *config.Upstream) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// mutationResponse covers the `{message}` / `{error}` envelope returned by
// every cart mutation route.
type mutationResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// do issues one authenticated request and normalizes the outcome:
// transport failure -> Network, 401 -> Unauthenticated, other non-2xx ->
// Upstream with the server's message (fallback when absent), undecodable
// 2xx body -> Upstream.
func (c *Client) do(ctx context.Context, s *session.Session, method, path string, query url.Values, body, out any, fallback string) error {

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.InternalError("Failed to encode request").WithError(err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, target, reqBody)
	if err != nil {
		return errors.InternalError("Failed to build request").WithError(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError("Network error. Please try again.").WithError(err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NetworkError("Network error. Please try again.").WithError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.UnauthenticatedError(upstreamMessage(data, "Authentication required"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.UpstreamError(upstreamMessage(data, fallback), resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.UpstreamError("Unexpected response from bookstore API", http.StatusBadGateway).WithError(err)
		}
	}

	return nil
}

func upstreamMessage(data []byte, fallback string) string {

	var errResp errorResponse

	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}

	return fallback
}

func (c *Client) SearchBooks(ctx context.Context, q models.SearchQuery) ([]models.Book, error) {

	query := url.Values{}

	for key, value := range map[string]string{
		"query":     q.Query,
		"category":  q.Category,
		"author":    q.Author,
		"publisher": q.Publisher,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	var resp models.SearchResponse

	if err := c.do(ctx, nil, http.MethodGet, "/books/search", query, nil, &resp, "Search failed"); err != nil {
		return nil, err
	}

	return resp.Books, nil
}

func (c *Client) GetCart(ctx context.Context, s *session.Session) (*models.Cart, error) {

	cart := &models.Cart{}

	if err := c.do(ctx, s, http.MethodGet, "/customer/cart", nil, nil, cart, "Failed to load cart"); err != nil {
		return nil, err
	}

	return cart, nil
}

func (c *Client) AddToCart(ctx context.Context, s *session.Session, isbn string, quantity int) error {

	body := models.AddItemRequest{ISBN: isbn, Quantity: quantity}

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPost, "/customer/cart/add", nil, body, &resp, "Failed to add item to cart")
}

func (c *Client) UpdateCartItem(ctx context.Context, s *session.Session, isbn string, quantity int) error {

	body := models.UpdateQuantityRequest{ISBN: isbn, Quantity: quantity}

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPost, "/customer/cart/update", nil, body, &resp, "Failed to update quantity")
}

func (c *Client) RemoveCartItem(ctx context.Context, s *session.Session, isbn string) error {

	body := models.RemoveItemRequest{ISBN: isbn}

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPost, "/customer/cart/remove", nil, body, &resp, "Failed to remove item")
}

func (c *Client) ClearCart(ctx context.Context, s *session.Session) error {

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPost, "/customer/cart/clear", nil, nil, &resp, "Failed to clear cart")
}

func (c *Client) CartCount(ctx context.Context, s *session.Session) (int, error) {

	var resp models.CartCountResponse

	if err := c.do(ctx, s, http.MethodGet, "/customer/cart/count", nil, nil, &resp, "Failed to get cart count"); err != nil {
		return 0, err
	}

	return resp.Count, nil
}

func (c *Client) PlaceOrder(ctx context.Context, s *session.Session, req *models.PlaceOrderRequest) (*models.Order, error) {

	order := &models.Order{}

	if err := c.do(ctx, s, http.MethodPost, "/customer/orders", nil, req, order, "Failed to place order"); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *Client) ListOrders(ctx context.Context, s *session.Session) ([]models.Order, error) {

	var resp models.OrdersResponse

	if err := c.do(ctx, s, http.MethodGet, "/customer/orders", nil, nil, &resp, "Failed to fetch orders"); err != nil {
		return nil, err
	}

	return resp.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, s *session.Session, orderID int64) (*models.Order, error) {

	order := &models.Order{}

	path := "/customer/orders/" + strconv.FormatInt(orderID, 10)

	if err := c.do(ctx, s, http.MethodGet, path, nil, nil, order, "Failed to fetch order"); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *Client) GetProfile(ctx context.Context, s *session.Session) (*models.Profile, error) {

	profile := &models.Profile{}

	if err := c.do(ctx, s, http.MethodGet, "/customer/profile", nil, nil, profile, "Failed to fetch profile"); err != nil {
		return nil, err
	}

	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, s *session.Session, req *models.UpdateProfileRequest) error {

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPut, "/customer/profile", nil, req, &resp, "Failed to update profile")
}

func (c *Client) UpdatePassword(ctx context.Context, s *session.Session, req *models.UpdatePasswordRequest) error {

	var resp mutationResponse

	return c.do(ctx, s, http.MethodPut, "/customer/profile/password", nil, req, &resp, "Failed to update password")
}

// BaseURL is used by the health check to probe upstream reachability.
func (c *Client) BaseURL() string {
	return c.baseURL
}

var _ API = (*Client)(nil)
