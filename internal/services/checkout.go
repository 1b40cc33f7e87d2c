package service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/errors"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
)

// CheckoutState tracks a submission through
// Idle -> Validating -> Submitting -> {Succeeded, Failed}. A failed
// submission returns the flow to Idle so the form stays editable.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateSubmitting CheckoutState = "submitting"
	StateSucceeded  CheckoutState = "succeeded"
)

// PaymentViolation identifies the first payment rule a checkout form
// violated. Validation is fail-fast: later rules are not evaluated.
type PaymentViolation string

const (
	ViolationNone              PaymentViolation = ""
	ViolationInvalidCardNumber PaymentViolation = "invalid_card_number"
	ViolationInvalidExpiry     PaymentViolation = "invalid_expiry"
	ViolationInvalidCVV        PaymentViolation = "invalid_cvv"
	ViolationCardExpired       PaymentViolation = "card_expired"
)

func (v PaymentViolation) Message() string {
	switch v {
	case ViolationInvalidCardNumber:
		return "Invalid credit card number"
	case ViolationInvalidExpiry:
		return "Invalid expiry date (MM/YY)"
	case ViolationInvalidCVV:
		return "Invalid CVV"
	case ViolationCardExpired:
		return "Credit card has expired"
	default:
		return ""
	}
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}

// ValidatePayment is pure and synchronous; it never reaches the network.
// Rules are checked in order and the first violation wins:
// card number length within [13,19] after whitespace strip, expiry matches
// MM/YY, CVV length within [3,4], expiry strictly after the current month.
// A card expiring in the current month is already expired.
func ValidatePayment(p *models.PaymentInstrument, now time.Time) PaymentViolation {

	number := stripSpaces(p.CardNumber)

	if len(number) < 13 || len(number) > 19 {
		return ViolationInvalidCardNumber
	}

	if !expiryPattern.MatchString(p.Expiry) {
		return ViolationInvalidExpiry
	}

	if len(p.CVV) < 3 || len(p.CVV) > 4 {
		return ViolationInvalidCVV
	}

	parts := strings.Split(p.Expiry, "/")
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	// First-day-of-month semantics: the card is valid through the last day
	// of its expiry month, so anything at or before now is expired.
	expiry := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, now.Location())

	if !expiry.After(now) {
		return ViolationCardExpired
	}

	return ViolationNone
}

// ConfirmationSender dispatches the post-checkout order confirmation.
// Sending is best-effort and never fails the order.
type ConfirmationSender interface {
	OrderConfirmation(ctx context.Context, sess *session.Session, order *models.Order) error
}

// CheckoutService converts the current cart into an immutable order. The
// upstream API clears the cart and creates the order atomically; the
// storefront never issues a separate clear call. The submission state
// machine is tracked per user; one customer's in-flight checkout never
// blocks another's.
type CheckoutService struct {
	api      client.API
	notifier ConfirmationSender
	now      func() time.Time

	mu     sync.Mutex
	states map[int64]CheckoutState
}

// NewCheckoutService builds the checkout flow. A nil clock defaults to
// time.Now; tests inject a fixed one for expiry-boundary cases.
func NewCheckoutService(api client.API, notifier ConfirmationSender, clock func() time.Time) *CheckoutService {

	if clock == nil {
		clock = time.Now
	}

	return &CheckoutService{
		api:      api,
		notifier: notifier,
		now:      clock,
		states:   make(map[int64]CheckoutState),
	}
}

// State returns the caller's submission state; users with no submission
// on record are Idle.
func (s *CheckoutService) State(sess *session.Session) CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[sess.UserID()]; ok {
		return state
	}

	return StateIdle
}

func (s *CheckoutService) setState(userID int64, state CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = state
}

// begin moves the caller's flow into Validating, rejecting re-entrant
// submissions while their own is still in flight.
func (s *CheckoutService) begin(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[userID] == StateSubmitting {
		return errors.CheckoutBusyError()
	}

	s.states[userID] = StateValidating

	return nil
}

// ValidatePayment runs the local payment checks against the service clock.
func (s *CheckoutService) ValidatePayment(p *models.PaymentInstrument) PaymentViolation {
	return ValidatePayment(p, s.now())
}

// SubmitOrder validates the instrument, guards against an empty cart, and
// places the order. The cart is fetched immediately prior so the guard
// runs against authoritative state. On any failure the flow returns to
// Idle and the caller keeps the entered payment data; the raw card number
// and CVV are never logged.
func (s *CheckoutService) SubmitOrder(ctx context.Context, sess *session.Session, instrument *models.PaymentInstrument) (*models.Order, error) {

	if !sess.Authenticated() {
		return nil, errors.UnauthenticatedError("Please login to checkout")
	}

	userID := sess.UserID()

	if err := s.begin(userID); err != nil {
		return nil, err
	}

	if v := ValidatePayment(instrument, s.now()); v != ViolationNone {
		s.setState(userID, StateIdle)

		return nil, errors.ValidationError(v.Message())
	}

	cart, err := s.api.GetCart(ctx, sess)
	if err != nil {
		s.setState(userID, StateIdle)

		return nil, err
	}

	if cart.IsEmpty() {
		s.setState(userID, StateIdle)

		return nil, errors.EmptyCartError()
	}

	s.setState(userID, StateSubmitting)

	req := &models.PlaceOrderRequest{
		CreditCardNo: stripSpaces(instrument.CardNumber),
		ExpiryDate:   instrument.Expiry,
	}

	order, err := s.api.PlaceOrder(ctx, sess, req)
	if err != nil {
		s.setState(userID, StateIdle)

		return nil, err
	}

	s.setState(userID, StateSucceeded)

	slog.Info("Order placed",
		slog.Int64("orderId", order.OrderID),
		slog.String("cardLast4", instrument.Last4()))

	if s.notifier != nil {
		go func(order *models.Order) {
			sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()

			if err := s.notifier.OrderConfirmation(sendCtx, sess, order); err != nil {
				slog.Warn("Order confirmation email failed", slog.String("error", err.Error()))
			}
		}(order)
	}

	return order, nil
}
