package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/models"
	"github.com/pageturn/storefront/internal/session"
	"github.com/pageturn/storefront/pkg/sendgrid"
)

// NotificationService sends the order confirmation email after a
// successful checkout. Only the payment last-4 ever appears in the
// message body.
type NotificationService struct {
	api   client.API
	email sendgrid.EmailService
}

func NewNotificationService(api client.API, email sendgrid.EmailService) *NotificationService {
	return &NotificationService{api: api, email: email}
}

func (s *NotificationService) OrderConfirmation(ctx context.Context, sess *session.Session, order *models.Order) error {

	profile, err := s.api.GetProfile(ctx, sess)
	if err != nil {
		return fmt.Errorf("resolving recipient for order %d: %w", order.OrderID, err)
	}

	var lines []string

	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%s x%d - $%.2f", item.Title, item.Quantity, item.TotalPrice))
	}

	content := fmt.Sprintf(
		"Thank you for your order #%d.\n\n%s\n\nTotal: $%.2f\n",
		order.OrderID, strings.Join(lines, "\n"), order.TotalPrice)

	if order.PaymentLast4 != "" {
		content += fmt.Sprintf("Paid with card ending in %s.\n", order.PaymentLast4)
	}

	req := &models.EmailRequest{
		To:      profile.Email,
		Subject: fmt.Sprintf("Your order #%d is confirmed", order.OrderID),
		Content: content,
	}

	return s.email.Send(ctx, req)
}
