package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"purposeful/config"
	"purposeful/models"
	"purposeful/utils"
)

// HandleWebhook verifies the payload signature and applies the event to
// local state. Unhandled event types are logged and acknowledged.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, config.AppConfig.StripeWebhookSecret)
	if err != nil {
		return &utils.InvalidInputError{Reason: "webhook signature verification failed"}
	}
	return s.dispatchEvent(ctx, event)
}

func (s *DefaultPaymentService) dispatchEvent(ctx context.Context, event stripe.Event) error {
	s.logger().Info("received stripe event", zap.String("type", string(event.Type)))

	switch event.Type {
	case "checkout.session.completed":
		var checkout stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkout); err != nil {
			return fmt.Errorf("failed to decode checkout session: %w", err)
		}
		return s.handleCheckoutCompleted(ctx, &checkout)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to decode invoice: %w", err)
		}
		return s.handleInvoice(ctx, &invoice, models.SubscriptionActive, "payment_confirmed")

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to decode invoice: %w", err)
		}
		return s.handleInvoice(ctx, &invoice, models.SubscriptionPastDue, "payment_failed")

	case "customer.subscription.deleted", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription: %w", err)
		}
		return s.handleSubscriptionChange(ctx, &sub, event.Type == "customer.subscription.deleted")

	default:
		s.logger().Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}
}

// handleCheckoutCompleted branches on checkout mode: one-time payments mark
// the booked session paid, subscription checkouts create the local record.
func (s *DefaultPaymentService) handleCheckoutCompleted(ctx context.Context, checkout *stripe.CheckoutSession) error {
	if checkout.Mode == stripe.CheckoutSessionModePayment {
		return s.settleSessionPayment(ctx, checkout)
	}
	return s.recordSubscription(ctx, checkout)
}

func (s *DefaultPaymentService) settleSessionPayment(ctx context.Context, checkout *stripe.CheckoutSession) error {
	sessionID := checkout.Metadata["session_id"]
	if sessionID == "" {
		s.logger().Warn("checkout completed without session_id metadata", zap.String("checkoutSessionId", checkout.ID))
		return nil
	}

	if err := s.Sessions.SetPaymentStatus(ctx, sessionID, models.PaymentPaid, checkout.ID); err != nil {
		return fmt.Errorf("failed to mark session %s paid: %w", sessionID, err)
	}

	if discountID := checkout.Metadata["discount_id"]; discountID != "" {
		if err := s.Discounts.MarkUsed(ctx, discountID); err != nil {
			s.logger().Warn("failed to record discount redemption",
				zap.String("discountId", discountID), zap.Error(err))
		}
	}

	s.logger().Info("session payment settled",
		zap.String("sessionId", sessionID),
		zap.String("checkoutSessionId", checkout.ID),
	)
	return nil
}

func (s *DefaultPaymentService) recordSubscription(ctx context.Context, checkout *stripe.CheckoutSession) error {
	productID := checkout.Metadata["product_id"]
	if productID == "" || checkout.Subscription == nil {
		s.logger().Warn("subscription checkout missing product or subscription", zap.String("checkoutSessionId", checkout.ID))
		return nil
	}

	stripeSub, err := s.stripeGetSub(checkout.Subscription.ID)
	if err != nil {
		return fmt.Errorf("failed to retrieve stripe subscription: %w", err)
	}

	email := checkout.CustomerEmail
	if email == "" {
		email = checkout.Metadata["customer_email"]
	}

	sub := &models.Subscription{
		UserEmail:            email,
		StripeSubscriptionID: stripeSub.ID,
		ProductID:            productID,
		Status:               mapStripeStatus(string(stripeSub.Status)),
	}
	if checkout.Customer != nil {
		sub.StripeCustomerID = checkout.Customer.ID
	}
	if stripeSub.Items != nil && len(stripeSub.Items.Data) > 0 {
		sub.StripePriceID = stripeSub.Items.Data[0].Price.ID
	}
	periodStart := time.Unix(stripeSub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0).UTC()
	sub.CurrentPeriodStart = &periodStart
	sub.CurrentPeriodEnd = &periodEnd

	if err := s.Subscriptions.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to record subscription: %w", err)
	}

	s.logger().Info("recorded subscription",
		zap.String("productId", productID),
		zap.String("stripeSubscriptionId", stripeSub.ID),
	)

	if s.Mailer != nil && email != "" {
		amount := 0
		if product, ok := GetProduct(productID); ok {
			amount = product.PriceMonthly
		}
		name := checkout.Metadata["customer_name"]
		if name == "" {
			name = "Valued Customer"
		}
		if err := s.Mailer.SendSubscriptionNotice(ctx, "new_subscription", email, name, productID, amount); err != nil {
			s.logger().Warn("failed to send subscription welcome email", zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultPaymentService) handleInvoice(ctx context.Context, invoice *stripe.Invoice, status, noticeKind string) error {
	if invoice.Subscription == nil {
		return nil
	}
	stripeSubID := invoice.Subscription.ID

	if err := s.Subscriptions.SyncFromStripe(ctx, stripeSubID, status, nil, nil, nil); err != nil {
		return err
	}

	if s.Mailer != nil {
		if sub, err := s.Subscriptions.GetByStripeID(ctx, stripeSubID); err == nil && sub != nil && sub.UserEmail != "" {
			amount := int(invoice.AmountPaid)
			if noticeKind == "payment_failed" {
				amount = int(invoice.AmountDue)
			}
			if err := s.Mailer.SendSubscriptionNotice(ctx, noticeKind, sub.UserEmail, "Valued Customer", sub.ProductID, amount); err != nil {
				s.logger().Warn("failed to send invoice email", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *DefaultPaymentService) handleSubscriptionChange(ctx context.Context, sub *stripe.Subscription, deleted bool) error {
	status := mapStripeStatus(string(sub.Status))
	var cancelledAt *time.Time
	if deleted {
		status = models.SubscriptionCancelled
		now := time.Now().UTC()
		cancelledAt = &now
	}

	var periodStart, periodEnd *time.Time
	if sub.CurrentPeriodStart > 0 {
		t := time.Unix(sub.CurrentPeriodStart, 0).UTC()
		periodStart = &t
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}
	if err := s.Subscriptions.SyncFromStripe(ctx, sub.ID, status, periodStart, periodEnd, cancelledAt); err != nil {
		return err
	}

	if deleted && s.Mailer != nil {
		if local, err := s.Subscriptions.GetByStripeID(ctx, sub.ID); err == nil && local != nil && local.UserEmail != "" {
			if err := s.Mailer.SendSubscriptionNotice(ctx, "subscription_cancelled", local.UserEmail, "Valued Customer", local.ProductID, 0); err != nil {
				s.logger().Warn("failed to send cancellation email", zap.Error(err))
			}
		}
	}
	return nil
}

// mapStripeStatus folds Stripe's subscription statuses onto the local set.
func mapStripeStatus(status string) string {
	switch status {
	case "active", "trialing":
		return models.SubscriptionActive
	case "canceled", "cancelled", "incomplete_expired":
		return models.SubscriptionCancelled
	case "past_due":
		return models.SubscriptionPastDue
	case "unpaid", "incomplete":
		return models.SubscriptionUnpaid
	default:
		return models.SubscriptionActive
	}
}
