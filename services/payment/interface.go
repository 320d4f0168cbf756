package payment

import (
	"context"

	"purposeful/models"
)

// CheckoutResult carries what the frontend needs to redirect to Stripe.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// PaymentService handles Stripe checkout, subscriptions and webhooks.
type PaymentService interface {
	// CreateSubscriptionCheckout starts a subscription checkout for one of
	// the coaching packages.
	CreateSubscriptionCheckout(ctx context.Context, productID, email, name string) (*CheckoutResult, error)
	// CreateSessionCheckout starts a one-time payment checkout for an
	// already-booked session, optionally applying a discount code.
	CreateSessionCheckout(ctx context.Context, sessionID, discountCode string) (*CheckoutResult, error)
	ListSubscriptions(ctx context.Context, email string) ([]models.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID, email string) error
	ValidateDiscount(ctx context.Context, code string) (*models.DiscountCode, error)
	// HandleWebhook verifies the Stripe signature and dispatches the event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// SubscriptionMailer sends subscription lifecycle emails. Optional; a nil
// mailer disables them.
type SubscriptionMailer interface {
	SendSubscriptionNotice(ctx context.Context, kind, to, customerName, productName string, amountCents int) error
}
