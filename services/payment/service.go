package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	checkoutSession "github.com/stripe/stripe-go/v76/checkout/session"
	stripeSubscription "github.com/stripe/stripe-go/v76/subscription"
	"go.uber.org/zap"

	"purposeful/config"
	discountRepo "purposeful/database/repository/discount"
	sessionRepo "purposeful/database/repository/session"
	sessionTypeRepo "purposeful/database/repository/sessiontype"
	subscriptionRepo "purposeful/database/repository/subscription"
	"purposeful/models"
	"purposeful/utils"
)

// DefaultPaymentService is the Stripe-backed PaymentService. The stripe*
// fields exist so tests can intercept the API calls.
type DefaultPaymentService struct {
	Subscriptions subscriptionRepo.SubscriptionRepository
	Sessions      sessionRepo.SessionRepository
	SessionTypes  sessionTypeRepo.SessionTypeRepository
	Discounts     discountRepo.DiscountRepository
	Mailer        SubscriptionMailer
	Logger        *zap.Logger

	stripeCheckout  func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	stripeGetSub    func(id string) (*stripe.Subscription, error)
	stripeCancelSub func(id string) error
}

func NewDefaultPaymentService(
	subs subscriptionRepo.SubscriptionRepository,
	sessions sessionRepo.SessionRepository,
	sessionTypes sessionTypeRepo.SessionTypeRepository,
	discounts discountRepo.DiscountRepository,
	mailer SubscriptionMailer,
) *DefaultPaymentService {
	return &DefaultPaymentService{
		Subscriptions:  subs,
		Sessions:       sessions,
		SessionTypes:   sessionTypes,
		Discounts:      discounts,
		Mailer:         mailer,
		Logger:         utils.GetLogger(),
		stripeCheckout: checkoutSession.New,
		stripeGetSub: func(id string) (*stripe.Subscription, error) {
			return stripeSubscription.Get(id, nil)
		},
		stripeCancelSub: func(id string) error {
			_, err := stripeSubscription.Cancel(id, nil)
			return err
		},
	}
}

func (s *DefaultPaymentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *DefaultPaymentService) CreateSubscriptionCheckout(ctx context.Context, productID, email, name string) (*CheckoutResult, error) {
	product, ok := GetProduct(productID)
	if !ok {
		return nil, &utils.NotFoundError{Resource: "product"}
	}
	if !product.Purchasable() {
		return nil, &utils.InvalidInputError{Reason: "product not available for purchase, please contact sales"}
	}

	origin := config.AppConfig.SiteOrigin
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(product.StripePriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:          stripe.String(origin + "/dashboard?payment=success"),
		CancelURL:           stripe.String(origin + "/dashboard?payment=cancelled"),
		AllowPromotionCodes: stripe.Bool(true),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("customer_email", email)
	params.AddMetadata("customer_name", name)
	params.AddMetadata("product_id", product.ID)

	checkout, err := s.stripeCheckout(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger().Info("created subscription checkout",
		zap.String("productId", product.ID),
		zap.String("checkoutSessionId", checkout.ID),
	)
	return &CheckoutResult{URL: checkout.URL, SessionID: checkout.ID}, nil
}

func (s *DefaultPaymentService) CreateSessionCheckout(ctx context.Context, sessionID, discountCode string) (*CheckoutResult, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &utils.NotFoundError{Resource: "session"}
	}
	if session.Status != models.SessionScheduled {
		return nil, &utils.InvalidInputError{Reason: "session is not awaiting payment"}
	}
	if session.PaymentStatus == models.PaymentPaid {
		return nil, &utils.InvalidInputError{Reason: "session is already paid"}
	}

	itemName := "Coaching Session"
	if session.SessionTypeID != "" {
		if st, err := s.SessionTypes.GetByID(ctx, session.SessionTypeID); err == nil && st != nil {
			itemName = st.Name
		}
	}

	amount := session.Price
	var discountID string
	if discountCode != "" {
		discount, err := s.ValidateDiscount(ctx, discountCode)
		if err != nil {
			return nil, err
		}
		amount = discount.Apply(amount)
		discountID = discount.ID
	}

	origin := config.AppConfig.SiteOrigin
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(itemName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/booking?payment=success"),
		CancelURL:  stripe.String(origin + "/booking?payment=cancelled"),
	}
	params.AddMetadata("session_id", session.ID)
	if discountID != "" {
		params.AddMetadata("discount_id", discountID)
	}

	checkout, err := s.stripeCheckout(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger().Info("created session checkout",
		zap.String("sessionId", session.ID),
		zap.Int("amount", amount),
		zap.String("checkoutSessionId", checkout.ID),
	)
	return &CheckoutResult{URL: checkout.URL, SessionID: checkout.ID}, nil
}

func (s *DefaultPaymentService) ListSubscriptions(ctx context.Context, email string) ([]models.Subscription, error) {
	return s.Subscriptions.ListByEmail(ctx, email)
}

func (s *DefaultPaymentService) CancelSubscription(ctx context.Context, subscriptionID, email string) error {
	sub, err := s.Subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil || !strings.EqualFold(sub.UserEmail, email) {
		return &utils.NotFoundError{Resource: "subscription"}
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.stripeCancelSub(sub.StripeSubscriptionID); err != nil {
			return fmt.Errorf("failed to cancel stripe subscription: %w", err)
		}
	}

	now := time.Now().UTC()
	return s.Subscriptions.SetStatus(ctx, sub.ID, models.SubscriptionCancelled, &now)
}

func (s *DefaultPaymentService) ValidateDiscount(ctx context.Context, code string) (*models.DiscountCode, error) {
	if code == "" {
		return nil, &utils.InvalidInputError{Reason: "discount code is required"}
	}
	discount, err := s.Discounts.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, &utils.NotFoundError{Resource: "discount code"}
	}
	if !discount.Usable(time.Now().UTC()) {
		return nil, &utils.InvalidInputError{Reason: "discount code is no longer valid"}
	}
	return discount, nil
}
