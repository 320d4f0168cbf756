package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purposeful/models"
	"purposeful/utils"
)

type memSubs struct{ subs []*models.Subscription }

func (m *memSubs) Create(_ context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = "sub-local-1"
	}
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}
	copied := *sub
	m.subs = append(m.subs, &copied)
	return nil
}

func (m *memSubs) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	for _, s := range m.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSubs) GetByStripeID(_ context.Context, stripeID string) (*models.Subscription, error) {
	for _, s := range m.subs {
		if s.StripeSubscriptionID == stripeID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSubs) ListByEmail(_ context.Context, email string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range m.subs {
		if s.UserEmail == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSubs) SetStatus(_ context.Context, id, status string, cancelledAt *time.Time) error {
	for _, s := range m.subs {
		if s.ID == id {
			s.Status = status
			s.CancelledAt = cancelledAt
		}
	}
	return nil
}

func (m *memSubs) SyncFromStripe(_ context.Context, stripeID, status string, _, _, cancelledAt *time.Time) error {
	for _, s := range m.subs {
		if s.StripeSubscriptionID == stripeID {
			s.Status = status
			if cancelledAt != nil {
				s.CancelledAt = cancelledAt
			}
		}
	}
	return nil
}

type paidSessions struct {
	paid     map[string]string // sessionID -> stripe checkout ID
	statuses map[string]string
}

func (p *paidSessions) CreateScheduled(context.Context, *models.Session) error { return nil }
func (p *paidSessions) Reschedule(context.Context, string, time.Time, time.Time) error {
	return nil
}
func (p *paidSessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	status, ok := p.statuses[id]
	if !ok {
		return nil, nil
	}
	return &models.Session{ID: id, Status: status, PaymentStatus: models.PaymentPending, Price: 15000}, nil
}
func (p *paidSessions) GetByStripeSessionID(context.Context, string) (*models.Session, error) {
	return nil, nil
}
func (p *paidSessions) ListByCoach(context.Context, string) ([]models.Session, error) {
	return nil, nil
}
func (p *paidSessions) ListOccupying(context.Context, string, time.Time, time.Time) ([]models.Session, error) {
	return nil, nil
}
func (p *paidSessions) UpdateStatus(context.Context, string, string) error { return nil }
func (p *paidSessions) SetPaymentStatus(_ context.Context, id, paymentStatus, stripeSessionID string) error {
	if p.paid == nil {
		p.paid = map[string]string{}
	}
	if paymentStatus == models.PaymentPaid {
		p.paid[id] = stripeSessionID
	}
	return nil
}

type memDiscounts struct {
	codes map[string]*models.DiscountCode
	used  []string
}

func (m *memDiscounts) Create(context.Context, *models.DiscountCode) error { return nil }
func (m *memDiscounts) GetByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	return m.codes[code], nil
}
func (m *memDiscounts) MarkUsed(_ context.Context, id string) error {
	m.used = append(m.used, id)
	return nil
}

type memTypes struct{}

func (memTypes) Create(context.Context, *models.SessionType) error { return nil }
func (memTypes) GetByID(_ context.Context, id string) (*models.SessionType, error) {
	return &models.SessionType{ID: id, Name: "Deep Dive", Duration: 60, Price: 15000, Active: true}, nil
}
func (memTypes) ListActiveByCoach(context.Context, string) ([]models.SessionType, error) {
	return nil, nil
}
func (memTypes) Update(context.Context, *models.SessionType) error { return nil }
func (memTypes) Delete(context.Context, string) error              { return nil }

type notices struct{ kinds []string }

func (n *notices) SendSubscriptionNotice(_ context.Context, kind, _, _, _ string, _ int) error {
	n.kinds = append(n.kinds, kind)
	return nil
}

func newService(subs *memSubs, sessions *paidSessions, discounts *memDiscounts, mailer *notices) *DefaultPaymentService {
	svc := &DefaultPaymentService{
		Subscriptions: subs,
		Sessions:      sessions,
		SessionTypes:  memTypes{},
		Discounts:     discounts,
	}
	if mailer != nil {
		svc.Mailer = mailer
	}
	svc.stripeCheckout = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
	}
	svc.stripeGetSub = func(id string) (*stripe.Subscription, error) {
		return &stripe.Subscription{
			ID:                 id,
			Status:             stripe.SubscriptionStatusActive,
			CurrentPeriodStart: time.Now().Unix(),
			CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour).Unix(),
		}, nil
	}
	svc.stripeCancelSub = func(string) error { return nil }
	return svc
}

func TestSessionCheckout(t *testing.T) {
	t.Run("pending session gets a checkout url", func(t *testing.T) {
		sessions := &paidSessions{statuses: map[string]string{"sess-1": models.SessionScheduled}}
		svc := newService(&memSubs{}, sessions, &memDiscounts{}, nil)

		var captured *stripe.CheckoutSessionParams
		svc.stripeCheckout = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			captured = params
			return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.test/cs_1"}, nil
		}

		result, err := svc.CreateSessionCheckout(context.Background(), "sess-1", "")
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.test/cs_1", result.URL)
		require.NotNil(t, captured)
		require.Len(t, captured.LineItems, 1)
		assert.Equal(t, int64(15000), *captured.LineItems[0].PriceData.UnitAmount)
	})

	t.Run("discount code lowers the charged amount", func(t *testing.T) {
		sessions := &paidSessions{statuses: map[string]string{"sess-1": models.SessionScheduled}}
		discounts := &memDiscounts{codes: map[string]*models.DiscountCode{
			"WELCOME20": {ID: "d-1", Code: "WELCOME20", DiscountPercent: 20, Active: true},
		}}
		svc := newService(&memSubs{}, sessions, discounts, nil)

		var captured *stripe.CheckoutSessionParams
		svc.stripeCheckout = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			captured = params
			return &stripe.CheckoutSession{ID: "cs_1", URL: "u"}, nil
		}

		_, err := svc.CreateSessionCheckout(context.Background(), "sess-1", "WELCOME20")
		require.NoError(t, err)
		assert.Equal(t, int64(12000), *captured.LineItems[0].PriceData.UnitAmount)
	})

	t.Run("exhausted discount is rejected", func(t *testing.T) {
		sessions := &paidSessions{statuses: map[string]string{"sess-1": models.SessionScheduled}}
		discounts := &memDiscounts{codes: map[string]*models.DiscountCode{
			"GONE": {ID: "d-2", Code: "GONE", DiscountPercent: 50, Active: true, MaxUses: 3, UsedCount: 3},
		}}
		svc := newService(&memSubs{}, sessions, discounts, nil)

		_, err := svc.CreateSessionCheckout(context.Background(), "sess-1", "GONE")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("cancelled session cannot be paid", func(t *testing.T) {
		sessions := &paidSessions{statuses: map[string]string{"sess-1": models.SessionCancelled}}
		svc := newService(&memSubs{}, sessions, &memDiscounts{}, nil)

		_, err := svc.CreateSessionCheckout(context.Background(), "sess-1", "")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestSubscriptionCheckout(t *testing.T) {
	t.Run("enterprise tier routes to sales", func(t *testing.T) {
		svc := newService(&memSubs{}, &paidSessions{}, &memDiscounts{}, nil)

		_, err := svc.CreateSubscriptionCheckout(context.Background(), "enterprise", "ops@example.com", "Ops")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		svc := newService(&memSubs{}, &paidSessions{}, &memDiscounts{}, nil)

		_, err := svc.CreateSubscriptionCheckout(context.Background(), "platinum", "ops@example.com", "Ops")
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func webhookEvent(t *testing.T, eventType string, object any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestWebhookDispatch(t *testing.T) {
	t.Run("one-time checkout marks the session paid", func(t *testing.T) {
		sessions := &paidSessions{statuses: map[string]string{"sess-1": models.SessionScheduled}}
		discounts := &memDiscounts{}
		svc := newService(&memSubs{}, sessions, discounts, nil)

		event := webhookEvent(t, "checkout.session.completed", map[string]any{
			"id":       "cs_paid",
			"mode":     "payment",
			"metadata": map[string]string{"session_id": "sess-1", "discount_id": "d-1"},
		})
		require.NoError(t, svc.dispatchEvent(context.Background(), event))
		assert.Equal(t, "cs_paid", sessions.paid["sess-1"])
		assert.Equal(t, []string{"d-1"}, discounts.used)
	})

	t.Run("subscription checkout creates a local record and emails", func(t *testing.T) {
		subs := &memSubs{}
		mailer := &notices{}
		svc := newService(subs, &paidSessions{}, &memDiscounts{}, mailer)

		event := webhookEvent(t, "checkout.session.completed", map[string]any{
			"id":             "cs_sub",
			"mode":           "subscription",
			"customer_email": "alex@example.com",
			"subscription":   map[string]any{"id": "sub_stripe_1"},
			"metadata":       map[string]string{"product_id": "starter", "customer_name": "Alex"},
		})
		require.NoError(t, svc.dispatchEvent(context.Background(), event))

		require.Len(t, subs.subs, 1)
		assert.Equal(t, "starter", subs.subs[0].ProductID)
		assert.Equal(t, "alex@example.com", subs.subs[0].UserEmail)
		assert.Equal(t, models.SubscriptionActive, subs.subs[0].Status)
		assert.Equal(t, []string{"new_subscription"}, mailer.kinds)
	})

	t.Run("failed invoice marks the subscription past due", func(t *testing.T) {
		subs := &memSubs{subs: []*models.Subscription{{
			ID: "local-1", UserEmail: "alex@example.com",
			StripeSubscriptionID: "sub_stripe_1", Status: models.SubscriptionActive,
		}}}
		mailer := &notices{}
		svc := newService(subs, &paidSessions{}, &memDiscounts{}, mailer)

		event := webhookEvent(t, "invoice.payment_failed", map[string]any{
			"subscription": map[string]any{"id": "sub_stripe_1"},
			"amount_due":   250000,
		})
		require.NoError(t, svc.dispatchEvent(context.Background(), event))
		assert.Equal(t, models.SubscriptionPastDue, subs.subs[0].Status)
		assert.Equal(t, []string{"payment_failed"}, mailer.kinds)
	})

	t.Run("subscription deletion cancels locally", func(t *testing.T) {
		subs := &memSubs{subs: []*models.Subscription{{
			ID: "local-1", UserEmail: "alex@example.com",
			StripeSubscriptionID: "sub_stripe_1", Status: models.SubscriptionActive,
		}}}
		svc := newService(subs, &paidSessions{}, &memDiscounts{}, nil)

		event := webhookEvent(t, "customer.subscription.deleted", map[string]any{
			"id":     "sub_stripe_1",
			"status": "canceled",
		})
		require.NoError(t, svc.dispatchEvent(context.Background(), event))
		assert.Equal(t, models.SubscriptionCancelled, subs.subs[0].Status)
		assert.NotNil(t, subs.subs[0].CancelledAt)
	})

	t.Run("unhandled events are acknowledged", func(t *testing.T) {
		svc := newService(&memSubs{}, &paidSessions{}, &memDiscounts{}, nil)

		event := webhookEvent(t, "charge.refunded", map[string]any{"id": "ch_1"})
		require.NoError(t, svc.dispatchEvent(context.Background(), event))
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Run("owner cancels in stripe and locally", func(t *testing.T) {
		subs := &memSubs{subs: []*models.Subscription{{
			ID: "local-1", UserEmail: "alex@example.com",
			StripeSubscriptionID: "sub_stripe_1", Status: models.SubscriptionActive,
		}}}
		svc := newService(subs, &paidSessions{}, &memDiscounts{}, nil)

		var cancelled string
		svc.stripeCancelSub = func(id string) error {
			cancelled = id
			return nil
		}

		require.NoError(t, svc.CancelSubscription(context.Background(), "local-1", "alex@example.com"))
		assert.Equal(t, "sub_stripe_1", cancelled)
		assert.Equal(t, models.SubscriptionCancelled, subs.subs[0].Status)
	})

	t.Run("someone else's subscription is not found", func(t *testing.T) {
		subs := &memSubs{subs: []*models.Subscription{{
			ID: "local-1", UserEmail: "alex@example.com", Status: models.SubscriptionActive,
		}}}
		svc := newService(subs, &paidSessions{}, &memDiscounts{}, nil)

		err := svc.CancelSubscription(context.Background(), "local-1", "mallory@example.com")
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestProducts(t *testing.T) {
	all := Products()
	require.Len(t, all, 3)

	var enterprise models.Product
	for _, p := range all {
		if p.ID == "enterprise" {
			enterprise = p
		}
	}
	assert.True(t, enterprise.ContactSales)
	assert.False(t, enterprise.Purchasable())

	product, ok := GetProduct("PROFESSIONAL")
	require.True(t, ok)
	assert.True(t, product.Featured)
	assert.Equal(t, 750000, product.PriceMonthly)
}
