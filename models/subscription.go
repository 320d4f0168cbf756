package models

import "time"

// Subscription statuses mirror Stripe's.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionPastDue   = "past_due"
	SubscriptionUnpaid    = "unpaid"
)

// Subscription tracks a Stripe subscription for a coaching package.
type Subscription struct {
	ID                   string     `bson:"id" json:"id"`
	UserEmail            string     `bson:"userEmail" json:"userEmail"`
	StripeSubscriptionID string     `bson:"stripeSubscriptionId,omitempty" json:"stripeSubscriptionId,omitempty"`
	StripeCustomerID     string     `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	StripePriceID        string     `bson:"stripePriceId,omitempty" json:"stripePriceId,omitempty"`
	ProductID            string     `bson:"productId" json:"productId"`
	Status               string     `bson:"status" json:"status"`
	CurrentPeriodStart   *time.Time `bson:"currentPeriodStart,omitempty" json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd     *time.Time `bson:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`
	CancelledAt          *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt            time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Product is a purchasable coaching package.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PriceMonthly  int      `json:"priceMonthly"` // cents; 0 means custom pricing
	StripePriceID string   `json:"-"`
	Features      []string `json:"features"`
	Featured      bool     `json:"featured,omitempty"`
	ContactSales  bool     `json:"contactSales,omitempty"`
}

// Purchasable reports whether the product can go through checkout directly.
func (p Product) Purchasable() bool {
	return !p.ContactSales && p.StripePriceID != ""
}
