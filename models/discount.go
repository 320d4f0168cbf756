package models

import "time"

// DiscountCode backs promotional offers and the exit-intent popup.
type DiscountCode struct {
	ID              string     `bson:"id" json:"id"`
	Code            string     `bson:"code" json:"code"`
	DiscountPercent int        `bson:"discountPercent" json:"discountPercent"`
	DiscountAmount  int        `bson:"discountAmount,omitempty" json:"discountAmount,omitempty"` // fixed cents, optional
	MaxUses         int        `bson:"maxUses,omitempty" json:"maxUses,omitempty"`               // 0 = unlimited
	UsedCount       int        `bson:"usedCount" json:"usedCount"`
	ExpiresAt       *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Active          bool       `bson:"active" json:"active"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// Usable reports whether the code can still be redeemed at the given time.
func (d *DiscountCode) Usable(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	return true
}

// Apply returns the price after discount, never below zero.
func (d *DiscountCode) Apply(price int) int {
	discounted := price
	if d.DiscountPercent > 0 {
		discounted -= price * d.DiscountPercent / 100
	}
	if d.DiscountAmount > 0 {
		discounted -= d.DiscountAmount
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}
