package models

import "time"

// SessionType is a configurable session offering with pricing. Duration
// drives the availability resolver; prices are cents.
type SessionType struct {
	ID             string    `bson:"id" json:"id"`
	CoachID        string    `bson:"coachId" json:"coachId"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Duration       int       `bson:"duration" json:"duration"` // minutes
	Price          int       `bson:"price" json:"price"`
	StripePriceID  string    `bson:"stripePriceId,omitempty" json:"stripePriceId,omitempty"`   // recurring price for subscriptions
	OneTimePriceID string    `bson:"oneTimePriceId,omitempty" json:"oneTimePriceId,omitempty"` // one-time price for single sessions
	Active         bool      `bson:"active" json:"active"`
	DisplayOrder   int       `bson:"displayOrder" json:"displayOrder"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
