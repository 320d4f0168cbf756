package models

import "time"

// Session statuses. Only scheduled and completed sessions occupy a slot;
// cancelled and no-show sessions free it.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
	SessionNoShow    = "no-show"
)

// Payment statuses captured on the session record.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

// Session is a booked appointment between a coach and a client.
// EndDate is denormalized (ScheduledDate + Duration) so the overlap guard
// can run as a plain range query.
type Session struct {
	ID              string    `bson:"id" json:"id"`
	CoachID         string    `bson:"coachId" json:"coachId"`
	ClientID        string    `bson:"clientId" json:"clientId"`
	SessionTypeID   string    `bson:"sessionTypeId,omitempty" json:"sessionTypeId,omitempty"`
	ScheduledDate   time.Time `bson:"scheduledDate" json:"scheduledDate"` // stored UTC
	Duration        int       `bson:"duration" json:"duration"`           // minutes
	EndDate         time.Time `bson:"endDate" json:"endDate"`
	Price           int       `bson:"price,omitempty" json:"price,omitempty"` // cents, captured at booking time
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          string    `bson:"status" json:"status"`
	PaymentStatus   string    `bson:"paymentStatus" json:"paymentStatus"`
	StripeSessionID string    `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Occupies reports whether the session blocks its time interval.
func (s *Session) Occupies() bool {
	return s.Status == SessionScheduled || s.Status == SessionCompleted
}
