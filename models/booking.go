package models

import "time"

// BookingRequest is the payload for creating a session booking.
type BookingRequest struct {
	CoachID       string `json:"coachId" binding:"required"`
	ClientID      string `json:"clientId" binding:"required"`
	SessionTypeID string `json:"sessionTypeId" binding:"required"`
	Start         string `json:"start" binding:"required"` // RFC3339 start instant
	Notes         string `json:"notes,omitempty"`
	DiscountCode  string `json:"discountCode,omitempty"`
}

// BookingResponse is returned on a successful booking.
type BookingResponse struct {
	Session     Session   `json:"session"`
	CheckoutURL string    `json:"checkoutUrl,omitempty"`
	BookedAt    time.Time `json:"bookedAt"`
}

// ReminderPayload is the asynq task body for a scheduled session reminder.
type ReminderPayload struct {
	SessionID    string `json:"sessionId"`
	ReminderType string `json:"reminderType"` // "24_hour" or "1_hour"
}

// Reminder types.
const (
	Reminder24Hour = "24_hour"
	Reminder1Hour  = "1_hour"
)
