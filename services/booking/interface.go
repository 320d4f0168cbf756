package booking

import (
	"context"

	"purposeful/models"
)

// BookingService commits and cancels session bookings. Slot reads go
// through the scheduling service; the conflict guard lives in the session
// repository so concurrent bookings of the same interval cannot both land.
type BookingService interface {
	// Book validates the requested start against current availability and
	// commits the session. A lost race surfaces as SlotUnavailableError;
	// the caller should re-query slots and retry.
	Book(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)

	// Cancel frees the slot and notifies the client.
	Cancel(ctx context.Context, sessionID, reason string) error

	// Reschedule moves a scheduled session to a new offered start,
	// re-arming its reminders. newStart is an RFC3339 instant.
	Reschedule(ctx context.Context, sessionID, newStart string) (*models.Session, error)

	// Complete and MarkNoShow record the session outcome.
	Complete(ctx context.Context, sessionID string) error
	MarkNoShow(ctx context.Context, sessionID string) error
}

// ReminderScheduler enqueues delayed session reminder deliveries. The
// production implementation is the asynq client in cron; tests use a stub.
type ReminderScheduler interface {
	ScheduleSessionReminders(ctx context.Context, session *models.Session) error
	DropSessionReminders(ctx context.Context, sessionID string) error
}

// Notifier sends session lifecycle emails. Failures are logged, never
// surfaced to the booking caller: the booking already committed.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, session *models.Session) error
	SendCancellation(ctx context.Context, session *models.Session, reason string) error
	SendReschedule(ctx context.Context, session *models.Session) error
}

// ProofFeed records a completed booking for the social proof ticker.
type ProofFeed interface {
	AddRecentBooking(name, sessionType string)
}
