package sessionRepo

import (
	"context"
	"errors"
	"time"

	"purposeful/models"
)

// ErrSlotTaken is returned by CreateScheduled when another occupying session
// overlaps the requested interval at commit time.
var ErrSlotTaken = errors.New("an overlapping session already exists for this coach")

// SessionRepository defines data access for booked sessions.
type SessionRepository interface {
	// CreateScheduled inserts a new scheduled session, failing with
	// ErrSlotTaken when an overlapping scheduled/completed session exists
	// for the same coach. The check and insert run in one transaction.
	CreateScheduled(ctx context.Context, session *models.Session) error

	// Reschedule moves a session to a new interval under the same guard,
	// excluding the session itself from the overlap check.
	Reschedule(ctx context.Context, id string, start, end time.Time) error

	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.Session, error)
	ListByCoach(ctx context.Context, coachID string) ([]models.Session, error)

	// ListOccupying returns scheduled/completed sessions of the coach whose
	// interval intersects [from, to).
	ListOccupying(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error)

	UpdateStatus(ctx context.Context, id, status string) error
	SetPaymentStatus(ctx context.Context, id, paymentStatus, stripeSessionID string) error
}
