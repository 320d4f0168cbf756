package scheduling

import (
	"context"
	"time"

	coachRepo "purposeful/database/repository/coach"
	sessionRepo "purposeful/database/repository/session"
	"purposeful/models"
)

// SchedulingService computes bookable time slots from a coach's recurring
// weekly schedule, exceptions and existing sessions. It is a pure read;
// booking commits live in the booking service.
type SchedulingService interface {
	// GetAvailableSlots returns the ordered start instants at which a
	// session of the given duration could begin on the given calendar date
	// ("2006-01-02", interpreted in the coach's timezone).
	GetAvailableSlots(ctx context.Context, coachID, date string, durationMinutes int) ([]time.Time, error)

	// IsSlotOffered reports whether GetAvailableSlots would currently offer
	// the given start instant for a session of the given duration, deriving
	// the calendar day in the coach's timezone.
	IsSlotOffered(ctx context.Context, coachID string, start time.Time, durationMinutes int) (bool, error)

	// GetWeeklyAvailability counts the open slots over the 7-day window
	// starting today in the coach's timezone.
	GetWeeklyAvailability(ctx context.Context, coachID string, durationMinutes int) (models.WeeklyAvailability, error)
}

// Repository is the read surface the resolver needs. Kept narrow so tests
// can run on in-memory fixtures.
type Repository interface {
	// GetCoach returns nil (not an error) when the coach does not exist.
	GetCoach(ctx context.Context, coachID string) (*models.Coach, error)
	// ListOccupying returns scheduled/completed sessions of the coach whose
	// interval intersects [from, to).
	ListOccupying(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error)
}

// repoAdapter bridges the mongo repositories onto the resolver's read surface.
type repoAdapter struct {
	coaches  coachRepo.CoachRepository
	sessions sessionRepo.SessionRepository
}

func NewRepository(coaches coachRepo.CoachRepository, sessions sessionRepo.SessionRepository) Repository {
	return &repoAdapter{coaches: coaches, sessions: sessions}
}

func (a *repoAdapter) GetCoach(ctx context.Context, coachID string) (*models.Coach, error) {
	return a.coaches.GetByID(ctx, coachID)
}

func (a *repoAdapter) ListOccupying(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error) {
	return a.sessions.ListOccupying(ctx, coachID, from, to)
}
