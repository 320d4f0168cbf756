package coachRepo

import (
	"context"

	"purposeful/models"
)

// CoachRepository defines data access for coaches and their embedded
// schedule configuration.
type CoachRepository interface {
	Create(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id string) (*models.Coach, error)
	GetByEmail(ctx context.Context, email string) (*models.Coach, error)
	Update(ctx context.Context, coach *models.Coach) error
	UpdateTokenHash(ctx context.Context, id, tokenHash string) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]models.Coach, error)

	// Schedule configuration.
	SetWeeklyRules(ctx context.Context, coachID string, rules []models.WeeklyRule) error
	AddException(ctx context.Context, coachID string, exc models.AvailabilityException) error
	RemoveException(ctx context.Context, coachID, exceptionID string) error
}
