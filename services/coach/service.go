package coach

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	coachRepo "purposeful/database/repository/coach"
	"purposeful/models"
	"purposeful/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	Coach *models.Coach `json:"coach"`
	Token string        `json:"token"`
}

// CoachService covers the coach portal: account lifecycle plus schedule
// configuration.
type CoachService interface {
	Register(ctx context.Context, coach *models.Coach) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, coachID string) error
	DeleteAccount(ctx context.Context, coachID string) error
	GetByID(ctx context.Context, id string) (*models.Coach, error)
	ListActive(ctx context.Context) ([]models.Coach, error)
	UpdateProfile(ctx context.Context, coach *models.Coach) (*models.Coach, error)

	SetWeeklyRules(ctx context.Context, coachID string, rules []models.WeeklyRule) error
	AddException(ctx context.Context, coachID string, exc models.AvailabilityException) error
	RemoveException(ctx context.Context, coachID, exceptionID string) error
}

type DefaultCoachService struct {
	Repo   coachRepo.CoachRepository
	Logger *zap.Logger
}

func NewDefaultCoachService(repo coachRepo.CoachRepository) *DefaultCoachService {
	return &DefaultCoachService{Repo: repo, Logger: utils.GetLogger()}
}

func (s *DefaultCoachService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *DefaultCoachService) Register(ctx context.Context, coach *models.Coach) (*AuthResponse, error) {
	if coach.Email == "" || coach.Password == "" {
		return nil, &utils.InvalidInputError{Reason: "email and password are required"}
	}
	if len(coach.Password) < 8 {
		return nil, &utils.InvalidInputError{Reason: "password must be at least 8 characters"}
	}
	if coach.Timezone != "" {
		if _, err := time.LoadLocation(coach.Timezone); err != nil {
			return nil, &utils.InvalidInputError{Reason: "unknown timezone"}
		}
	}

	existing, err := s.Repo.GetByEmail(ctx, coach.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &utils.InvalidInputError{Reason: "an account with this email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(coach.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	coach.PasswordHash = string(hash)
	coach.Password = ""
	coach.Active = true

	if err := s.Repo.Create(ctx, coach); err != nil {
		return nil, err
	}

	s.logger().Info("registered coach", zap.String("coachId", coach.ID))
	return s.issueToken(ctx, coach)
}

func (s *DefaultCoachService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	coach, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger().Error("failed to fetch coach for login", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if coach == nil {
		return nil, &utils.InvalidInputError{Reason: "invalid email or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(password)); err != nil {
		return nil, &utils.InvalidInputError{Reason: "invalid email or password"}
	}
	return s.issueToken(ctx, coach)
}

// issueToken generates a JWT and persists its hash so the auth middleware
// can reject tokens revoked by logout.
func (s *DefaultCoachService) issueToken(ctx context.Context, coach *models.Coach) (*AuthResponse, error) {
	token, err := utils.GenerateToken(coach.ID, coach.Email, tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Repo.UpdateTokenHash(ctx, coach.ID, utils.HashToken(token)); err != nil {
		return nil, err
	}
	return &AuthResponse{Coach: coach, Token: token}, nil
}

func (s *DefaultCoachService) Logout(ctx context.Context, coachID string) error {
	// Drop the cached token hash so revocation is immediate.
	if utils.CacheClient != nil {
		if err := utils.CacheClient.Del(ctx, utils.AuthCachePrefix+coachID).Err(); err != nil {
			s.logger().Warn("failed to clear auth cache", zap.Error(err))
		}
	}
	return s.Repo.UpdateTokenHash(ctx, coachID, "")
}

// DeleteAccount removes the coach record and revokes any cached token.
func (s *DefaultCoachService) DeleteAccount(ctx context.Context, coachID string) error {
	coach, err := s.Repo.GetByID(ctx, coachID)
	if err != nil {
		return err
	}
	if coach == nil {
		return &utils.NotFoundError{Resource: "coach"}
	}

	if utils.CacheClient != nil {
		if err := utils.CacheClient.Del(ctx, utils.AuthCachePrefix+coachID).Err(); err != nil {
			s.logger().Warn("failed to clear auth cache", zap.Error(err))
		}
	}
	if err := s.Repo.Delete(ctx, coachID); err != nil {
		return err
	}

	s.logger().Info("deleted coach account", zap.String("coachId", coachID))
	return nil
}

func (s *DefaultCoachService) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	coach, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, &utils.NotFoundError{Resource: "coach"}
	}
	return coach, nil
}

func (s *DefaultCoachService) ListActive(ctx context.Context) ([]models.Coach, error) {
	return s.Repo.ListActive(ctx)
}

func (s *DefaultCoachService) UpdateProfile(ctx context.Context, coach *models.Coach) (*models.Coach, error) {
	current, err := s.GetByID(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	if coach.Timezone != "" {
		if _, err := time.LoadLocation(coach.Timezone); err != nil {
			return nil, &utils.InvalidInputError{Reason: "unknown timezone"}
		}
		current.Timezone = coach.Timezone
	}
	if coach.Name != "" {
		current.Name = coach.Name
	}
	if coach.Specialization != "" {
		current.Specialization = coach.Specialization
	}
	if coach.Bio != "" {
		current.Bio = coach.Bio
	}
	if coach.Certifications != "" {
		current.Certifications = coach.Certifications
	}
	if coach.YearsExperience > 0 {
		current.YearsExperience = coach.YearsExperience
	}

	if err := s.Repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *DefaultCoachService) SetWeeklyRules(ctx context.Context, coachID string, rules []models.WeeklyRule) error {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return &utils.InvalidInputError{Reason: err.Error()}
		}
	}
	if err := s.Repo.SetWeeklyRules(ctx, coachID, rules); err != nil {
		return err
	}
	s.logger().Info("updated weekly rules", zap.String("coachId", coachID), zap.Int("rules", len(rules)))
	return nil
}

func (s *DefaultCoachService) AddException(ctx context.Context, coachID string, exc models.AvailabilityException) error {
	if err := exc.Validate(); err != nil {
		return &utils.InvalidInputError{Reason: err.Error()}
	}
	return s.Repo.AddException(ctx, coachID, exc)
}

func (s *DefaultCoachService) RemoveException(ctx context.Context, coachID, exceptionID string) error {
	return s.Repo.RemoveException(ctx, coachID, exceptionID)
}
