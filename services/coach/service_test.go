package coach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purposeful/models"
	"purposeful/utils"
)

type memCoaches struct{ coaches map[string]*models.Coach }

func newMemCoaches() *memCoaches {
	return &memCoaches{coaches: make(map[string]*models.Coach)}
}

func (m *memCoaches) Create(_ context.Context, coach *models.Coach) error {
	if coach.ID == "" {
		coach.ID = "coach-1"
	}
	copied := *coach
	m.coaches[coach.ID] = &copied
	return nil
}

func (m *memCoaches) GetByID(_ context.Context, id string) (*models.Coach, error) {
	c, ok := m.coaches[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *memCoaches) GetByEmail(_ context.Context, email string) (*models.Coach, error) {
	for _, c := range m.coaches {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memCoaches) Update(_ context.Context, coach *models.Coach) error {
	copied := *coach
	m.coaches[coach.ID] = &copied
	return nil
}

func (m *memCoaches) UpdateTokenHash(_ context.Context, id, tokenHash string) error {
	if c, ok := m.coaches[id]; ok {
		c.TokenHash = tokenHash
	}
	return nil
}

func (m *memCoaches) Delete(_ context.Context, id string) error {
	delete(m.coaches, id)
	return nil
}

func (m *memCoaches) ListActive(_ context.Context) ([]models.Coach, error) {
	var out []models.Coach
	for _, c := range m.coaches {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCoaches) SetWeeklyRules(_ context.Context, coachID string, rules []models.WeeklyRule) error {
	m.coaches[coachID].WeeklyRules = rules
	return nil
}

func (m *memCoaches) AddException(_ context.Context, coachID string, exc models.AvailabilityException) error {
	c := m.coaches[coachID]
	c.Exceptions = append(c.Exceptions, exc)
	return nil
}

func (m *memCoaches) RemoveException(_ context.Context, coachID, exceptionID string) error {
	c := m.coaches[coachID]
	var kept []models.AvailabilityException
	for _, e := range c.Exceptions {
		if e.ID != exceptionID {
			kept = append(kept, e)
		}
	}
	c.Exceptions = kept
	return nil
}

func registered(t *testing.T) (*DefaultCoachService, *memCoaches, *AuthResponse) {
	t.Helper()
	repo := newMemCoaches()
	svc := &DefaultCoachService{Repo: repo}
	resp, err := svc.Register(context.Background(), &models.Coach{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
		Timezone: "America/New_York",
	})
	require.NoError(t, err)
	return svc, repo, resp
}

func TestRegister(t *testing.T) {
	t.Run("hashes the password and issues a token", func(t *testing.T) {
		_, repo, resp := registered(t)

		assert.NotEmpty(t, resp.Token)
		stored := repo.coaches[resp.Coach.ID]
		assert.Empty(t, stored.Password)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
		assert.Equal(t, utils.HashToken(resp.Token), stored.TokenHash)
		assert.True(t, stored.Active)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := registered(t)

		_, err := svc.Register(context.Background(), &models.Coach{
			Email: "jordan@example.com", Password: "another-pass",
		})
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects short passwords and bad timezones", func(t *testing.T) {
		svc := &DefaultCoachService{Repo: newMemCoaches()}

		_, err := svc.Register(context.Background(), &models.Coach{Email: "a@b.c", Password: "short"})
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)

		_, err = svc.Register(context.Background(), &models.Coach{
			Email: "a@b.c", Password: "long-enough", Timezone: "Mars/Olympus",
		})
		require.ErrorAs(t, err, &invalid)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials rotate the token hash", func(t *testing.T) {
		svc, repo, first := registered(t)

		resp, err := svc.Login(context.Background(), "jordan@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, utils.HashToken(resp.Token), repo.coaches[resp.Coach.ID].TokenHash)
		_ = first
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc, _, _ := registered(t)

		_, err := svc.Login(context.Background(), "jordan@example.com", "wrong")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("logout clears the token hash", func(t *testing.T) {
		svc, repo, resp := registered(t)

		require.NoError(t, svc.Logout(context.Background(), resp.Coach.ID))
		assert.Empty(t, repo.coaches[resp.Coach.ID].TokenHash)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("removes the coach record", func(t *testing.T) {
		svc, repo, resp := registered(t)

		require.NoError(t, svc.DeleteAccount(context.Background(), resp.Coach.ID))
		assert.NotContains(t, repo.coaches, resp.Coach.ID)

		_, err := svc.Login(context.Background(), "jordan@example.com", "s3cret-pass")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown coach is not found", func(t *testing.T) {
		svc, _, _ := registered(t)

		err := svc.DeleteAccount(context.Background(), "missing")
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestSchedule(t *testing.T) {
	t.Run("valid rules are stored", func(t *testing.T) {
		svc, repo, resp := registered(t)

		rules := []models.WeeklyRule{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 3, StartTime: "13:00", EndTime: "17:00", Active: true},
		}
		require.NoError(t, svc.SetWeeklyRules(context.Background(), resp.Coach.ID, rules))
		assert.Len(t, repo.coaches[resp.Coach.ID].WeeklyRules, 2)
	})

	t.Run("inverted rule window is rejected", func(t *testing.T) {
		svc, _, resp := registered(t)

		err := svc.SetWeeklyRules(context.Background(), resp.Coach.ID, []models.WeeklyRule{
			{DayOfWeek: 1, StartTime: "12:00", EndTime: "09:00", Active: true},
		})
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("inverted exception range is rejected", func(t *testing.T) {
		svc, _, resp := registered(t)

		err := svc.AddException(context.Background(), resp.Coach.ID, models.AvailabilityException{
			StartDate: mustDate("2025-07-10"),
			EndDate:   mustDate("2025-07-01"),
		})
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, resp := registered(t)

	updated, err := svc.UpdateProfile(context.Background(), &models.Coach{
		ID:       resp.Coach.ID,
		Bio:      "20 years of executive coaching",
		Timezone: "Europe/London",
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", updated.Timezone)
	assert.Equal(t, "20 years of executive coaching", updated.Bio)
	// Untouched fields survive.
	assert.Equal(t, "Jordan", repo.coaches[resp.Coach.ID].Name)
}

func mustDate(s string) (t time.Time) {
	t, _ = time.Parse("2006-01-02", s)
	return t
}
