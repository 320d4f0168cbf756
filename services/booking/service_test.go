package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionRepo "purposeful/database/repository/session"
	"purposeful/models"
	"purposeful/services/scheduling"
	"purposeful/utils"
)

// memSessions is an in-memory SessionRepository that enforces the same
// overlap guard as the mongo implementation.
type memSessions struct {
	sessions   map[string]*models.Session
	nextID     int
	forceTaken bool
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*models.Session)}
}

func (m *memSessions) CreateScheduled(_ context.Context, session *models.Session) error {
	if m.forceTaken {
		return sessionRepo.ErrSlotTaken
	}
	m.nextID++
	session.ID = fmt.Sprintf("sess-%d", m.nextID)
	session.Status = models.SessionScheduled
	if session.PaymentStatus == "" {
		session.PaymentStatus = models.PaymentPending
	}
	session.EndDate = session.ScheduledDate.Add(time.Duration(session.Duration) * time.Minute)
	for _, existing := range m.sessions {
		if !existing.Occupies() || existing.CoachID != session.CoachID {
			continue
		}
		if session.ScheduledDate.Before(existing.EndDate) && existing.ScheduledDate.Before(session.EndDate) {
			return sessionRepo.ErrSlotTaken
		}
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memSessions) Reschedule(_ context.Context, id string, start, end time.Time) error {
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	for _, existing := range m.sessions {
		if existing.ID == id || !existing.Occupies() || existing.CoachID != s.CoachID {
			continue
		}
		if start.Before(existing.EndDate) && existing.ScheduledDate.Before(end) {
			return sessionRepo.ErrSlotTaken
		}
	}
	s.ScheduledDate = start
	s.EndDate = end
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memSessions) GetByStripeSessionID(_ context.Context, stripeID string) (*models.Session, error) {
	for _, s := range m.sessions {
		if s.StripeSessionID == stripeID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memSessions) ListByCoach(_ context.Context, coachID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.CoachID == coachID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) ListOccupying(_ context.Context, coachID string, from, to time.Time) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.CoachID != coachID || !s.Occupies() {
			continue
		}
		if s.ScheduledDate.Before(to) && s.EndDate.After(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) UpdateStatus(_ context.Context, id, status string) error {
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.Status = status
	return nil
}

func (m *memSessions) SetPaymentStatus(_ context.Context, id, paymentStatus, stripeSessionID string) error {
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.PaymentStatus = paymentStatus
	if stripeSessionID != "" {
		s.StripeSessionID = stripeSessionID
	}
	return nil
}

// schedRepo adapts the fixture onto the resolver's read surface.
type schedRepo struct {
	coach    *models.Coach
	sessions *memSessions
}

func (r *schedRepo) GetCoach(_ context.Context, coachID string) (*models.Coach, error) {
	if r.coach != nil && r.coach.ID == coachID {
		return r.coach, nil
	}
	return nil, nil
}

func (r *schedRepo) ListOccupying(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error) {
	return r.sessions.ListOccupying(ctx, coachID, from, to)
}

type memTypes struct{ types map[string]*models.SessionType }

func (m *memTypes) Create(context.Context, *models.SessionType) error { return nil }
func (m *memTypes) GetByID(_ context.Context, id string) (*models.SessionType, error) {
	return m.types[id], nil
}
func (m *memTypes) ListActiveByCoach(context.Context, string) ([]models.SessionType, error) {
	return nil, nil
}
func (m *memTypes) Update(context.Context, *models.SessionType) error { return nil }
func (m *memTypes) Delete(context.Context, string) error              { return nil }

type memClients struct{ clients map[string]*models.Client }

func (m *memClients) Create(context.Context, *models.Client) error { return nil }
func (m *memClients) GetByID(_ context.Context, id string) (*models.Client, error) {
	return m.clients[id], nil
}
func (m *memClients) ListByCoach(context.Context, string) ([]models.Client, error) { return nil, nil }
func (m *memClients) Update(context.Context, *models.Client) error                 { return nil }
func (m *memClients) Delete(context.Context, string) error                         { return nil }

type stubReminders struct {
	scheduled []string
	dropped   []string
}

func (s *stubReminders) ScheduleSessionReminders(_ context.Context, session *models.Session) error {
	s.scheduled = append(s.scheduled, session.ID)
	return nil
}

func (s *stubReminders) DropSessionReminders(_ context.Context, sessionID string) error {
	s.dropped = append(s.dropped, sessionID)
	return nil
}

type stubNotifier struct {
	confirmations []string
	cancellations []string
	reschedules   []string
}

func (s *stubNotifier) SendBookingConfirmation(_ context.Context, session *models.Session) error {
	s.confirmations = append(s.confirmations, session.ID)
	return nil
}

func (s *stubNotifier) SendCancellation(_ context.Context, session *models.Session, _ string) error {
	s.cancellations = append(s.cancellations, session.ID)
	return nil
}

func (s *stubNotifier) SendReschedule(_ context.Context, session *models.Session) error {
	s.reschedules = append(s.reschedules, session.ID)
	return nil
}

type stubProof struct{ entries []string }

func (s *stubProof) AddRecentBooking(name, sessionType string) {
	s.entries = append(s.entries, name+"/"+sessionType)
}

type fixture struct {
	svc       *DefaultBookingService
	sessions  *memSessions
	reminders *stubReminders
	notifier  *stubNotifier
	proof     *stubProof
}

// 2025-06-02 is a Monday; "now" is fixed the evening before.
var testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	return newFixtureFor(&models.Coach{
		ID:       "coach-1",
		Name:     "Jordan",
		Timezone: "UTC",
		Active:   true,
		WeeklyRules: []models.WeeklyRule{
			{ID: "r1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
		},
	})
}

func newFixtureFor(coach *models.Coach) *fixture {
	sessions := newMemSessions()
	scheduler := &scheduling.DefaultSchedulingService{
		Repo:            &schedRepo{coach: coach, sessions: sessions},
		SlotIntervalMin: 60,
		Now:             func() time.Time { return testNow },
	}
	reminders := &stubReminders{}
	notifier := &stubNotifier{}
	proof := &stubProof{}
	svc := &DefaultBookingService{
		Sessions: sessions,
		SessionTypes: &memTypes{types: map[string]*models.SessionType{
			"st-1": {ID: "st-1", CoachID: "coach-1", Name: "Deep Dive", Duration: 60, Price: 7500, Active: true},
		}},
		Clients: &memClients{clients: map[string]*models.Client{
			"client-1": {ID: "client-1", CoachID: "coach-1", Name: "Alex", Email: "alex@example.com"},
		}},
		Scheduler: scheduler,
		Reminders: reminders,
		Notify:    notifier,
		Proof:     proof,
	}
	return &fixture{svc: svc, sessions: sessions, reminders: reminders, notifier: notifier, proof: proof}
}

func bookingReq(start string) models.BookingRequest {
	return models.BookingRequest{
		CoachID:       "coach-1",
		ClientID:      "client-1",
		SessionTypeID: "st-1",
		Start:         start,
	}
}

func TestBook(t *testing.T) {
	t.Run("books an offered slot and runs side effects", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		require.NoError(t, err)
		assert.Equal(t, models.SessionScheduled, resp.Session.Status)
		assert.Equal(t, 60, resp.Session.Duration)
		assert.Equal(t, 7500, resp.Session.Price)
		assert.Equal(t, resp.Session.ScheduledDate.Add(time.Hour), resp.Session.EndDate)

		assert.Equal(t, []string{resp.Session.ID}, f.reminders.scheduled)
		assert.Equal(t, []string{resp.Session.ID}, f.notifier.confirmations)
		assert.Equal(t, []string{"Alex/Deep Dive"}, f.proof.entries)
	})

	t.Run("rejects a start the resolver would not offer", func(t *testing.T) {
		f := newFixture()

		// 13:00 is outside the 09:00-12:00 rule.
		_, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T13:00:00Z"))
		var unavailable *utils.SlotUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("second booking of the same slot loses", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		require.NoError(t, err)

		_, err = f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		var unavailable *utils.SlotUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("commit-time race surfaces as slot unavailable", func(t *testing.T) {
		f := newFixture()
		// The resolver still sees the slot as free, but the guarded insert
		// reports a conflict, as it would when a concurrent booking landed
		// between read and commit.
		f.sessions.forceTaken = true

		_, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		var unavailable *utils.SlotUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Empty(t, f.reminders.scheduled)
		assert.Empty(t, f.notifier.confirmations)
	})

	t.Run("books an evening slot for a coach west of UTC", func(t *testing.T) {
		// Monday 21:00 in New York is already Tuesday in UTC; the slot
		// check must derive the day from the coach's timezone, not UTC.
		f := newFixtureFor(&models.Coach{
			ID:       "coach-1",
			Name:     "Jordan",
			Timezone: "America/New_York",
			Active:   true,
			WeeklyRules: []models.WeeklyRule{
				{ID: "r1", DayOfWeek: 1, StartTime: "18:00", EndTime: "22:00", Active: true},
			},
		})

		// 2025-06-02 21:00 EDT == 2025-06-03T01:00:00Z.
		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-03T01:00:00Z"))
		require.NoError(t, err)
		assert.Equal(t, models.SessionScheduled, resp.Session.Status)

		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 2, 21, 0, 0, 0, loc).UTC(), resp.Session.ScheduledDate)
	})

	t.Run("unparseable start is invalid input", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Book(context.Background(), bookingReq("next monday"))
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown session type is not found", func(t *testing.T) {
		f := newFixture()
		req := bookingReq("2025-06-02T10:00:00Z")
		req.SessionTypeID = "st-missing"

		_, err := f.svc.Book(context.Background(), req)
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancelling frees the slot for rebooking", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		require.NoError(t, err)

		require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID, "client request"))
		assert.Equal(t, []string{resp.Session.ID}, f.reminders.dropped)
		assert.Equal(t, []string{resp.Session.ID}, f.notifier.cancellations)

		// The same slot books again now that the first session is cancelled.
		again, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		require.NoError(t, err)
		assert.NotEqual(t, resp.Session.ID, again.Session.ID)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)

		require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID, "first"))
		require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID, "second"))
		assert.Len(t, f.notifier.cancellations, 1)
	})

	t.Run("cancelling an unknown session is not found", func(t *testing.T) {
		f := newFixture()

		err := f.svc.Cancel(context.Background(), "missing", "")
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestReschedule(t *testing.T) {
	t.Run("moves to an offered slot and re-arms side effects", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)

		moved, err := f.svc.Reschedule(context.Background(), resp.Session.ID, "2025-06-02T11:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), moved.ScheduledDate)
		assert.Equal(t, moved.ScheduledDate.Add(time.Hour), moved.EndDate)

		assert.Equal(t, []string{resp.Session.ID}, f.reminders.dropped)
		assert.Equal(t, []string{resp.Session.ID, resp.Session.ID}, f.reminders.scheduled)
		assert.Equal(t, []string{resp.Session.ID}, f.notifier.reschedules)

		// The vacated slot is bookable again.
		_, err = f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)
	})

	t.Run("cannot move onto another booking", func(t *testing.T) {
		f := newFixture()

		first, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)
		_, err = f.svc.Book(context.Background(), bookingReq("2025-06-02T10:00:00Z"))
		require.NoError(t, err)

		_, err = f.svc.Reschedule(context.Background(), first.Session.ID, "2025-06-02T10:00:00Z")
		var unavailable *utils.SlotUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("moving to an unoffered start is rejected", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)

		_, err = f.svc.Reschedule(context.Background(), resp.Session.ID, "2025-06-02T13:00:00Z")
		var unavailable *utils.SlotUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("cancelled sessions cannot move", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)
		require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID, ""))

		_, err = f.svc.Reschedule(context.Background(), resp.Session.ID, "2025-06-02T11:00:00Z")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Reschedule(context.Background(), "missing", "2025-06-02T11:00:00Z")
		var notFound *utils.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("unparseable start is invalid input", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Reschedule(context.Background(), "sess-x", "tomorrow")
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestOutcomes(t *testing.T) {
	t.Run("scheduled sessions can complete", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)
		require.NoError(t, f.svc.Complete(context.Background(), resp.Session.ID))

		stored, err := f.sessions.GetByID(context.Background(), resp.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, stored.Status)
	})

	t.Run("cancelled sessions cannot complete", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Book(context.Background(), bookingReq("2025-06-02T09:00:00Z"))
		require.NoError(t, err)
		require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID, ""))

		err = f.svc.Complete(context.Background(), resp.Session.ID)
		var invalid *utils.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}
