package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purposeful/models"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type captureMailer struct{ sent []capturedMail }

func (m *captureMailer) SendHTML(to, subject, body string) error {
	m.sent = append(m.sent, capturedMail{to, subject, body})
	return nil
}

type stubClients struct{ clients map[string]*models.Client }

func (s *stubClients) Create(context.Context, *models.Client) error { return nil }
func (s *stubClients) GetByID(_ context.Context, id string) (*models.Client, error) {
	return s.clients[id], nil
}
func (s *stubClients) ListByCoach(context.Context, string) ([]models.Client, error) {
	return nil, nil
}
func (s *stubClients) Update(context.Context, *models.Client) error { return nil }
func (s *stubClients) Delete(context.Context, string) error         { return nil }

type stubTypes struct{}

func (stubTypes) Create(context.Context, *models.SessionType) error { return nil }
func (stubTypes) GetByID(context.Context, string) (*models.SessionType, error) {
	return &models.SessionType{ID: "st-1", Name: "Breakthrough Discovery Session", Duration: 60}, nil
}
func (stubTypes) ListActiveByCoach(context.Context, string) ([]models.SessionType, error) {
	return nil, nil
}
func (stubTypes) Update(context.Context, *models.SessionType) error { return nil }
func (stubTypes) Delete(context.Context, string) error              { return nil }

func newNotifier() (*EmailNotifier, *captureMailer) {
	mailer := &captureMailer{}
	notifier := &EmailNotifier{
		Clients: &stubClients{clients: map[string]*models.Client{
			"client-1": {ID: "client-1", Name: "Alex", Email: "alex@example.com"},
			"client-2": {ID: "client-2", Name: "Sam"}, // no email
		}},
		SessionTypes: stubTypes{},
		Mailer:       mailer,
	}
	return notifier, mailer
}

func testSession(clientID string) *models.Session {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return &models.Session{
		ID:            "sess-1",
		CoachID:       "coach-1",
		ClientID:      clientID,
		SessionTypeID: "st-1",
		ScheduledDate: start,
		Duration:      60,
		EndDate:       start.Add(time.Hour),
		Status:        models.SessionScheduled,
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	t.Run("renders the session details", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendBookingConfirmation(context.Background(), testSession("client-1")))
		require.Len(t, mailer.sent, 1)

		mail := mailer.sent[0]
		assert.Equal(t, "alex@example.com", mail.to)
		assert.Equal(t, "Session Confirmed - Purposeful Live Coaching", mail.subject)
		assert.Contains(t, mail.body, "Hi Alex,")
		assert.Contains(t, mail.body, "Monday, June 2, 2025")
		assert.Contains(t, mail.body, "9:00 AM")
		assert.Contains(t, mail.body, "60 minutes")
		assert.Contains(t, mail.body, "Breakthrough Discovery Session")
	})

	t.Run("skips clients without an email address", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendBookingConfirmation(context.Background(), testSession("client-2")))
		assert.Empty(t, mailer.sent)
	})
}

func TestSendCancellation(t *testing.T) {
	t.Run("includes the reason when given", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendCancellation(context.Background(), testSession("client-1"), "coach is unavailable"))
		require.Len(t, mailer.sent, 1)
		assert.Contains(t, mailer.sent[0].body, "coach is unavailable")
	})

	t.Run("omits the reason block when empty", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendCancellation(context.Background(), testSession("client-1"), ""))
		require.Len(t, mailer.sent, 1)
		assert.NotContains(t, mailer.sent[0].body, "Reason:")
	})
}

func TestSendReschedule(t *testing.T) {
	t.Run("announces the new time", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendReschedule(context.Background(), testSession("client-1")))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "Session Rescheduled - Purposeful Live Coaching", mailer.sent[0].subject)
		assert.Contains(t, mailer.sent[0].body, "Monday, June 2, 2025")
		assert.Contains(t, mailer.sent[0].body, "9:00 AM")
	})
}

func TestSendReminder(t *testing.T) {
	t.Run("24 hour reminder", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendReminder(context.Background(), testSession("client-1"), models.Reminder24Hour))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "Reminder: Your Session Tomorrow", mailer.sent[0].subject)
	})

	t.Run("1 hour reminder", func(t *testing.T) {
		notifier, mailer := newNotifier()

		require.NoError(t, notifier.SendReminder(context.Background(), testSession("client-1"), models.Reminder1Hour))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "Reminder: Your Session Starts in 1 Hour", mailer.sent[0].subject)
		assert.Contains(t, mailer.sent[0].body, "Quick Preparation Tips")
	})

	t.Run("unknown type errors", func(t *testing.T) {
		notifier, _ := newNotifier()

		assert.Error(t, notifier.SendReminder(context.Background(), testSession("client-1"), "5_minute"))
	})
}

func TestSendSubscriptionNotice(t *testing.T) {
	notifier, mailer := newNotifier()

	err := notifier.SendSubscriptionNotice(context.Background(), "new_subscription", "ops@example.com", "Jordan", "starter", 250000)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ops@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Hi Jordan,")
	assert.Contains(t, mailer.sent[0].body, "$2500.00")

	err = notifier.SendSubscriptionNotice(context.Background(), "mystery", "ops@example.com", "Jordan", "", 0)
	assert.Error(t, err)
}
