package notification

import (
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	clientRepo "purposeful/database/repository/client"
	sessionTypeRepo "purposeful/database/repository/sessiontype"
	"purposeful/models"
	"purposeful/utils"
)

// EmailNotifier renders and sends the session and subscription lifecycle
// emails. It satisfies the booking notifier and the payment mailer.
type EmailNotifier struct {
	Clients      clientRepo.ClientRepository
	SessionTypes sessionTypeRepo.SessionTypeRepository
	Mailer       Mailer
	Logger       *zap.Logger
}

func NewEmailNotifier(clients clientRepo.ClientRepository, sessionTypes sessionTypeRepo.SessionTypeRepository, mailer Mailer) *EmailNotifier {
	return &EmailNotifier{
		Clients:      clients,
		SessionTypes: sessionTypes,
		Mailer:       mailer,
		Logger:       utils.GetLogger(),
	}
}

func (n *EmailNotifier) logger() *zap.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return zap.NewNop()
}

// sessionData resolves the recipient and template fields for a session.
// Sessions whose client has no email address produce an empty recipient.
func (n *EmailNotifier) sessionData(ctx context.Context, session *models.Session) (string, sessionEmailData, error) {
	client, err := n.Clients.GetByID(ctx, session.ClientID)
	if err != nil {
		return "", sessionEmailData{}, err
	}
	if client == nil || client.Email == "" {
		return "", sessionEmailData{}, nil
	}

	data := sessionEmailData{
		ClientName: client.Name,
		Duration:   session.Duration,
		ZoomLink:   defaultZoomLink,
	}
	data.Date, data.Time = formatDateTime(session.ScheduledDate)

	if session.SessionTypeID != "" {
		if st, err := n.SessionTypes.GetByID(ctx, session.SessionTypeID); err == nil && st != nil {
			data.SessionType = st.Name
		}
	}
	return client.Email, data, nil
}

func (n *EmailNotifier) sendSessionEmail(ctx context.Context, session *models.Session, subject string, shell shellData, tmpl *template.Template, mutate func(*sessionEmailData)) error {
	to, data, err := n.sessionData(ctx, session)
	if err != nil {
		return err
	}
	if to == "" {
		n.logger().Debug("skipping email for session without client address", zap.String("sessionId", session.ID))
		return nil
	}
	if mutate != nil {
		mutate(&data)
	}

	body, err := renderBody(tmpl, data)
	if err != nil {
		return err
	}
	shell.Body = body

	html, err := renderShell(shell)
	if err != nil {
		return err
	}
	if err := n.Mailer.SendHTML(to, subject, html); err != nil {
		return err
	}

	n.logger().Info("sent session email",
		zap.String("sessionId", session.ID),
		zap.String("subject", subject),
	)
	return nil
}

func (n *EmailNotifier) SendBookingConfirmation(ctx context.Context, session *models.Session) error {
	return n.sendSessionEmail(ctx, session,
		"Session Confirmed - Purposeful Live Coaching",
		shellData{
			Title:            "Session Confirmed",
			Heading:          "Session Confirmed!",
			HeaderBackground: "linear-gradient(135deg, #f43f5e 0%, #a855f7 100%)",
		},
		bookingBodyTmpl, nil)
}

func (n *EmailNotifier) SendCancellation(ctx context.Context, session *models.Session, reason string) error {
	return n.sendSessionEmail(ctx, session,
		"Session Cancelled - Purposeful Live Coaching",
		shellData{
			Title:            "Session Cancelled",
			Heading:          "Session Cancelled",
			HeaderBackground: "#6b7280",
		},
		cancellationBodyTmpl,
		func(d *sessionEmailData) { d.Reason = reason })
}

func (n *EmailNotifier) SendReschedule(ctx context.Context, session *models.Session) error {
	return n.sendSessionEmail(ctx, session,
		"Session Rescheduled - Purposeful Live Coaching",
		shellData{
			Title:            "Session Rescheduled",
			Heading:          "Session Rescheduled",
			HeaderBackground: "linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%)",
		},
		rescheduleBodyTmpl, nil)
}

// SendReminder sends the 24-hour or 1-hour reminder for a session.
func (n *EmailNotifier) SendReminder(ctx context.Context, session *models.Session, reminderType string) error {
	switch reminderType {
	case models.Reminder24Hour:
		return n.sendSessionEmail(ctx, session,
			"Reminder: Your Session Tomorrow",
			shellData{
				Title:            "Session Reminder - Tomorrow",
				Heading:          "Your Session is Tomorrow!",
				HeaderBackground: "#10b981",
			},
			reminder24BodyTmpl, nil)
	case models.Reminder1Hour:
		return n.sendSessionEmail(ctx, session,
			"Reminder: Your Session Starts in 1 Hour",
			shellData{
				Title:            "Session Starting Soon!",
				Heading:          "Your Session Starts in 1 Hour!",
				HeaderBackground: "#f59e0b",
			},
			reminder1BodyTmpl, nil)
	default:
		return fmt.Errorf("unknown reminder type %q", reminderType)
	}
}

// SendSubscriptionNotice sends subscription lifecycle emails for the Stripe
// webhook flow.
func (n *EmailNotifier) SendSubscriptionNotice(ctx context.Context, kind, to, customerName, productName string, amountCents int) error {
	var subject, heading, message string
	switch kind {
	case "new_subscription":
		subject = "Welcome to Purposeful Live Coaching!"
		heading = "Welcome Aboard!"
		message = "Your subscription is active. We're excited to start this journey with you."
	case "payment_confirmed":
		subject = "Payment Received - Purposeful Live Coaching"
		heading = "Payment Received"
		message = "We've received your payment. Thank you for staying with us."
	case "payment_failed":
		subject = "Payment Failed - Purposeful Live Coaching"
		heading = "Payment Failed"
		message = "We couldn't process your latest payment. Please update your payment method to keep your subscription active."
	case "subscription_cancelled":
		subject = "Subscription Cancelled - Purposeful Live Coaching"
		heading = "Subscription Cancelled"
		message = "Your subscription has been cancelled. You're welcome back any time."
	default:
		return fmt.Errorf("unknown subscription notice kind %q", kind)
	}

	amount := ""
	if amountCents > 0 {
		amount = formatCents(amountCents)
	}
	body, err := renderBody(subscriptionBodyTmpl, struct {
		CustomerName string
		ProductName  string
		Amount       string
		Message      string
	}{customerName, productName, amount, message})
	if err != nil {
		return err
	}

	html, err := renderShell(shellData{
		Title:            subject,
		Heading:          heading,
		HeaderBackground: "linear-gradient(135deg, #f43f5e 0%, #a855f7 100%)",
		Body:             body,
	})
	if err != nil {
		return err
	}
	if err := n.Mailer.SendHTML(to, subject, html); err != nil {
		return err
	}

	n.logger().Info("sent subscription email", zap.String("kind", kind))
	return nil
}
