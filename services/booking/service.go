package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	clientRepo "purposeful/database/repository/client"
	sessionRepo "purposeful/database/repository/session"
	sessionTypeRepo "purposeful/database/repository/sessiontype"
	"purposeful/models"
	"purposeful/services/scheduling"
	"purposeful/utils"
)

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Sessions     sessionRepo.SessionRepository
	SessionTypes sessionTypeRepo.SessionTypeRepository
	Clients      clientRepo.ClientRepository
	Scheduler    scheduling.SchedulingService
	Reminders    ReminderScheduler
	Notify       Notifier
	Proof        ProofFeed
	Logger       *zap.Logger
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// Book commits a session booking.
func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("unparseable start %q", req.Start)}
	}

	st, err := s.SessionTypes.GetByID(ctx, req.SessionTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session type: %w", err)
	}
	if st == nil || !st.Active {
		return nil, &utils.NotFoundError{Resource: "session type"}
	}
	if st.CoachID != req.CoachID {
		return nil, &utils.InvalidInputError{Reason: "session type does not belong to this coach"}
	}

	client, err := s.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return nil, &utils.NotFoundError{Resource: "client"}
	}

	// Confirm the requested instant is one the resolver would offer right
	// now. This catches stale slot lists before we touch the database.
	if err := s.verifySlotOffered(ctx, req.CoachID, start, st.Duration); err != nil {
		return nil, err
	}

	session := &models.Session{
		CoachID:       req.CoachID,
		ClientID:      req.ClientID,
		SessionTypeID: st.ID,
		ScheduledDate: start.UTC(),
		Duration:      st.Duration,
		Price:         st.Price,
		Notes:         req.Notes,
	}

	// Commit. The repository re-checks for overlap inside a transaction, so
	// the loser of a concurrent race fails here rather than double-booking.
	if err := s.Sessions.CreateScheduled(ctx, session); err != nil {
		if errors.Is(err, sessionRepo.ErrSlotTaken) {
			return nil, &utils.SlotUnavailableError{CoachID: req.CoachID}
		}
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	s.afterBooking(ctx, session, client, st)

	return &models.BookingResponse{Session: *session, BookedAt: time.Now().UTC()}, nil
}

// verifySlotOffered requires the requested instant to be on the resolver's
// current slot list.
func (s *DefaultBookingService) verifySlotOffered(ctx context.Context, coachID string, start time.Time, durationMinutes int) error {
	offered, err := s.Scheduler.IsSlotOffered(ctx, coachID, start, durationMinutes)
	if err != nil {
		return err
	}
	if !offered {
		return &utils.SlotUnavailableError{CoachID: coachID}
	}
	return nil
}

// afterBooking runs the side effects of a committed booking. None of them
// may fail the booking itself.
func (s *DefaultBookingService) afterBooking(ctx context.Context, session *models.Session, client *models.Client, st *models.SessionType) {
	log := s.logger()

	if s.Notify != nil {
		if err := s.Notify.SendBookingConfirmation(ctx, session); err != nil {
			log.Error("booking confirmation email failed", zap.String("sessionId", session.ID), zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleSessionReminders(ctx, session); err != nil {
			log.Error("failed to schedule session reminders", zap.String("sessionId", session.ID), zap.Error(err))
		}
	}
	if s.Proof != nil {
		s.Proof.AddRecentBooking(client.Name, st.Name)
	}

	log.Info("session booked",
		zap.String("sessionId", session.ID),
		zap.String("coachId", session.CoachID),
		zap.Time("scheduledDate", session.ScheduledDate),
	)
}

// Cancel frees the slot. Cancelling an already-cancelled session is a no-op.
func (s *DefaultBookingService) Cancel(ctx context.Context, sessionID, reason string) error {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return &utils.NotFoundError{Resource: "session"}
	}
	if session.Status == models.SessionCancelled {
		return nil
	}

	if err := s.Sessions.UpdateStatus(ctx, sessionID, models.SessionCancelled); err != nil {
		return fmt.Errorf("failed to cancel session %s: %w", sessionID, err)
	}

	log := s.logger()
	if s.Reminders != nil {
		if err := s.Reminders.DropSessionReminders(ctx, sessionID); err != nil {
			log.Warn("failed to drop reminders for cancelled session", zap.String("sessionId", sessionID), zap.Error(err))
		}
	}
	if s.Notify != nil {
		if err := s.Notify.SendCancellation(ctx, session, reason); err != nil {
			log.Error("cancellation email failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
	}

	log.Info("session cancelled", zap.String("sessionId", sessionID), zap.String("reason", reason))
	return nil
}

// Reschedule moves a scheduled session to a new start, subject to the same
// availability rules as a fresh booking. Reminders are re-armed and the
// client is emailed the new time.
func (s *DefaultBookingService) Reschedule(ctx context.Context, sessionID, newStart string) (*models.Session, error) {
	start, err := time.Parse(time.RFC3339, newStart)
	if err != nil {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("unparseable start %q", newStart)}
	}

	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, &utils.NotFoundError{Resource: "session"}
	}
	if session.Status != models.SessionScheduled {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("cannot reschedule a %s session", session.Status)}
	}
	if start.Equal(session.ScheduledDate) {
		return session, nil
	}

	if err := s.verifySlotOffered(ctx, session.CoachID, start, session.Duration); err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(session.Duration) * time.Minute)
	if err := s.Sessions.Reschedule(ctx, sessionID, start.UTC(), end.UTC()); err != nil {
		if errors.Is(err, sessionRepo.ErrSlotTaken) {
			return nil, &utils.SlotUnavailableError{CoachID: session.CoachID}
		}
		return nil, fmt.Errorf("failed to reschedule session %s: %w", sessionID, err)
	}
	session.ScheduledDate = start.UTC()
	session.EndDate = end.UTC()

	log := s.logger()
	if s.Reminders != nil {
		// Drop first: the task IDs are deterministic per session, so the old
		// entries must go before the new fire times can be enqueued.
		if err := s.Reminders.DropSessionReminders(ctx, sessionID); err != nil {
			log.Warn("failed to drop reminders for rescheduled session", zap.String("sessionId", sessionID), zap.Error(err))
		}
		if err := s.Reminders.ScheduleSessionReminders(ctx, session); err != nil {
			log.Error("failed to re-arm session reminders", zap.String("sessionId", sessionID), zap.Error(err))
		}
	}
	if s.Notify != nil {
		if err := s.Notify.SendReschedule(ctx, session); err != nil {
			log.Error("reschedule email failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
	}

	log.Info("session rescheduled",
		zap.String("sessionId", sessionID),
		zap.Time("scheduledDate", session.ScheduledDate),
	)
	return session, nil
}

func (s *DefaultBookingService) Complete(ctx context.Context, sessionID string) error {
	return s.setOutcome(ctx, sessionID, models.SessionCompleted)
}

func (s *DefaultBookingService) MarkNoShow(ctx context.Context, sessionID string) error {
	return s.setOutcome(ctx, sessionID, models.SessionNoShow)
}

func (s *DefaultBookingService) setOutcome(ctx context.Context, sessionID, status string) error {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return &utils.NotFoundError{Resource: "session"}
	}
	if session.Status != models.SessionScheduled {
		return &utils.InvalidInputError{Reason: fmt.Sprintf("cannot mark a %s session as %s", session.Status, status)}
	}
	return s.Sessions.UpdateStatus(ctx, sessionID, status)
}
