package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"purposeful/models"
	"purposeful/services/tasks"
	"purposeful/utils"
)

// reminderOffsets maps reminder type to how long before the session the
// reminder fires.
var reminderOffsets = map[string]time.Duration{
	models.Reminder24Hour: 24 * time.Hour,
	models.Reminder1Hour:  time.Hour,
}

// ReminderQueue schedules and cancels session reminders on the asynq queue.
type ReminderQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	now       func() time.Time
}

func NewReminderQueue() *ReminderQueue {
	opts := reminderRedisOpts()
	return &ReminderQueue{
		client:    asynq.NewClient(opts),
		inspector: asynq.NewInspector(opts),
		now:       time.Now,
	}
}

func (q *ReminderQueue) Close() error {
	return q.client.Close()
}

// ScheduleSessionReminders enqueues the 24-hour and 1-hour reminders for a
// freshly booked session. Reminders whose fire time is already past are
// skipped.
func (q *ReminderQueue) ScheduleSessionReminders(ctx context.Context, session *models.Session) error {
	logger := utils.GetLogger()
	now := q.now()

	for reminderType, offset := range reminderOffsets {
		fireAt := session.ScheduledDate.Add(-offset)
		if !fireAt.After(now) {
			continue
		}

		payload := models.ReminderPayload{SessionID: session.ID, ReminderType: reminderType}
		task, opts, err := tasks.NewReminderTask(payload, fireAt)
		if err != nil {
			return fmt.Errorf("failed to build reminder task: %w", err)
		}
		if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
			// Rebooking the same slot reuses the task ID.
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			return fmt.Errorf("failed to enqueue reminder: %w", err)
		}

		logger.Info("scheduled session reminder",
			zap.String("sessionId", session.ID),
			zap.String("reminderType", reminderType),
			zap.Time("fireAt", fireAt))
	}
	return nil
}

// DropSessionReminders deletes any pending reminders for a cancelled
// session. Already-fired or missing tasks are not an error.
func (q *ReminderQueue) DropSessionReminders(ctx context.Context, sessionID string) error {
	for reminderType := range reminderOffsets {
		taskID := tasks.ReminderTaskID(sessionID, reminderType)
		err := q.inspector.DeleteTask("default", taskID)
		if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
			return fmt.Errorf("failed to delete reminder %s: %w", taskID, err)
		}
	}
	return nil
}
