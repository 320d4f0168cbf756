package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"purposeful/models"
)

const TypeSendReminder = "reminder:send"

// ReminderTaskID returns the deterministic task ID for a session reminder,
// so a cancellation can delete pending reminders by ID.
func ReminderTaskID(sessionID, reminderType string) string {
	return fmt.Sprintf("reminder:%s:%s", sessionID, reminderType)
}

// NewReminderTask builds a scheduled reminder task for the given payload.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.SessionID, payload.ReminderType)),
	}
	return task, opts, nil
}
