package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"purposeful/config"
	sessionRepo "purposeful/database/repository/session"
	"purposeful/models"
	"purposeful/services/tasks"
	"purposeful/utils"
)

// ReminderSender delivers a reminder email for a session.
type ReminderSender interface {
	SendReminder(ctx context.Context, session *models.Session, reminderType string) error
}

func reminderRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(sessions sessionRepo.SessionRepository, sender ReminderSender) {
	srv := asynq.NewServer(
		reminderRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(sessions, sender))

	go monitorRedisConnection()

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("reminder worker exhausted retries")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask sends the reminder unless the session was cancelled
// after the reminder was scheduled.
func handleReminderTask(sessions sessionRepo.SessionRepository, sender ReminderSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		session, err := sessions.GetByID(ctx, p.SessionID)
		if err != nil {
			return err
		}
		if session == nil || session.Status != models.SessionScheduled {
			logger.Info("skipping reminder for inactive session",
				zap.String("sessionId", p.SessionID),
				zap.String("reminderType", p.ReminderType))
			return nil
		}

		if err := sender.SendReminder(ctx, session, p.ReminderType); err != nil {
			logger.Error("failed to send reminder",
				zap.String("sessionId", p.SessionID), zap.Error(err))
			return err
		}

		logger.Info("sent session reminder",
			zap.String("sessionId", p.SessionID),
			zap.String("reminderType", p.ReminderType))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("reminder queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
