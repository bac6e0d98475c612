package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
)

// ReminderNotifier delivers a reminder message to a chat. Implemented by the
// telegram handler.
type ReminderNotifier interface {
	Notify(chatID int64, text string) error
}

// ProgressReader exposes the daily-target progress the reminder text is
// built from.
type ProgressReader interface {
	TargetProgress() (entities.TargetProgress, error)
}

// Subscribers lists the chats that asked for reminders.
type Subscribers interface {
	All() []int64
}

// ReminderService nudges subscribed chats once a day while their daily
// target still has reviews remaining.
type ReminderService struct {
	progress    ProgressReader
	subscribers Subscribers
	notifier    ReminderNotifier
	cronSpec    string
	location    *time.Location
	logger      *zap.Logger
}

// NewReminderService creates a reminder service with the given cron spec,
// evaluated in loc.
func NewReminderService(
	progress ProgressReader,
	subscribers Subscribers,
	cronSpec string,
	loc *time.Location,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		progress:    progress,
		subscribers: subscribers,
		cronSpec:    cronSpec,
		location:    loc,
		logger:      logger,
	}
}

// SetNotifier sets the notifier (called after the handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start begins the reminder scheduling loop and blocks until ctx is done.
func (s *ReminderService) Start(ctx context.Context) {
	s.logger.Info("reminder service started", zap.String("cron", s.cronSpec))

	c := cron.New(cron.WithLocation(s.location))

	_, err := c.AddFunc(s.cronSpec, func() {
		if err := s.sendReminders(); err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("reminder service stopped")
}

func (s *ReminderService) sendReminders() error {
	if s.notifier == nil {
		return nil
	}

	progress, err := s.progress.TargetProgress()
	if err != nil {
		return fmt.Errorf("target progress: %w", err)
	}
	if progress.Remaining == 0 {
		s.logger.Info("daily target already met, skipping reminders")
		return nil
	}

	text := fmt.Sprintf(
		"📚 %d of today's %d reviews are still waiting. /quiz to catch up!",
		progress.Remaining, progress.Target,
	)

	sent := 0
	for _, chatID := range s.subscribers.All() {
		if err := s.notifier.Notify(chatID, text); err != nil {
			s.logger.Error("failed to notify chat",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("reminders processed", zap.Int("total_sent", sent))
	return nil
}
