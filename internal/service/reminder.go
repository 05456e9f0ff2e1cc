package service

import (
	"context"
	"fmt"
	"time"

	"oghmai/internal/client"
	"oghmai/internal/repository"

	"go.uber.org/zap"
)

// Notifier delivers a reminder message to a chat
type Notifier interface {
	Notify(chatID int64, message string) error
}

// ReminderService sends the daily study reminder to every chat whose
// scheduled time has come around
type ReminderService struct {
	prefsRepo repository.PreferencesRepository
	api       client.API
	notifier  Notifier
	logger    *zap.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(prefsRepo repository.PreferencesRepository, api client.API, notifier Notifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		prefsRepo: prefsRepo,
		api:       api,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run checks the schedule once a minute until the context is cancelled
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Dispatch(ctx, now)
		}
	}
}

// Dispatch sends reminders due at the given time
func (s *ReminderService) Dispatch(ctx context.Context, now time.Time) {
	due, err := s.prefsRepo.DueReminders(now.Hour(), now.Minute())
	if err != nil {
		s.logger.Error("Failed to load due reminders", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	message := s.reminderMessage(ctx)
	for _, prefs := range due {
		if err := s.notifier.Notify(prefs.ChatID, message); err != nil {
			s.logger.Warn("Failed to deliver reminder",
				zap.Int64("chat_id", prefs.ChatID),
				zap.Error(err))
		}
	}

	s.logger.Info("Reminders dispatched", zap.Int("count", len(due)))
}

// reminderMessage includes the day's remaining test count when the
// backend is reachable
func (s *ReminderService) reminderMessage(ctx context.Context) string {
	stats, err := s.api.GetAvailableTests(ctx)
	if err != nil || stats == nil || stats.RemainingTests == 0 {
		return "Time to practice your vocabulary!"
	}
	return fmt.Sprintf("Time to practice! You have %d tests waiting.", stats.RemainingTests)
}
