package service

import (
	"fmt"

	"oghmai/internal/domain"
	"oghmai/internal/repository"

	"go.uber.org/zap"
)

// PreferencesService handles per-chat settings
type PreferencesService struct {
	prefsRepo repository.PreferencesRepository
	logger    *zap.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(prefsRepo repository.PreferencesRepository, logger *zap.Logger) *PreferencesService {
	return &PreferencesService{
		prefsRepo: prefsRepo,
		logger:    logger,
	}
}

// Get returns the chat's preferences, defaults included
func (s *PreferencesService) Get(chatID int64) (*domain.Preferences, error) {
	return s.prefsRepo.Get(chatID)
}

// SetLanguage updates the study language
func (s *PreferencesService) SetLanguage(chatID int64, language string) error {
	if language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	return s.update(chatID, func(p *domain.Preferences) {
		p.Language = language
	})
}

// SetVoice updates the pronunciation voice
func (s *PreferencesService) SetVoice(chatID int64, voice string) error {
	return s.update(chatID, func(p *domain.Preferences) {
		p.TTSVoice = voice
	})
}

// SetSpeech updates rate and pitch, both clamped to a sane range
func (s *PreferencesService) SetSpeech(chatID int64, rate, pitch float64) error {
	if rate < 0.25 || rate > 2.0 {
		return fmt.Errorf("rate %.2f out of range [0.25, 2.0]", rate)
	}
	if pitch < 0.25 || pitch > 2.0 {
		return fmt.Errorf("pitch %.2f out of range [0.25, 2.0]", pitch)
	}
	return s.update(chatID, func(p *domain.Preferences) {
		p.TTSRate = rate
		p.TTSPitch = pitch
	})
}

// SetReminder updates the daily reminder schedule
func (s *PreferencesService) SetReminder(chatID int64, enabled bool, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %02d:%02d", hour, minute)
	}
	return s.update(chatID, func(p *domain.Preferences) {
		p.NotificationsEnabled = enabled
		p.NotificationHour = hour
		p.NotificationMinute = minute
	})
}

func (s *PreferencesService) update(chatID int64, apply func(*domain.Preferences)) error {
	prefs, err := s.prefsRepo.Get(chatID)
	if err != nil {
		return err
	}

	apply(prefs)
	if err := s.prefsRepo.Save(*prefs); err != nil {
		return err
	}

	s.logger.Debug("preferences updated", zap.Int64("chat_id", chatID))
	return nil
}
