package repository

import (
	"oghmai/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
}

// PreferencesRepository defines per-chat preference operations
type PreferencesRepository interface {
	Get(chatID int64) (*domain.Preferences, error)
	Save(prefs domain.Preferences) error
	DueReminders(hour, minute int) ([]domain.Preferences, error)
}
