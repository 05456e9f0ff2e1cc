package service

import (
	"oghmai/internal/repository"
)

// AuthService is the bot's password gate. The whole bot is private:
// every chat starts unauthorized and unlocks once by sending the shared
// password, after which the authorization persists across restarts.
type AuthService struct {
	userRepo    repository.UserRepository
	botPassword string
}

// NewAuthService creates the gate around the given user store.
func NewAuthService(userRepo repository.UserRepository, botPassword string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		botPassword: botPassword,
	}
}

// CheckPassword reports whether a text message matches the shared password.
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.botPassword
}

// IsAuthorized reports whether the user has already passed the gate.
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// AuthorizeUser records a successful password entry.
func (s *AuthService) AuthorizeUser(userID int64) error {
	return s.userRepo.AuthorizeUser(userID)
}

// EnsureUserExists records the user on first contact, unauthorized.
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID)
}
