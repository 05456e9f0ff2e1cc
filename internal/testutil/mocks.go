package testutil

import (
	"context"

	"oghmai/internal/client"
	"oghmai/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock for the backend API
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) DescribeWord(ctx context.Context, description string, exclusions []string) (*domain.WordResult, error) {
	args := m.Called(ctx, description, exclusions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WordResult), args.Error(1)
}

func (m *MockBackend) SaveWord(ctx context.Context, word domain.WordResult) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockBackend) GetWord(ctx context.Context, word string) (*domain.WordResult, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WordResult), args.Error(1)
}

func (m *MockBackend) GetWords(ctx context.Context, filter client.WordFilter) (*domain.WordList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WordList), args.Error(1)
}

func (m *MockBackend) DeleteWord(ctx context.Context, word string) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockBackend) UndeleteWord(ctx context.Context, word string) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockBackend) ResetWord(ctx context.Context, word string) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockBackend) GetAvailableTests(ctx context.Context) (*domain.TestStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestStatistics), args.Error(1)
}

func (m *MockBackend) GetNextTest(ctx context.Context) (*domain.TestChallenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestChallenge), args.Error(1)
}

func (m *MockBackend) SubmitChallengeGuess(ctx context.Context, id, guess string) (*domain.TestResult, error) {
	args := m.Called(ctx, id, guess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestResult), args.Error(1)
}

func (m *MockBackend) GetNextMatchTest(ctx context.Context) (*domain.MatchChallenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchChallenge), args.Error(1)
}

func (m *MockBackend) GetWordTenses(ctx context.Context, word string) (*domain.ExplanationResponse, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExplanationResponse), args.Error(1)
}

// MockSpeaker is a mock for audio.Speaker
type MockSpeaker struct {
	mock.Mock
}

func (m *MockSpeaker) Speak(text, utteranceID string) {
	m.Called(text, utteranceID)
}

func (m *MockSpeaker) Stop() {
	m.Called()
}

func (m *MockSpeaker) Current() string {
	args := m.Called()
	return args.String(0)
}

// MockSoundEffects is a mock for audio.SoundEffects
type MockSoundEffects struct {
	mock.Mock
}

func (m *MockSoundEffects) PlayCorrect() {
	m.Called()
}

func (m *MockSoundEffects) PlayIncorrect() {
	m.Called()
}

// MockPreferencesRepository is a mock for repository.PreferencesRepository
type MockPreferencesRepository struct {
	mock.Mock
}

func (m *MockPreferencesRepository) Get(chatID int64) (*domain.Preferences, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preferences), args.Error(1)
}

func (m *MockPreferencesRepository) Save(prefs domain.Preferences) error {
	args := m.Called(prefs)
	return args.Error(0)
}

func (m *MockPreferencesRepository) DueReminders(hour, minute int) ([]domain.Preferences, error) {
	args := m.Called(hour, minute)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Preferences), args.Error(1)
}

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}
