package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oghmai/internal/domain"
	"oghmai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeNotifier struct {
	sent map[int64]string
	err  error
}

func (f *fakeNotifier) Notify(chatID int64, message string) error {
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = make(map[int64]string)
	}
	f.sent[chatID] = message
	return nil
}

func TestReminderService_Dispatch(t *testing.T) {
	mockRepo := new(testutil.MockPreferencesRepository)
	api := new(testutil.MockBackend)
	notifier := &fakeNotifier{}
	service := NewReminderService(mockRepo, api, notifier, testutil.NewTestLogger())

	due := []domain.Preferences{
		domain.DefaultPreferences(1),
		domain.DefaultPreferences(2),
	}
	mockRepo.On("DueReminders", 9, 0).Return(due, nil)
	api.On("GetAvailableTests", mock.Anything).
		Return(&domain.TestStatistics{RemainingTests: 4, TotalWords: 20}, nil)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	service.Dispatch(context.Background(), now)

	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, "Time to practice! You have 4 tests waiting.", notifier.sent[1])
	mockRepo.AssertExpectations(t)
}

func TestReminderService_DispatchNobodyDue(t *testing.T) {
	mockRepo := new(testutil.MockPreferencesRepository)
	api := new(testutil.MockBackend)
	notifier := &fakeNotifier{}
	service := NewReminderService(mockRepo, api, notifier, testutil.NewTestLogger())

	mockRepo.On("DueReminders", 14, 30).Return([]domain.Preferences{}, nil)

	now := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	service.Dispatch(context.Background(), now)

	assert.Empty(t, notifier.sent)
	api.AssertNotCalled(t, "GetAvailableTests", mock.Anything)
}

func TestReminderService_DispatchBackendDown(t *testing.T) {
	mockRepo := new(testutil.MockPreferencesRepository)
	api := new(testutil.MockBackend)
	notifier := &fakeNotifier{}
	service := NewReminderService(mockRepo, api, notifier, testutil.NewTestLogger())

	due := []domain.Preferences{domain.DefaultPreferences(1)}
	mockRepo.On("DueReminders", 9, 0).Return(due, nil)
	api.On("GetAvailableTests", mock.Anything).
		Return((*domain.TestStatistics)(nil), errors.New("unreachable"))

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	service.Dispatch(context.Background(), now)

	// The reminder still goes out, just without the count.
	assert.Equal(t, "Time to practice your vocabulary!", notifier.sent[1])
}

func TestReminderService_DeliveryFailureKeepsGoing(t *testing.T) {
	mockRepo := new(testutil.MockPreferencesRepository)
	api := new(testutil.MockBackend)
	notifier := &fakeNotifier{err: errors.New("blocked by user")}
	service := NewReminderService(mockRepo, api, notifier, testutil.NewTestLogger())

	due := []domain.Preferences{domain.DefaultPreferences(1)}
	mockRepo.On("DueReminders", 9, 0).Return(due, nil)
	api.On("GetAvailableTests", mock.Anything).
		Return(&domain.TestStatistics{RemainingTests: 1}, nil)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	assert.NotPanics(t, func() {
		service.Dispatch(context.Background(), now)
	})
}
