package session

import (
	"context"
	"errors"
	"testing"

	"oghmai/internal/domain"
	"oghmai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDiscovery_GuessPrependsAndExcludes(t *testing.T) {
	api := new(testutil.MockBackend)
	d := NewDiscovery(api, testutil.NewTestLogger())

	first := testutil.NewTestWordResult("gatto", "cat")
	second := testutil.NewTestWordResult("micio", "kitty")

	api.On("DescribeWord", mock.Anything, "small pet that meows", []string{}).
		Return(&first, nil).Once()
	api.On("DescribeWord", mock.Anything, "small pet that meows", []string{"gatto"}).
		Return(&second, nil).Once()

	result, err := d.Guess(context.Background(), "small pet that meows")
	assert.NoError(t, err)
	assert.Equal(t, "gatto", result.Word)

	result, err = d.NextGuess(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "micio", result.Word)

	results := d.Results()
	assert.Len(t, results, 2)
	assert.Equal(t, "micio", results[0].Word, "newest guess comes first")
	assert.Equal(t, "gatto", results[1].Word)
	assert.Equal(t, "micio", d.Latest().Word)

	api.AssertExpectations(t)
}

func TestDiscovery_GuessNoCandidate(t *testing.T) {
	api := new(testutil.MockBackend)
	d := NewDiscovery(api, testutil.NewTestLogger())

	api.On("DescribeWord", mock.Anything, "nonsense", []string{}).
		Return((*domain.WordResult)(nil), nil).Once()

	result, err := d.Guess(context.Background(), "nonsense")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, d.Results())

	api.AssertExpectations(t)
}

func TestDiscovery_NextGuessWithoutDescription(t *testing.T) {
	d := NewDiscovery(new(testutil.MockBackend), testutil.NewTestLogger())

	_, err := d.NextGuess(context.Background())
	assert.ErrorIs(t, err, ErrNoDescription)
}

func TestDiscovery_Save(t *testing.T) {
	tests := []struct {
		name           string
		word           string
		saveErr        error
		expectedErr    error
		expectedStatus domain.WordStatus
	}{
		{
			name:           "success flips status to NEW",
			word:           "gatto",
			expectedStatus: domain.StatusNew,
		},
		{
			name:           "failure rolls status back",
			word:           "gatto",
			saveErr:        errors.New("boom"),
			expectedErr:    errors.New("boom"),
			expectedStatus: domain.StatusUnsaved,
		},
		{
			name:        "unknown word",
			word:        "cane",
			expectedErr: ErrNoResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockBackend)
			d := NewDiscovery(api, testutil.NewTestLogger())

			guessed := testutil.NewTestWordResult("gatto", "cat")
			api.On("DescribeWord", mock.Anything, mock.Anything, mock.Anything).
				Return(&guessed, nil).Once()
			_, err := d.Guess(context.Background(), "small pet")
			assert.NoError(t, err)

			if tt.word == "gatto" {
				api.On("SaveWord", mock.Anything, mock.MatchedBy(func(w domain.WordResult) bool {
					// The payload carries the pre-save status.
					return w.Word == "gatto" && w.Status == domain.StatusUnsaved
				})).Return(tt.saveErr).Once()
			}

			err = d.Save(context.Background(), tt.word)
			if tt.expectedErr != nil {
				assert.EqualError(t, err, tt.expectedErr.Error())
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedStatus != "" {
				assert.Equal(t, tt.expectedStatus, d.Latest().Status)
			}

			api.AssertExpectations(t)
		})
	}
}

func TestDiscovery_SaveAlreadySaved(t *testing.T) {
	api := new(testutil.MockBackend)
	d := NewDiscovery(api, testutil.NewTestLogger())

	guessed := testutil.NewSavedWordResult("gatto", domain.StatusLearned)
	api.On("DescribeWord", mock.Anything, mock.Anything, mock.Anything).
		Return(&guessed, nil).Once()
	_, err := d.Guess(context.Background(), "small pet")
	assert.NoError(t, err)

	err = d.Save(context.Background(), "gatto")
	assert.ErrorIs(t, err, ErrAlreadySaved)
	api.AssertNotCalled(t, "SaveWord", mock.Anything, mock.Anything)
}

func TestDiscovery_Reset(t *testing.T) {
	api := new(testutil.MockBackend)
	d := NewDiscovery(api, testutil.NewTestLogger())

	guessed := testutil.NewTestWordResult("gatto", "cat")
	api.On("DescribeWord", mock.Anything, "small pet", []string{}).
		Return(&guessed, nil).Once()
	_, err := d.Guess(context.Background(), "small pet")
	assert.NoError(t, err)

	d.Reset()

	assert.Empty(t, d.Results())
	assert.Nil(t, d.Latest())
	_, err = d.NextGuess(context.Background())
	assert.ErrorIs(t, err, ErrNoDescription)
}
