package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyTestResult(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	old := StatusNew

	tests := []struct {
		name            string
		word            WordResult
		result          TestResult
		expectedStatus  WordStatus
		expectedHistory []bool
	}{
		{
			name: "correct answer appends true and takes new status",
			word: WordResult{Word: "gatto", Status: StatusNew, TestResults: []bool{false}},
			result: TestResult{
				Result:    ResultCorrect,
				Word:      "gatto",
				OldStatus: &old,
				NewStatus: StatusLearned,
			},
			expectedStatus:  StatusLearned,
			expectedHistory: []bool{false, true},
		},
		{
			name: "incorrect answer appends false",
			word: WordResult{Word: "cane", Status: StatusKnown, TestResults: []bool{true, true}},
			result: TestResult{
				Result:    ResultIncorrect,
				Word:      "cane",
				NewStatus: StatusLearned,
			},
			expectedStatus:  StatusLearned,
			expectedHistory: []bool{true, true, false},
		},
		{
			name: "first test on empty history",
			word: WordResult{Word: "sole", Status: StatusNew},
			result: TestResult{
				Result:    ResultCorrect,
				NewStatus: StatusLearned,
			},
			expectedStatus:  StatusLearned,
			expectedHistory: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyTestResult(tt.word, tt.result, now)

			assert.Equal(t, tt.expectedStatus, got.Status)
			assert.Equal(t, tt.expectedHistory, got.TestResults)
			if assert.NotNil(t, got.LastTest) {
				assert.Equal(t, now, *got.LastTest)
			}

			// Input value is untouched.
			assert.Equal(t, tt.word.Status, tt.word.Status)
		})
	}
}

func TestApplyTestResult_DoesNotShareHistory(t *testing.T) {
	original := WordResult{Word: "gatto", Status: StatusNew, TestResults: []bool{true}}

	updated := ApplyTestResult(original, TestResult{Result: ResultCorrect, NewStatus: StatusLearned}, time.Now())
	updated.TestResults[0] = false

	assert.Equal(t, []bool{true}, original.TestResults)
}

func TestApplyReset(t *testing.T) {
	lastTest := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	word := WordResult{
		Word:        "gatto",
		Status:      StatusMastered,
		TestResults: []bool{true, true, true},
		LastTest:    &lastTest,
	}

	got := ApplyReset(word)

	assert.Equal(t, StatusNew, got.Status)
	assert.Equal(t, word.TestResults, got.TestResults)
	assert.Equal(t, word.LastTest, got.LastTest)
}

func TestWordResult_Saved(t *testing.T) {
	assert.False(t, WordResult{Status: StatusUnsaved}.Saved())
	assert.True(t, WordResult{Status: StatusNew}.Saved())
	assert.True(t, WordResult{Status: StatusMastered}.Saved())
}

func TestTestResult_Improved(t *testing.T) {
	learned := StatusLearned

	assert.True(t, TestResult{OldStatus: &learned, NewStatus: StatusKnown}.Improved())
	assert.False(t, TestResult{OldStatus: &learned, NewStatus: StatusNew}.Improved())
	assert.False(t, TestResult{NewStatus: StatusKnown}.Improved())
}
