package domain

// ResultEnum is the outcome of a challenge guess.
type ResultEnum string

const (
	ResultCorrect   ResultEnum = "CORRECT"
	ResultIncorrect ResultEnum = "INCORRECT"
	// ResultPartial means "close but not the word": the challenge stays
	// open, the suggestion is appended to its description and the same
	// challenge id is resubmitted with new input.
	ResultPartial ResultEnum = "PARTIAL"
)

// TestChallenge is a server-issued prompt, consumed once. A nil challenge
// from the backend means nothing left to test in the current period.
type TestChallenge struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// TestResult is the backend's verdict on a submitted guess.
type TestResult struct {
	Result     ResultEnum  `json:"result"`
	Word       string      `json:"word"`
	Suggestion string      `json:"suggestion,omitempty"`
	OldStatus  *WordStatus `json:"oldStatus,omitempty"`
	NewStatus  WordStatus  `json:"newStatus"`
}

// Improved reports whether the result moved the word forward in the
// progression, used to decide whether to celebrate.
func (r TestResult) Improved() bool {
	return IsImprovement(r.OldStatus, r.NewStatus)
}

// TestStatistics describes how much testing is available right now.
type TestStatistics struct {
	RemainingTests int `json:"remainingTests"`
	TotalWords     int `json:"totalWords"`
}
