package domain

import "time"

// WordResult is the backend's full view of a word: the guess itself plus
// everything needed to render its detail card.
type WordResult struct {
	Word        string     `json:"word"`
	Translation string     `json:"translation"`
	Definition  string     `json:"definition"`
	Examples    []string   `json:"examples"`
	Status      WordStatus `json:"status"`
	TestResults []bool     `json:"testResults,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastTest    *time.Time `json:"lastTest,omitempty"`
}

// Saved reports whether the word has been persisted remotely.
func (w WordResult) Saved() bool {
	return w.Status != StatusUnsaved
}

// WordItem is the listing entry for a saved word.
type WordItem struct {
	Word   string     `json:"word"`
	Status WordStatus `json:"status"`
}

// WordList is the response of the filtered listing endpoint.
type WordList struct {
	Words []WordItem `json:"words"`
}

// DescriptionRequest asks the backend to guess a word from free text.
// Exclusions carries the words already guessed in this session so the
// backend proposes something new.
type DescriptionRequest struct {
	Description string   `json:"description"`
	Exclusions  []string `json:"exclusions,omitempty"`
}

// ExplanationResponse is the pass-through payload of the word-tenses endpoint.
type ExplanationResponse struct {
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
}

// ApplyTestResult returns the word updated with a terminal test outcome:
// the backend-assigned status, the test timestamp, and the appended
// correct/incorrect flag. PARTIAL results never reach this function.
func ApplyTestResult(w WordResult, r TestResult, now time.Time) WordResult {
	w.Status = r.NewStatus
	w.LastTest = &now
	results := make([]bool, 0, len(w.TestResults)+1)
	results = append(results, w.TestResults...)
	results = append(results, r.Result == ResultCorrect)
	w.TestResults = results
	return w
}

// ApplyReset returns the word with its status provisionally back at NEW.
// Test history and timestamps stay untouched; the backend is the source
// of truth and a refetch confirms the reset.
func ApplyReset(w WordResult) WordResult {
	w.Status = StatusNew
	return w
}
