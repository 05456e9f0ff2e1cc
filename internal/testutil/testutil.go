package testutil

import (
	"fmt"
	"time"

	"oghmai/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWordResult creates an unsaved word result
func NewTestWordResult(word, translation string) domain.WordResult {
	return domain.WordResult{
		Word:        word,
		Translation: translation,
		Definition:  "definition of " + word,
		Examples:    []string{word + " in a sentence"},
		Status:      domain.StatusUnsaved,
	}
}

// NewSavedWordResult creates a saved word result with the given status
func NewSavedWordResult(word string, status domain.WordStatus) domain.WordResult {
	created := time.Now().Add(-24 * time.Hour)
	w := NewTestWordResult(word, "translation of "+word)
	w.Status = status
	w.CreatedAt = &created
	return w
}

// NewTestItems builds a word list from plain words, all with status NEW
func NewTestItems(words ...string) []domain.WordItem {
	items := make([]domain.WordItem, 0, len(words))
	for _, w := range words {
		items = append(items, domain.WordItem{Word: w, Status: domain.StatusNew})
	}
	return items
}

// NewTestPairs builds n word-translation pairs named w1/t1, w2/t2, ...
func NewTestPairs(n int) []domain.WordTranslationPair {
	pairs := make([]domain.WordTranslationPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, domain.WordTranslationPair{
			Word:        fmt.Sprintf("w%d", i+1),
			Translation: fmt.Sprintf("t%d", i+1),
		})
	}
	return pairs
}
