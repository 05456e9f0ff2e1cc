package domain

import (
	"fmt"
	"strings"
)

// WordStatus is the learning status the backend assigns to a word.
// The order below is the progression order; the client never computes
// a status itself, it only displays and transitions what the backend returns.
type WordStatus string

const (
	StatusUnsaved  WordStatus = "UNSAVED"
	StatusNew      WordStatus = "NEW"
	StatusLearned  WordStatus = "LEARNED"
	StatusKnown    WordStatus = "KNOWN"
	StatusMastered WordStatus = "MASTERED"
)

// statusOrder is the canonical progression UNSAVED -> NEW -> LEARNED -> KNOWN -> MASTERED.
var statusOrder = []WordStatus{
	StatusUnsaved,
	StatusNew,
	StatusLearned,
	StatusKnown,
	StatusMastered,
}

// AllStatuses returns the statuses in progression order.
func AllStatuses() []WordStatus {
	out := make([]WordStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// rank returns the position of s in the progression, or -1 for unknown values.
func (s WordStatus) rank() int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known statuses.
func (s WordStatus) Valid() bool {
	return s.rank() >= 0
}

// ParseWordStatus parses a backend status value.
func ParseWordStatus(v string) (WordStatus, error) {
	s := WordStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown word status %q", v)
	}
	return s, nil
}

// IsImprovement reports whether moving from old to new is a strict step
// forward in the progression. A nil old status is never an improvement.
func IsImprovement(old *WordStatus, new WordStatus) bool {
	if old == nil {
		return false
	}
	oldRank := old.rank()
	newRank := new.rank()
	if oldRank < 0 || newRank < 0 {
		return false
	}
	return newRank > oldRank
}

// JoinStatuses renders a status subset as the comma-delimited filter value
// the backend expects, in progression order.
func JoinStatuses(statuses map[WordStatus]bool) string {
	var parts []string
	for _, s := range statusOrder {
		if statuses[s] {
			parts = append(parts, string(s))
		}
	}
	return strings.Join(parts, ",")
}
