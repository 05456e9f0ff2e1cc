package domain

// WordTranslationPair is the unit of correctness in the match game.
type WordTranslationPair struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// MatchChallenge is a server-issued batch of pairs for one match game.
// The game reveals them progressively, never more than its visible budget
// at once.
type MatchChallenge struct {
	Pairs []WordTranslationPair `json:"pairs"`
}
