// Package matchgame runs the timed memory-match game: word cards paired
// with translation cards, a progressive reveal of a pool larger than the
// visible grid, and a countdown that ends the game.
package matchgame

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"oghmai/internal/audio"
	"oghmai/internal/domain"

	"github.com/google/uuid"
)

const (
	// InitialLivePairs is the number of pairs on the grid at game start.
	InitialLivePairs = 6
	// RefillThreshold is the match count after which the backlog refills the grid.
	RefillThreshold = 3
	// RefillBatch is the maximum number of pairs introduced per refill.
	RefillBatch = 3
	// GameDurationSeconds is the countdown budget.
	GameDurationSeconds = 60

	// MatchFadeDelay is how long matched cards fade before their slots go inert.
	MatchFadeDelay = 500 * time.Millisecond
	// MismatchDelay is the brief flash before a wrong attempt clears. Shorter
	// than the fade so the pace stays snappy.
	MismatchDelay = 300 * time.Millisecond
)

// Card is one face in the grid. Invisible cards keep their slots so the
// layout never shifts.
type Card struct {
	ID        string
	Text      string
	IsWord    bool
	PairID    string
	Matched   bool
	Selected  bool
	Visible   bool
	FadingOut bool
}

// Outcome classifies what a tap did.
type Outcome int

const (
	// OutcomeIgnored: game over, unknown card, or invisible slot.
	OutcomeIgnored Outcome = iota
	// OutcomeSelected: the card became the open selection.
	OutcomeSelected
	// OutcomeDeselected: the tapped card was toggled off.
	OutcomeDeselected
	// OutcomeReplaced: a same-kind card took over the selection.
	OutcomeReplaced
	// OutcomeMatch: a correct pair; caller settles it after MatchFadeDelay.
	OutcomeMatch
	// OutcomeMismatch: a wrong pair; caller clears it after MismatchDelay.
	OutcomeMismatch
)

// Selection reports the result of a tap. FirstID/SecondID are set for
// OutcomeMatch and OutcomeMismatch.
type Selection struct {
	Outcome  Outcome
	FirstID  string
	SecondID string
}

// Engine holds one game's state. Taps arrive on a single logical event
// sequence; the mutex only shields the async settle/tick callbacks.
type Engine struct {
	mu      sync.Mutex
	speaker audio.Speaker
	rng     *rand.Rand

	pairs              []domain.WordTranslationPair
	cards              []Card
	selectedID         string
	backlog            []domain.WordTranslationPair
	matchCount         int
	matchedSinceRefill int
	remainingSeconds   int
	gameOver           bool
	gameWon            bool
}

// New initializes a game from a challenge: the first InitialLivePairs
// pairs become shuffled cards, the rest queue up as backlog.
func New(challenge domain.MatchChallenge, speaker audio.Speaker) *Engine {
	return NewWithRand(challenge, speaker, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand is New with a caller-supplied randomness source, for
// deterministic shuffles in tests.
func NewWithRand(challenge domain.MatchChallenge, speaker audio.Speaker, rng *rand.Rand) *Engine {
	e := &Engine{
		speaker:          speaker,
		rng:              rng,
		pairs:            challenge.Pairs,
		remainingSeconds: GameDurationSeconds,
	}

	live := challenge.Pairs
	if len(live) > InitialLivePairs {
		live = live[:InitialLivePairs]
		e.backlog = append(e.backlog, challenge.Pairs[InitialLivePairs:]...)
	}
	e.cards = e.buildCards(live)
	e.rng.Shuffle(len(e.cards), func(i, j int) {
		e.cards[i], e.cards[j] = e.cards[j], e.cards[i]
	})
	return e
}

// buildCards creates a word card and a translation card per pair. The
// pair id is a locally generated grouping key, not an identity: match
// correctness is decided by pair-list lookup, never by comparing it.
func (e *Engine) buildCards(pairs []domain.WordTranslationPair) []Card {
	cards := make([]Card, 0, len(pairs)*2)
	for i, pair := range pairs {
		pairID := fmt.Sprintf("pair_%d_%s", i, uuid.NewString())
		cards = append(cards,
			Card{
				ID:      "word_" + pairID,
				Text:    pair.Word,
				IsWord:  true,
				PairID:  pairID,
				Visible: true,
			},
			Card{
				ID:      "translation_" + pairID,
				Text:    pair.Translation,
				IsWord:  false,
				PairID:  pairID,
				Visible: true,
			},
		)
	}
	return cards
}

// Cards returns a snapshot of the grid in slot order.
func (e *Engine) Cards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Card, len(e.cards))
	copy(out, e.cards)
	return out
}

// Select processes a tap on the card with the given id.
func (e *Engine) Select(cardID string) Selection {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return Selection{Outcome: OutcomeIgnored}
	}
	tapped := e.cardIndex(cardID)
	if tapped < 0 || !e.cards[tapped].Visible {
		return Selection{Outcome: OutcomeIgnored}
	}

	// Toggle off a card that is already lit.
	if e.cards[tapped].Selected {
		e.cards[tapped].Selected = false
		e.selectedID = ""
		return Selection{Outcome: OutcomeDeselected}
	}

	// Fresh selection.
	if e.selectedID == "" {
		// Clear stray flags left by rapid taps before lighting the new one.
		for i := range e.cards {
			e.cards[i].Selected = false
		}
		e.cards[tapped].Selected = true
		e.selectedID = cardID
		e.speakCard(e.cards[tapped])
		return Selection{Outcome: OutcomeSelected}
	}

	first := e.cardIndex(e.selectedID)
	if first < 0 {
		// Selection points at a card that was spliced away; start over.
		e.cards[tapped].Selected = true
		e.selectedID = cardID
		e.speakCard(e.cards[tapped])
		return Selection{Outcome: OutcomeSelected}
	}

	// Two words or two translations in a row: the user changed their
	// mind, no penalty.
	if e.cards[first].IsWord == e.cards[tapped].IsWord {
		e.cards[first].Selected = false
		e.cards[tapped].Selected = true
		e.selectedID = cardID
		e.speakCard(e.cards[tapped])
		return Selection{Outcome: OutcomeReplaced}
	}

	// Opposite kinds: a match attempt. Correctness comes from the
	// challenge's pair list, order-independent.
	wordText := e.cards[first].Text
	translationText := e.cards[tapped].Text
	if !e.cards[first].IsWord {
		wordText, translationText = translationText, wordText
	}
	isMatch := e.knownPair(wordText, translationText)

	e.cards[tapped].Selected = true
	e.speakCard(e.cards[tapped])

	// A new selection cycle may begin immediately, no waiting for the
	// settle delay.
	e.selectedID = ""

	result := Selection{FirstID: e.cards[first].ID, SecondID: e.cards[tapped].ID}
	if isMatch {
		e.cards[first].Matched = true
		e.cards[first].Selected = false
		e.cards[first].FadingOut = true
		e.cards[tapped].Matched = true
		e.cards[tapped].Selected = false
		e.cards[tapped].FadingOut = true
		e.matchCount++
		e.matchedSinceRefill++
		result.Outcome = OutcomeMatch
	} else {
		result.Outcome = OutcomeMismatch
	}
	return result
}

// SettleMatch finishes a matched pair after its fade delay: the two slots
// go inert, the backlog refills the grid when due, and the win condition
// is checked. A settle that arrives after game over is a no-op.
// It reports whether the game has just been won.
func (e *Engine) SettleMatch(firstID, secondID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return false
	}

	for _, id := range []string{firstID, secondID} {
		if i := e.cardIndex(id); i >= 0 {
			e.cards[i].Visible = false
			e.cards[i].FadingOut = false
		}
	}

	if e.matchedSinceRefill >= RefillThreshold && len(e.backlog) > 0 {
		e.refillLocked()
	}

	if e.visibleUnmatchedLocked() == 0 && len(e.backlog) == 0 {
		e.gameOver = true
		e.gameWon = true
		return true
	}
	return false
}

// refillLocked dequeues up to RefillBatch pairs and splices their cards
// into the oldest invisible slots.
func (e *Engine) refillLocked() {
	count := RefillBatch
	if count > len(e.backlog) {
		count = len(e.backlog)
	}
	fresh := e.buildCards(e.backlog[:count])
	e.backlog = e.backlog[count:]
	e.matchedSinceRefill = 0

	next := 0
	for i := range e.cards {
		if next >= len(fresh) {
			break
		}
		if !e.cards[i].Visible {
			e.cards[i] = fresh[next]
			next++
		}
	}
}

// ClearMismatch removes the selection flags from a failed attempt after
// its flash delay, leaving both cards up for another try.
func (e *Engine) ClearMismatch(firstID, secondID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range []string{firstID, secondID} {
		if i := e.cardIndex(id); i >= 0 {
			e.cards[i].Selected = false
		}
	}
}

// Tick advances the countdown by one second. Reaching zero ends the game
// without a win, regardless of remaining matches.
func (e *Engine) Tick() (remaining int, over bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return e.remainingSeconds, true
	}
	e.remainingSeconds--
	if e.remainingSeconds <= 0 {
		e.remainingSeconds = 0
		e.gameOver = true
	}
	return e.remainingSeconds, e.gameOver
}

// State reports the scoreboard values the screen renders.
func (e *Engine) State() (matchCount, remainingSeconds, backlogPairs int, gameOver, gameWon bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matchCount, e.remainingSeconds, len(e.backlog), e.gameOver, e.gameWon
}

func (e *Engine) cardIndex(id string) int {
	for i := range e.cards {
		if e.cards[i].ID == id {
			return i
		}
	}
	return -1
}

// knownPair reports whether the word/translation combination exists in
// the challenge's canonical pair list.
func (e *Engine) knownPair(word, translation string) bool {
	for _, p := range e.pairs {
		if p.Word == word && p.Translation == translation {
			return true
		}
	}
	return false
}

func (e *Engine) visibleUnmatchedLocked() int {
	n := 0
	for i := range e.cards {
		if e.cards[i].Visible && !e.cards[i].Matched {
			n++
		}
	}
	return n
}

// speakCard pronounces word cards on selection, fire and forget. The
// speaker flushes any utterance already in progress.
func (e *Engine) speakCard(c Card) {
	if c.IsWord && e.speaker != nil {
		e.speaker.Speak(c.Text, "match_card_"+c.ID)
	}
}
