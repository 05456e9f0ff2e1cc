package matchgame

import (
	"math/rand"
	"testing"

	"oghmai/internal/domain"
	"oghmai/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newTestEngine(pairs int) *Engine {
	challenge := domain.MatchChallenge{Pairs: testutil.NewTestPairs(pairs)}
	return NewWithRand(challenge, nil, rand.New(rand.NewSource(1)))
}

// findCard locates a visible card by text and kind.
func findCard(t *testing.T, e *Engine, text string, isWord bool) Card {
	t.Helper()
	for _, c := range e.Cards() {
		if c.Text == text && c.IsWord == isWord && c.Visible {
			return c
		}
	}
	t.Fatalf("no visible card %q (isWord=%v)", text, isWord)
	return Card{}
}

// matchPair selects a word and its translation and settles the fade.
// Returns whether the settle reported a win.
func matchPair(t *testing.T, e *Engine, word, translation string) bool {
	t.Helper()
	sel := e.Select(findCard(t, e, word, true).ID)
	assert.Equal(t, OutcomeSelected, sel.Outcome)
	sel = e.Select(findCard(t, e, translation, false).ID)
	assert.Equal(t, OutcomeMatch, sel.Outcome)
	return e.SettleMatch(sel.FirstID, sel.SecondID)
}

func TestEngine_Initialization(t *testing.T) {
	tests := []struct {
		name            string
		pairs           int
		expectedCards   int
		expectedBacklog int
	}{
		{name: "large pool keeps six pairs live", pairs: 9, expectedCards: 12, expectedBacklog: 3},
		{name: "exactly six pairs leaves no backlog", pairs: 6, expectedCards: 12, expectedBacklog: 0},
		{name: "small pool goes fully live", pairs: 4, expectedCards: 8, expectedBacklog: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(tt.pairs)

			assert.Len(t, e.Cards(), tt.expectedCards)
			_, remaining, backlog, over, won := e.State()
			assert.Equal(t, GameDurationSeconds, remaining)
			assert.Equal(t, tt.expectedBacklog, backlog)
			assert.False(t, over)
			assert.False(t, won)
		})
	}
}

func TestEngine_SelectToggle(t *testing.T) {
	e := newTestEngine(6)
	card := findCard(t, e, "w1", true)

	assert.Equal(t, OutcomeSelected, e.Select(card.ID).Outcome)
	// Tapping the same card again toggles it off.
	assert.Equal(t, OutcomeDeselected, e.Select(card.ID).Outcome)

	for _, c := range e.Cards() {
		assert.False(t, c.Selected)
	}
}

func TestEngine_SelectSameKindReplaces(t *testing.T) {
	e := newTestEngine(6)
	first := findCard(t, e, "w1", true)
	second := findCard(t, e, "w2", true)

	assert.Equal(t, OutcomeSelected, e.Select(first.ID).Outcome)
	assert.Equal(t, OutcomeReplaced, e.Select(second.ID).Outcome)

	assert.False(t, findCard(t, e, "w1", true).Selected)
	assert.True(t, findCard(t, e, "w2", true).Selected)
}

func TestEngine_MatchIsOrderIndependent(t *testing.T) {
	// Word first, then translation.
	e := newTestEngine(6)
	sel := e.Select(findCard(t, e, "w1", true).ID)
	assert.Equal(t, OutcomeSelected, sel.Outcome)
	sel = e.Select(findCard(t, e, "t1", false).ID)
	assert.Equal(t, OutcomeMatch, sel.Outcome)

	// Translation first, then word.
	e = newTestEngine(6)
	sel = e.Select(findCard(t, e, "t1", false).ID)
	assert.Equal(t, OutcomeSelected, sel.Outcome)
	sel = e.Select(findCard(t, e, "w1", true).ID)
	assert.Equal(t, OutcomeMatch, sel.Outcome)
}

func TestEngine_MismatchClearsAfterDelay(t *testing.T) {
	e := newTestEngine(6)

	sel := e.Select(findCard(t, e, "w1", true).ID)
	assert.Equal(t, OutcomeSelected, sel.Outcome)
	sel = e.Select(findCard(t, e, "t2", false).ID)
	assert.Equal(t, OutcomeMismatch, sel.Outcome)

	// Both stay visible and unmatched; the caller clears the flags
	// after the flash delay.
	e.ClearMismatch(sel.FirstID, sel.SecondID)
	for _, c := range e.Cards() {
		assert.False(t, c.Selected)
		assert.False(t, c.Matched)
		assert.True(t, c.Visible)
	}

	// A new cycle can start immediately.
	assert.Equal(t, OutcomeSelected, e.Select(findCard(t, e, "w1", true).ID).Outcome)
}

func TestEngine_MatchHidesSlotsButKeepsLayout(t *testing.T) {
	e := newTestEngine(6)

	won := matchPair(t, e, "w1", "t1")
	assert.False(t, won)

	cards := e.Cards()
	assert.Len(t, cards, 12)
	hidden := 0
	for _, c := range cards {
		if !c.Visible {
			hidden++
			assert.False(t, c.FadingOut)
		}
	}
	assert.Equal(t, 2, hidden)
}

func TestEngine_WinWithoutBacklog(t *testing.T) {
	e := newTestEngine(6)

	pairs := testutil.NewTestPairs(6)
	for i, p := range pairs[:5] {
		won := matchPair(t, e, p.Word, p.Translation)
		assert.False(t, won, "pair %d should not win yet", i+1)
	}
	won := matchPair(t, e, "w6", "t6")
	assert.True(t, won)

	_, _, _, over, gameWon := e.State()
	assert.True(t, over)
	assert.True(t, gameWon)
}

func TestEngine_TimerLossWithPairsLeft(t *testing.T) {
	e := newTestEngine(6)

	for _, p := range testutil.NewTestPairs(6)[:5] {
		matchPair(t, e, p.Word, p.Translation)
	}

	var over bool
	for i := 0; i < GameDurationSeconds; i++ {
		_, over = e.Tick()
	}
	assert.True(t, over)

	_, remaining, _, gameOver, won := e.State()
	assert.Equal(t, 0, remaining)
	assert.True(t, gameOver)
	assert.False(t, won)

	// No further taps are processed.
	assert.Equal(t, OutcomeIgnored, e.Select(findCard(t, e, "w6", true).ID).Outcome)
}

func TestEngine_RefillAfterThreeMatches(t *testing.T) {
	e := newTestEngine(9)

	matchPair(t, e, "w1", "t1")
	matchPair(t, e, "w2", "t2")
	_, _, backlog, _, _ := e.State()
	assert.Equal(t, 3, backlog, "no refill before the third match")

	matchPair(t, e, "w3", "t3")
	_, _, backlog, _, _ = e.State()
	assert.Equal(t, 0, backlog, "third settle empties the backlog")

	// The backlog pairs are now on the grid, in the formerly hidden slots.
	for _, want := range []string{"w7", "w8", "w9"} {
		findCard(t, e, want, true)
	}
	visible := 0
	for _, c := range e.Cards() {
		if c.Visible {
			visible++
		}
	}
	assert.Equal(t, 12, visible)
}

func TestEngine_WinAfterRefill(t *testing.T) {
	e := newTestEngine(9)

	for i, p := range testutil.NewTestPairs(9) {
		won := matchPair(t, e, p.Word, p.Translation)
		assert.Equal(t, i == 8, won, "only the final pair wins the game")
	}

	_, _, _, over, won := e.State()
	assert.True(t, over)
	assert.True(t, won)
}

func TestEngine_LateSettleAfterGameOverIsNoop(t *testing.T) {
	e := newTestEngine(6)

	sel := e.Select(findCard(t, e, "w1", true).ID)
	sel = e.Select(findCard(t, e, "t1", false).ID)
	assert.Equal(t, OutcomeMatch, sel.Outcome)

	// Timer expires before the fade callback lands.
	for i := 0; i < GameDurationSeconds; i++ {
		e.Tick()
	}

	assert.False(t, e.SettleMatch(sel.FirstID, sel.SecondID))
	// The slots were not touched after game over.
	for _, c := range e.Cards() {
		if c.ID == sel.FirstID || c.ID == sel.SecondID {
			assert.True(t, c.Visible)
		}
	}
}

func TestEngine_SpeaksWordCardsOnly(t *testing.T) {
	speaker := new(testutil.MockSpeaker)
	challenge := domain.MatchChallenge{Pairs: testutil.NewTestPairs(6)}
	e := NewWithRand(challenge, speaker, rand.New(rand.NewSource(1)))

	word := findCard(t, e, "w1", true)
	speaker.On("Speak", "w1", "match_card_"+word.ID).Once()
	e.Select(word.ID)

	// Selecting the translation half of a pair stays silent.
	e.Select(findCard(t, e, "t1", false).ID)

	speaker.AssertExpectations(t)
}

func TestEngine_SelectInvisibleCardIgnored(t *testing.T) {
	e := newTestEngine(6)

	sel := e.Select(findCard(t, e, "w1", true).ID)
	sel = e.Select(findCard(t, e, "t1", false).ID)
	assert.Equal(t, OutcomeMatch, sel.Outcome)
	e.SettleMatch(sel.FirstID, sel.SecondID)

	assert.Equal(t, OutcomeIgnored, e.Select(sel.FirstID).Outcome)
	assert.Equal(t, OutcomeIgnored, e.Select("no_such_card").Outcome)
}
