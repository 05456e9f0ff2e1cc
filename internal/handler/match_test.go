package handler

import (
	"math/rand"
	"testing"

	"oghmai/internal/domain"
	"oghmai/internal/matchgame"
	"oghmai/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func newGridEngine(pairs int) *matchgame.Engine {
	challenge := domain.MatchChallenge{Pairs: testutil.NewTestPairs(pairs)}
	return matchgame.NewWithRand(challenge, nil, rand.New(rand.NewSource(1)))
}

func TestMatchMarkup_ThreeColumns(t *testing.T) {
	engine := newGridEngine(6)

	markup := matchMarkup(engine)

	rows := markup.InlineKeyboard
	assert.Len(t, rows, 4, "12 cards fill four rows of three")
	for _, row := range rows {
		assert.Len(t, row, 3)
	}
}

func TestMatchText(t *testing.T) {
	engine := newGridEngine(6)

	assert.Equal(t, "🧩 Match words with translations\n\n⏱ 60s   ✅ 0 matched", matchText(engine))
}

func TestCardButton(t *testing.T) {
	tests := []struct {
		name         string
		card         matchgame.Card
		expectedText string
		expectedData string
	}{
		{
			name:         "plain card",
			card:         matchgame.Card{ID: "abc", Text: "gatto", Visible: true},
			expectedText: "gatto",
			expectedData: "card_abc",
		},
		{
			name:         "selected card",
			card:         matchgame.Card{ID: "abc", Text: "gatto", Visible: true, Selected: true},
			expectedText: "🔸 gatto",
			expectedData: "card_abc",
		},
		{
			name:         "matched card still fading",
			card:         matchgame.Card{ID: "abc", Text: "gatto", Visible: true, Matched: true},
			expectedText: "✅",
			expectedData: "card_gone",
		},
		{
			name:         "hidden slot",
			card:         matchgame.Card{ID: "abc", Text: "gatto"},
			expectedText: "·",
			expectedData: "card_gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &tele.ReplyMarkup{}
			btn := cardButton(m, tt.card)
			assert.Equal(t, tt.expectedText, btn.Text)
			assert.Equal(t, tt.expectedData, btn.Unique)
		})
	}
}

func TestMainMenuMarkup_TestBadge(t *testing.T) {
	withBadge := mainMenuMarkup(3)
	assert.Equal(t, "🎯 Daily test (3)", withBadge.InlineKeyboard[2][0].Text)

	withoutBadge := mainMenuMarkup(0)
	assert.Equal(t, "🎯 Daily test", withoutBadge.InlineKeyboard[2][0].Text)
}
