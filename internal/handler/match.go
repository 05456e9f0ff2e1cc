package handler

import (
	"fmt"
	"time"

	"oghmai/internal/client"
	"oghmai/internal/matchgame"
	"oghmai/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const matchColumns = 3

// matchState is one chat's running match game. The message holding the
// grid is edited in place as the game progresses.
type matchState struct {
	engine *matchgame.Engine
	msg    *tele.Message
}

// handleMatch starts a new match game
func (h *Handler) handleMatch(c tele.Context) error {
	userID := c.Sender().ID
	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := h.apiCtx()
	defer cancel()
	challenge, err := h.api.GetNextMatchTest(ctx)
	if err != nil {
		h.logger.Error("Failed to fetch match test", zap.Error(err), zap.Int64("user_id", userID))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      client.OperationError("load", err),
				ShowAlert: true,
			})
		}
		return c.Send(client.OperationError("load", err))
	}
	if challenge == nil || len(challenge.Pairs) == 0 {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnMainMenu))
		return h.render(c, "🧩 Not enough saved words for a match game yet.", markup)
	}

	engine := matchgame.New(*challenge, h.speaker)
	state := &matchState{engine: engine}

	h.sessionMux.Lock()
	h.games[userID] = state
	h.sessionMux.Unlock()

	h.ResetState(userID)

	msg, err := h.bot.Send(c.Chat(), matchText(engine), matchMarkup(engine))
	if err != nil {
		return err
	}
	state.msg = msg

	go h.runMatchTimer(userID, state)

	if c.Callback() != nil {
		return c.Respond()
	}
	return nil
}

// handleCardTap processes one tap on the grid
func (h *Handler) handleCardTap(c tele.Context, cardID string) error {
	userID := c.Sender().ID
	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state := h.currentGame(userID)
	if state == nil {
		return c.Respond(&tele.CallbackResponse{Text: "The game is over."})
	}

	sel := state.engine.Select(cardID)
	switch sel.Outcome {
	case matchgame.OutcomeIgnored:
		return c.Respond()

	case matchgame.OutcomeMatch:
		h.sounds.PlayCorrect()
		h.editMatch(state)
		first, second := sel.FirstID, sel.SecondID
		time.AfterFunc(matchgame.MatchFadeDelay, func() {
			h.settleMatch(userID, state, first, second)
		})
		return c.Respond(&tele.CallbackResponse{Text: "✅"})

	case matchgame.OutcomeMismatch:
		h.sounds.PlayIncorrect()
		h.editMatch(state)
		first, second := sel.FirstID, sel.SecondID
		time.AfterFunc(matchgame.MismatchDelay, func() {
			if h.currentGame(userID) != state {
				return
			}
			state.engine.ClearMismatch(first, second)
			h.editMatch(state)
		})
		return c.Respond(&tele.CallbackResponse{Text: "❌"})

	default:
		h.editMatch(state)
		return c.Respond()
	}
}

// settleMatch lands a match after its fade delay
func (h *Handler) settleMatch(userID int64, state *matchState, firstID, secondID string) {
	if h.currentGame(userID) != state {
		return
	}

	if won := state.engine.SettleMatch(firstID, secondID); won {
		metrics.MatchGamesTotal.WithLabelValues("won").Inc()
		h.finishMatch(userID, state, true)
		return
	}
	h.editMatch(state)
}

// runMatchTimer drives the countdown until the game ends or is replaced
func (h *Handler) runMatchTimer(userID int64, state *matchState) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if h.currentGame(userID) != state {
			return
		}

		_, _, _, gameOver, gameWon := state.engine.State()
		if gameOver {
			// A win is announced by the settling match
			if !gameWon {
				metrics.MatchGamesTotal.WithLabelValues("lost").Inc()
				h.finishMatch(userID, state, false)
			}
			return
		}

		remaining, over := state.engine.Tick()
		if over {
			metrics.MatchGamesTotal.WithLabelValues("lost").Inc()
			h.finishMatch(userID, state, false)
			return
		}
		// Redraw the header every five seconds to keep edits cheap
		if remaining%5 == 0 {
			h.editMatch(state)
		}
	}
}

// finishMatch replaces the grid with the end screen and drops the game
func (h *Handler) finishMatch(userID int64, state *matchState, won bool) {
	h.sessionMux.Lock()
	if h.games[userID] == state {
		delete(h.games, userID)
	}
	h.sessionMux.Unlock()

	matchCount, _, _, _, _ := state.engine.State()

	var text string
	if won {
		text = fmt.Sprintf("🏆 You matched all %d pairs. Well done!", matchCount)
	} else {
		text = fmt.Sprintf("⏰ Time's up! You matched %d pairs.", matchCount)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔁 Play again", "match_again")),
		markup.Row(btnMainMenu),
	)

	if _, err := h.bot.Edit(state.msg, text, markup); err != nil {
		h.logger.Warn("Failed to render match end screen", zap.Error(err))
	}
}

// editMatch redraws the grid message
func (h *Handler) editMatch(state *matchState) {
	if state.msg == nil {
		return
	}
	if _, err := h.bot.Edit(state.msg, matchText(state.engine), matchMarkup(state.engine)); err != nil {
		h.logger.Debug("Failed to redraw match grid", zap.Error(err))
	}
}

func (h *Handler) currentGame(userID int64) *matchState {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	return h.games[userID]
}

// matchText renders the scoreboard above the grid
func matchText(engine *matchgame.Engine) string {
	matchCount, remaining, _, _, _ := engine.State()
	return fmt.Sprintf("🧩 Match words with translations\n\n⏱ %ds   ✅ %d matched", remaining, matchCount)
}

// matchMarkup lays the cards out in three columns
func matchMarkup(engine *matchgame.Engine) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	cards := engine.Cards()
	rows := []tele.Row{}
	row := tele.Row{}

	for _, card := range cards {
		row = append(row, cardButton(markup, card))
		if len(row) == matchColumns {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	markup.Inline(rows...)
	return markup
}

func cardButton(markup *tele.ReplyMarkup, card matchgame.Card) tele.Btn {
	switch {
	case !card.Visible:
		return markup.Data("·", "card_gone")
	case card.Matched:
		return markup.Data("✅", "card_gone")
	case card.Selected:
		return markup.Data("🔸 "+card.Text, "card_"+card.ID)
	default:
		return markup.Data(card.Text, "card_"+card.ID)
	}
}
