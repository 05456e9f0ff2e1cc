package handler

import (
	"errors"
	"fmt"

	"oghmai/internal/client"
	"oghmai/internal/domain"
	"oghmai/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleTest fetches the next challenge and asks for a guess
func (h *Handler) handleTest(c tele.Context) error {
	userID := c.Sender().ID
	challenge := h.challengeFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	next, err := challenge.Next(ctx)
	if err != nil {
		h.logger.Error("Failed to fetch next test", zap.Error(err), zap.Int64("user_id", userID))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      client.OperationError("load", err),
				ShowAlert: true,
			})
		}
		return c.Send(client.OperationError("load", err))
	}

	if next == nil {
		h.ResetState(userID)
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnMainMenu))
		return h.render(c, "🎉 No tests left for today. Come back tomorrow!", markup)
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingGuess})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return h.render(c, "🎯 Which word is this?\n\n"+next.Description, markup)
}

// submitGuess grades the user's answer for the current challenge
func (h *Handler) submitGuess(c tele.Context, guess string) error {
	userID := c.Sender().ID
	challenge := h.challengeFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	result, err := challenge.Submit(ctx, guess)
	if errors.Is(err, session.ErrNoChallenge) || errors.Is(err, session.ErrChallengeDone) {
		h.ResetState(userID)
		return h.handleTest(c)
	}
	if err != nil {
		h.logger.Warn("Failed to submit guess", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(client.OperationError("submit", err))
	}

	switch result.Result {
	case domain.ResultPartial:
		// Same challenge, enriched description, try again
		text := "🤔 Not quite. Here's another hint:\n\n"
		if current := challenge.Current(); current != nil {
			text += current.Description
		}
		return c.Send(text)

	case domain.ResultCorrect:
		h.ResetState(userID)
		text := fmt.Sprintf("✅ Correct! The word is %s.\n\n%s", result.Word, statusTransition(result))
		if result.Improved() {
			text += "\n🎉 Great progress!"
		}
		return c.Send(text, nextTestMarkup())

	default:
		h.ResetState(userID)
		text := fmt.Sprintf("❌ Wrong. The word was %s.\n\n%s", result.Word, statusTransition(result))
		return c.Send(text, nextTestMarkup())
	}
}

// statusTransition renders the old -> new status line
func statusTransition(r *domain.TestResult) string {
	if r.OldStatus == nil {
		return fmt.Sprintf("Status: %s", r.NewStatus)
	}
	return fmt.Sprintf("Status: %s → %s", *r.OldStatus, r.NewStatus)
}

func nextTestMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("➡️ Next test", "test_next")),
		markup.Row(btnMainMenu),
	)
	return markup
}
