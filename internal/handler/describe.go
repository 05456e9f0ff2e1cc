package handler

import (
	"errors"
	"fmt"
	"strings"

	"oghmai/internal/client"
	"oghmai/internal/domain"
	"oghmai/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleDescribe opens the describe-a-word screen
func (h *Handler) handleDescribe(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingDescription})
	h.discoveryFor(userID).Reset()

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))

	return h.render(c, "🔍 Describe the word you are looking for, in any language:", markup)
}

// submitDescription sends the description to the backend and shows the guess
func (h *Handler) submitDescription(c tele.Context, description string) error {
	userID := c.Sender().ID
	discovery := h.discoveryFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	result, err := discovery.Guess(ctx, description)
	if err != nil {
		h.logger.Warn("Describe word failed", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(client.OperationError("search", err))
	}
	if result == nil {
		return c.Send("No word matches that description. Try rephrasing it.")
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingDescription})
	return c.Send(formatWordResult(result), wordCardMarkup(result))
}

// handleNextGuess retries the same description, excluding shown words
func (h *Handler) handleNextGuess(c tele.Context) error {
	userID := c.Sender().ID
	discovery := h.discoveryFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	result, err := discovery.NextGuess(ctx)
	if errors.Is(err, session.ErrNoDescription) {
		return h.handleDescribe(c)
	}
	if err != nil {
		h.logger.Warn("Next guess failed", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: client.OperationError("search", err)})
	}
	if result == nil {
		return c.Respond(&tele.CallbackResponse{
			Text:      "No more candidates for this description.",
			ShowAlert: true,
		})
	}

	return h.render(c, formatWordResult(result), wordCardMarkup(result))
}

// handleNewSearch drops the session and asks for a fresh description
func (h *Handler) handleNewSearch(c tele.Context) error {
	h.discoveryFor(c.Sender().ID).Reset()
	return h.handleDescribe(c)
}

// handleSaveWord saves a guessed word to the vocabulary
func (h *Handler) handleSaveWord(c tele.Context, word string) error {
	userID := c.Sender().ID
	discovery := h.discoveryFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	err := discovery.Save(ctx, word)
	if errors.Is(err, session.ErrAlreadySaved) {
		return c.Respond(&tele.CallbackResponse{Text: "Already in your vocabulary."})
	}
	if err != nil {
		h.logger.Warn("Save word failed", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("save", err),
			ShowAlert: true,
		})
	}

	result := discovery.Latest()
	if result == nil || result.Word != word {
		return c.Respond(&tele.CallbackResponse{Text: "✅ Saved!"})
	}
	return h.render(c, formatWordResult(result), wordCardMarkup(result))
}

// formatWordResult renders a word card
func formatWordResult(w *domain.WordResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📝 %s — %s\n", w.Word, w.Translation)
	fmt.Fprintf(&b, "Status: %s\n\n", w.Status)
	if w.Definition != "" {
		fmt.Fprintf(&b, "%s\n\n", w.Definition)
	}
	for _, example := range w.Examples {
		fmt.Fprintf(&b, "• %s\n", example)
	}
	if len(w.TestResults) > 0 {
		b.WriteString("\nHistory: ")
		for _, correct := range w.TestResults {
			if correct {
				b.WriteString("🟢")
			} else {
				b.WriteString("🔴")
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// wordCardMarkup builds the buttons under a guessed word
func wordCardMarkup(w *domain.WordResult) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := []tele.Row{}
	if !w.Saved() {
		rows = append(rows, markup.Row(markup.Data("💾 Save", "save_"+w.Word)))
	}
	rows = append(rows,
		markup.Row(
			markup.Data("🔄 Another guess", "guess_next"),
			markup.Data("🆕 New search", "new_search"),
		),
		markup.Row(btnMainMenu),
	)

	markup.Inline(rows...)
	return markup
}
