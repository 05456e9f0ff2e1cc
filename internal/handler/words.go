package handler

import (
	"errors"
	"fmt"
	"strings"

	"oghmai/internal/client"
	"oghmai/internal/domain"
	"oghmai/internal/wordlist"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleWordList shows the vocabulary list for the current filter
func (h *Handler) handleWordList(c tele.Context) error {
	userID := c.Sender().ID
	list := h.listFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	if err := list.Refresh(ctx); err != nil {
		h.logger.Error("Failed to refresh word list", zap.Error(err), zap.Int64("user_id", userID))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      client.OperationError("load", err),
				ShowAlert: true,
			})
		}
		return c.Send(client.OperationError("load", err))
	}

	h.ResetState(userID)
	return h.renderWordList(c)
}

// renderWordList renders the current snapshot without refetching
func (h *Handler) renderWordList(c tele.Context) error {
	userID := c.Sender().ID
	list := h.listFor(userID)
	items := list.Items()
	filter := list.Filter()

	text := fmt.Sprintf("📚 My words (%d)", len(items))
	if summary := filterSummary(filter); summary != "" {
		text += "\nFilter: " + summary
	}
	if len(items) == 0 {
		text += "\n\nNothing here yet. Describe a word to get started."
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, item := range items {
		btnText := fmt.Sprintf("%s (%s)", item.Word, item.Status)
		rows = append(rows, markup.Row(markup.Data(btnText, "word_"+item.Word)))
	}

	if word, ok := list.UndoAvailable(); ok {
		rows = append(rows, markup.Row(markup.Data("↩️ Undo delete of "+word, "undo_delete")))
	}

	rows = append(rows,
		markup.Row(
			markup.Data("🏷 Status: "+statusFilterLabel(filter), "wlf_status"),
			markup.Data(failedFilterLabel(filter), "wlf_failed"),
		),
		markup.Row(
			markup.Data("🔎 Search", "wl_search"),
			markup.Data("✖️ Clear filters", "wlf_clear"),
		),
		markup.Row(btnMainMenu),
	)

	markup.Inline(rows...)
	return h.render(c, text, markup)
}

// handleListFilter mutates the list filter and refetches
func (h *Handler) handleListFilter(c tele.Context, action string) error {
	userID := c.Sender().ID
	list := h.listFor(userID)
	filter := list.Filter()

	switch action {
	case "status":
		filter.Statuses = nextStatusFilter(filter.Statuses)
	case "failed":
		filter.FailedLastTest = !filter.FailedLastTest
	case "clear":
		filter = client.WordFilter{}
	default:
		return c.Respond()
	}

	list.SetFilter(filter)
	return h.handleWordList(c)
}

// handleListSearch asks for the contains filter
func (h *Handler) handleListSearch(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingSearch})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return h.render(c, "🔎 Send the text the word should contain:", markup)
}

// submitSearch applies a contains filter typed by the user
func (h *Handler) submitSearch(c tele.Context, text string) error {
	userID := c.Sender().ID
	list := h.listFor(userID)

	filter := list.Filter()
	filter.Contains = text
	list.SetFilter(filter)

	h.ResetState(userID)
	return h.handleWordList(c)
}

// handleWordDetail shows a single word with its actions
func (h *Handler) handleWordDetail(c tele.Context, word string) error {
	ctx, cancel := h.apiCtx()
	defer cancel()
	result, err := h.api.GetWord(ctx, word)
	if err != nil {
		h.logger.Warn("Failed to load word", zap.Error(err), zap.String("word", word))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("load", err),
			ShowAlert: true,
		})
	}
	if result == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Word not found.", ShowAlert: true})
	}

	return h.render(c, formatWordResult(result), wordDetailMarkup(word))
}

// handleDeleteWord deletes a word and offers a short-lived undo
func (h *Handler) handleDeleteWord(c tele.Context, word string) error {
	userID := c.Sender().ID
	list := h.listFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	err := list.Delete(ctx, word)
	if errors.Is(err, wordlist.ErrDeletePending) {
		return c.Respond(&tele.CallbackResponse{Text: "Deletion already in progress."})
	}
	if errors.Is(err, wordlist.ErrNotListed) {
		return c.Respond(&tele.CallbackResponse{Text: "Word is no longer in the list."})
	}
	if err != nil {
		h.logger.Warn("Failed to delete word", zap.Error(err), zap.String("word", word))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("delete", err),
			ShowAlert: true,
		})
	}

	return h.renderWordList(c)
}

// handleUndoDelete restores the most recently deleted word
func (h *Handler) handleUndoDelete(c tele.Context) error {
	userID := c.Sender().ID
	list := h.listFor(userID)

	ctx, cancel := h.apiCtx()
	defer cancel()
	err := list.Undo(ctx)
	if errors.Is(err, wordlist.ErrUndoClosed) {
		return c.Respond(&tele.CallbackResponse{Text: "Undo has expired."})
	}
	if err != nil {
		h.logger.Warn("Failed to undo delete", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("update", err),
			ShowAlert: true,
		})
	}

	return h.renderWordList(c)
}

// handleResetWord resets a word's learning progress
func (h *Handler) handleResetWord(c tele.Context, word string) error {
	ctx, cancel := h.apiCtx()
	defer cancel()
	if err := h.api.ResetWord(ctx, word); err != nil {
		h.logger.Warn("Failed to reset word", zap.Error(err), zap.String("word", word))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("update", err),
			ShowAlert: true,
		})
	}

	return h.handleWordDetail(c, word)
}

// handleSpeakWord pronounces the word
func (h *Handler) handleSpeakWord(c tele.Context, word string) error {
	h.speaker.Speak(word, "word_"+word)
	return c.Respond(&tele.CallbackResponse{Text: "🔊 " + word})
}

// handleWordTenses shows the conjugation explanation
func (h *Handler) handleWordTenses(c tele.Context, word string) error {
	ctx, cancel := h.apiCtx()
	defer cancel()
	explanation, err := h.api.GetWordTenses(ctx, word)
	if err != nil {
		h.logger.Warn("Failed to load tenses", zap.Error(err), zap.String("word", word))
		return c.Respond(&tele.CallbackResponse{
			Text:      client.OperationError("load", err),
			ShowAlert: true,
		})
	}
	if explanation == nil || explanation.Explanation == "" {
		return c.Respond(&tele.CallbackResponse{Text: "No explanation available.", ShowAlert: true})
	}

	text := fmt.Sprintf("📖 %s\n\n%s", explanation.Word, explanation.Explanation)
	return h.render(c, text, wordDetailMarkup(word))
}

// wordDetailMarkup builds the action buttons for a single word
func wordDetailMarkup(word string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("🔊 Pronounce", "speak_"+word),
			markup.Data("📖 Tenses", "tenses_"+word),
		),
		markup.Row(
			markup.Data("♻️ Reset progress", "reset_"+word),
			markup.Data("🗑 Delete", "del_"+word),
		),
		markup.Row(
			markup.Data("📚 Back to list", "word_list"),
			btnMainMenu,
		),
	)
	return markup
}

// filterSummary describes the active filter in one line
func filterSummary(f client.WordFilter) string {
	parts := []string{}
	if len(f.Statuses) > 0 {
		parts = append(parts, domain.JoinStatuses(f.Statuses))
	}
	if f.FailedLastTest {
		parts = append(parts, "failed last test")
	}
	if f.Contains != "" {
		parts = append(parts, fmt.Sprintf("contains %q", f.Contains))
	}
	return strings.Join(parts, ", ")
}

func statusFilterLabel(f client.WordFilter) string {
	if len(f.Statuses) == 0 {
		return "All"
	}
	return domain.JoinStatuses(f.Statuses)
}

func failedFilterLabel(f client.WordFilter) string {
	if f.FailedLastTest {
		return "❗ Failed only"
	}
	return "Failed: off"
}

// nextStatusFilter cycles All -> NEW -> LEARNED -> KNOWN -> MASTERED -> All
func nextStatusFilter(current map[domain.WordStatus]bool) map[domain.WordStatus]bool {
	cycle := []domain.WordStatus{
		domain.StatusNew, domain.StatusLearned, domain.StatusKnown, domain.StatusMastered,
	}

	if len(current) == 0 {
		return map[domain.WordStatus]bool{cycle[0]: true}
	}
	for i, status := range cycle {
		if current[status] {
			if i == len(cycle)-1 {
				return nil
			}
			return map[domain.WordStatus]bool{cycle[i+1]: true}
		}
	}
	return nil
}
