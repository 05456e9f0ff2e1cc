package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it means it was already edited by another callback
	// Just acknowledge and return nil - don't send new message
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	// Log the error to understand why Edit failed
	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Handle specific button callbacks by Unique first
	switch callback.Unique {
	case "describe":
		return h.handleDescribe(c)
	case "word_list":
		return h.handleWordList(c)
	case "test":
		return h.handleTest(c)
	case "match":
		return h.handleMatch(c)
	case "settings":
		return h.handleSettings(c)
	case "main_menu":
		return h.handleStart(c)
	}

	// If Unique is empty, try to handle by Data (for buttons with Unique that didn't come through)
	if callback.Unique == "" {
		switch data {
		case "describe":
			return h.handleDescribe(c)
		case "word_list":
			return h.handleWordList(c)
		case "test":
			return h.handleTest(c)
		case "match":
			return h.handleMatch(c)
		case "settings":
			return h.handleSettings(c)
		case "main_menu":
			return h.handleStart(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case data == "guess_next":
		return h.handleNextGuess(c)
	case data == "new_search":
		return h.handleNewSearch(c)
	case strings.HasPrefix(data, "save_"):
		return h.handleSaveWord(c, strings.TrimPrefix(data, "save_"))
	case strings.HasPrefix(data, "word_"):
		return h.handleWordDetail(c, strings.TrimPrefix(data, "word_"))
	case strings.HasPrefix(data, "del_"):
		return h.handleDeleteWord(c, strings.TrimPrefix(data, "del_"))
	case data == "undo_delete":
		return h.handleUndoDelete(c)
	case strings.HasPrefix(data, "reset_"):
		return h.handleResetWord(c, strings.TrimPrefix(data, "reset_"))
	case strings.HasPrefix(data, "speak_"):
		return h.handleSpeakWord(c, strings.TrimPrefix(data, "speak_"))
	case strings.HasPrefix(data, "tenses_"):
		return h.handleWordTenses(c, strings.TrimPrefix(data, "tenses_"))
	case strings.HasPrefix(data, "wlf_"):
		return h.handleListFilter(c, strings.TrimPrefix(data, "wlf_"))
	case data == "wl_search":
		return h.handleListSearch(c)
	case data == "test_next":
		return h.handleTest(c)
	case strings.HasPrefix(data, "card_"):
		return h.handleCardTap(c, strings.TrimPrefix(data, "card_"))
	case data == "match_again":
		return h.handleMatch(c)
	case strings.HasPrefix(data, "set_"):
		return h.handleSetting(c, strings.TrimPrefix(data, "set_"))
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// render edits the callback's message, falling back to a fresh send
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	userID := c.Sender().ID

	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}
