package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const menuText = "🏠 Main menu\n\nWhat would you like to do?"

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	if !authorized {
		// Request password
		h.ResetState(userID)
		return c.Send("This bot is private. Enter the password to continue:")
	}

	// Show main menu
	h.ResetState(userID)
	return h.showMenu(c)
}

// showMenu renders the main menu with the available-test badge
func (h *Handler) showMenu(c tele.Context) error {
	userID := c.Sender().ID

	remaining := 0
	ctx, cancel := h.apiCtx()
	defer cancel()
	if stats, err := h.api.GetAvailableTests(ctx); err != nil {
		// The menu still works without the badge
		h.logger.Warn("Failed to load test statistics", zap.Error(err))
	} else if stats != nil {
		remaining = stats.RemainingTests
	}

	markup := mainMenuMarkup(remaining)

	if c.Callback() != nil {
		if err := c.Edit(menuText, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(menuText, markup)
		}
		return c.Respond()
	}
	return c.Send(menuText, markup)
}
