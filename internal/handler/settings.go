package handler

import (
	"fmt"

	"oghmai/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var languageCycle = []string{"Italian", "Spanish", "French", "German"}

var speechCycle = []float64{0.5, 0.75, 1.0, 1.25, 1.5}

var reminderHours = []int{7, 9, 12, 18, 20}

// handleSettings shows the per-chat settings screen
func (h *Handler) handleSettings(c tele.Context) error {
	userID := c.Sender().ID

	prefs, err := h.prefsService.Get(userID)
	if err != nil {
		h.logger.Error("Failed to load preferences", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load settings.", ShowAlert: true})
	}

	return h.render(c, settingsText(prefs), settingsMarkup(prefs))
}

// handleSetting applies one settings button press
func (h *Handler) handleSetting(c tele.Context, action string) error {
	userID := c.Sender().ID

	prefs, err := h.prefsService.Get(userID)
	if err != nil {
		h.logger.Error("Failed to load preferences", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load settings.", ShowAlert: true})
	}

	switch action {
	case "lang":
		err = h.prefsService.SetLanguage(userID, nextInCycle(languageCycle, prefs.Language))
	case "rate":
		err = h.prefsService.SetSpeech(userID, nextFloat(speechCycle, prefs.TTSRate), prefs.TTSPitch)
	case "pitch":
		err = h.prefsService.SetSpeech(userID, prefs.TTSRate, nextFloat(speechCycle, prefs.TTSPitch))
	case "rem":
		err = h.prefsService.SetReminder(userID, !prefs.NotificationsEnabled, prefs.NotificationHour, prefs.NotificationMinute)
	case "remtime":
		err = h.prefsService.SetReminder(userID, prefs.NotificationsEnabled, nextInt(reminderHours, prefs.NotificationHour), 0)
	default:
		return c.Respond()
	}

	if err != nil {
		h.logger.Warn("Failed to update preferences", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to save settings.", ShowAlert: true})
	}

	return h.handleSettings(c)
}

func settingsText(p *domain.Preferences) string {
	reminder := "off"
	if p.NotificationsEnabled {
		reminder = fmt.Sprintf("%02d:%02d", p.NotificationHour, p.NotificationMinute)
	}
	return fmt.Sprintf(
		"⚙️ Settings\n\nLanguage: %s\nSpeech rate: %.2f\nSpeech pitch: %.2f\nDaily reminder: %s",
		p.Language, p.TTSRate, p.TTSPitch, reminder,
	)
}

func settingsMarkup(p *domain.Preferences) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	reminderLabel := "⏰ Reminder: off"
	if p.NotificationsEnabled {
		reminderLabel = fmt.Sprintf("⏰ Reminder: %02d:%02d", p.NotificationHour, p.NotificationMinute)
	}

	markup.Inline(
		markup.Row(markup.Data("🌍 Language: "+p.Language, "set_lang")),
		markup.Row(
			markup.Data(fmt.Sprintf("🗣 Rate: %.2f", p.TTSRate), "set_rate"),
			markup.Data(fmt.Sprintf("🎵 Pitch: %.2f", p.TTSPitch), "set_pitch"),
		),
		markup.Row(
			markup.Data(reminderLabel, "set_rem"),
			markup.Data("🕘 Change time", "set_remtime"),
		),
		markup.Row(btnMainMenu),
	)
	return markup
}

func nextInCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func nextFloat(cycle []float64, current float64) float64 {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func nextInt(cycle []int, current int) int {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
