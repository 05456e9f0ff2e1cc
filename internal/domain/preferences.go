package domain

// Preferences are the per-chat settings that survive the process. They
// mirror what the backend never stores: presentation and reminder
// options local to this client.
type Preferences struct {
	ChatID               int64
	Language             string
	TTSVoice             string
	TTSRate              float64
	TTSPitch             float64
	NotificationsEnabled bool
	NotificationHour     int
	NotificationMinute   int
}

// DefaultPreferences returns the settings a new chat starts with.
func DefaultPreferences(chatID int64) Preferences {
	return Preferences{
		ChatID:             chatID,
		Language:           "Italian",
		TTSRate:            1.0,
		TTSPitch:           1.0,
		NotificationHour:   9,
		NotificationMinute: 0,
	}
}
