package postgres

import (
	"database/sql"

	"oghmai/internal/domain"
)

// PreferencesRepo implements repository.PreferencesRepository
type PreferencesRepo struct {
	db *sql.DB
}

// NewPreferencesRepo creates a new preferences repository
func NewPreferencesRepo(db *sql.DB) *PreferencesRepo {
	return &PreferencesRepo{db: db}
}

// Get returns the chat's preferences, falling back to defaults when the
// chat has never saved any
func (r *PreferencesRepo) Get(chatID int64) (*domain.Preferences, error) {
	p := domain.Preferences{ChatID: chatID}
	query := `
		SELECT language, tts_voice, tts_rate, tts_pitch,
			notifications_enabled, notification_hour, notification_minute
		FROM preferences WHERE chat_id = $1
	`
	err := r.db.QueryRow(query, chatID).Scan(
		&p.Language, &p.TTSVoice, &p.TTSRate, &p.TTSPitch,
		&p.NotificationsEnabled, &p.NotificationHour, &p.NotificationMinute,
	)

	if err == sql.ErrNoRows {
		defaults := domain.DefaultPreferences(chatID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// DueReminders returns the preferences of every chat whose daily reminder
// fires at the given wall-clock time
func (r *PreferencesRepo) DueReminders(hour, minute int) ([]domain.Preferences, error) {
	query := `
		SELECT chat_id, language, tts_voice, tts_rate, tts_pitch,
			notifications_enabled, notification_hour, notification_minute
		FROM preferences
		WHERE notifications_enabled = TRUE
			AND notification_hour = $1
			AND notification_minute = $2
	`

	rows, err := r.db.Query(query, hour, minute)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []domain.Preferences
	for rows.Next() {
		var p domain.Preferences
		if err := rows.Scan(
			&p.ChatID, &p.Language, &p.TTSVoice, &p.TTSRate, &p.TTSPitch,
			&p.NotificationsEnabled, &p.NotificationHour, &p.NotificationMinute,
		); err != nil {
			return nil, err
		}
		due = append(due, p)
	}

	return due, rows.Err()
}

// Save upserts the chat's preferences
func (r *PreferencesRepo) Save(prefs domain.Preferences) error {
	query := `
		INSERT INTO preferences (chat_id, language, tts_voice, tts_rate, tts_pitch,
			notifications_enabled, notification_hour, notification_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chat_id)
		DO UPDATE SET language = $2, tts_voice = $3, tts_rate = $4, tts_pitch = $5,
			notifications_enabled = $6, notification_hour = $7, notification_minute = $8
	`
	_, err := r.db.Exec(query,
		prefs.ChatID, prefs.Language, prefs.TTSVoice, prefs.TTSRate, prefs.TTSPitch,
		prefs.NotificationsEnabled, prefs.NotificationHour, prefs.NotificationMinute,
	)
	return err
}
