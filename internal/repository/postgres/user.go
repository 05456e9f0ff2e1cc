package postgres

import (
	"database/sql"
	"fmt"
)

// UserRepo stores which chats have passed the password gate. It is the
// only per-user state kept besides preferences; vocabulary lives in the
// backend.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a user repository over the given connection pool.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized reports whether the user has unlocked the bot. An unknown
// user is simply unauthorized, not an error.
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check authorization: %w", err)
	}

	return authorized, nil
}

// AuthorizeUser marks the user as having passed the gate, creating the
// row if first contact and authorization race.
func (r *UserRepo) AuthorizeUser(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to authorize user: %w", err)
	}
	return nil
}

// EnsureUserExists records the user on first contact without granting
// access. Repeated calls are no-ops.
func (r *UserRepo) EnsureUserExists(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to record user: %w", err)
	}
	return nil
}
