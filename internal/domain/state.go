package domain

// UserState represents a chat's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingDescription UserState = "waiting_description"
	StateWaitingGuess       UserState = "waiting_guess"
	StateWaitingSearch      UserState = "waiting_search"
	StateWaitingPassword    UserState = "waiting_password"
)

// StateData holds temporary data for a chat's current state
type StateData struct {
	State     UserState
	MessageID int // For editing messages
}
