package session

import (
	"context"
	"errors"
	"sync"

	"oghmai/internal/audio"
	"oghmai/internal/client"
	"oghmai/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrNoChallenge is returned when a guess is submitted with no
	// challenge in progress.
	ErrNoChallenge = errors.New("no challenge in progress")

	// ErrChallengeDone is returned when a guess is submitted after the
	// challenge reached a terminal result.
	ErrChallengeDone = errors.New("challenge already completed")
)

// Challenge runs the daily word tests. A challenge stays open across
// PARTIAL results, accumulating suggestions in its description, and
// closes on CORRECT or INCORRECT.
type Challenge struct {
	api    client.API
	sounds audio.SoundEffects
	logger *zap.Logger

	mu      sync.Mutex
	current *domain.TestChallenge
	done    bool
}

// NewChallenge creates a challenge session.
func NewChallenge(api client.API, sounds audio.SoundEffects, logger *zap.Logger) *Challenge {
	return &Challenge{api: api, sounds: sounds, logger: logger}
}

// Next fetches the next challenge. A nil challenge means none are left
// for today.
func (c *Challenge) Next(ctx context.Context) (*domain.TestChallenge, error) {
	challenge, err := c.api.GetNextTest(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = challenge
	c.done = false
	c.mu.Unlock()

	return challenge, nil
}

// Current returns the challenge in progress, or nil.
func (c *Challenge) Current() *domain.TestChallenge {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	ch := *c.current
	return &ch
}

// Submit sends a guess for the current challenge. PARTIAL keeps the same
// challenge id and appends the suggestion to the stored description so the
// user can try again; CORRECT and INCORRECT close the challenge and play
// the matching sound.
func (c *Challenge) Submit(ctx context.Context, guess string) (*domain.TestResult, error) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil, ErrNoChallenge
	}
	if c.done {
		c.mu.Unlock()
		return nil, ErrChallengeDone
	}
	id := c.current.ID
	c.mu.Unlock()

	result, err := c.api.SubmitChallengeGuess(ctx, id, guess)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	switch result.Result {
	case domain.ResultPartial:
		if c.current != nil && c.current.ID == id && result.Suggestion != "" {
			c.current.Description += "\n\n" + result.Suggestion
		}
	default:
		if c.current != nil && c.current.ID == id {
			c.done = true
		}
	}
	c.mu.Unlock()

	switch result.Result {
	case domain.ResultCorrect:
		c.sounds.PlayCorrect()
	case domain.ResultIncorrect:
		c.sounds.PlayIncorrect()
	}

	c.logger.Debug("guess submitted",
		zap.String("challenge", id),
		zap.String("result", string(result.Result)))
	return result, nil
}

// Done reports whether the current challenge reached a terminal result.
func (c *Challenge) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
