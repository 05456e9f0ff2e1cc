package session

import (
	"context"
	"errors"
	"sync"

	"oghmai/internal/client"
	"oghmai/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrNoDescription is returned when a next guess is requested before
	// any description was submitted.
	ErrNoDescription = errors.New("no description submitted yet")

	// ErrNoResult is returned when an action needs a guessed word and
	// there is none.
	ErrNoResult = errors.New("no result to act on")

	// ErrAlreadySaved is returned when saving a word that is not UNSAVED.
	ErrAlreadySaved = errors.New("word is already saved")
)

// Discovery tracks one describe-a-word conversation. The backend proposes
// candidate words for a description; every word already proposed is excluded
// from the next guess, and the newest result is shown first.
type Discovery struct {
	api    client.API
	logger *zap.Logger

	mu          sync.Mutex
	description string
	results     []domain.WordResult
}

// NewDiscovery creates an empty discovery session.
func NewDiscovery(api client.API, logger *zap.Logger) *Discovery {
	return &Discovery{api: api, logger: logger}
}

// Guess submits a fresh description and prepends the backend's candidate.
// A nil result means the backend has no candidate for this description.
func (d *Discovery) Guess(ctx context.Context, description string) (*domain.WordResult, error) {
	d.mu.Lock()
	d.description = description
	exclusions := d.exclusionsLocked()
	d.mu.Unlock()

	return d.guess(ctx, description, exclusions)
}

// NextGuess retries the stored description, excluding every word already
// proposed in this session.
func (d *Discovery) NextGuess(ctx context.Context) (*domain.WordResult, error) {
	d.mu.Lock()
	description := d.description
	exclusions := d.exclusionsLocked()
	d.mu.Unlock()

	if description == "" {
		return nil, ErrNoDescription
	}
	return d.guess(ctx, description, exclusions)
}

func (d *Discovery) guess(ctx context.Context, description string, exclusions []string) (*domain.WordResult, error) {
	result, err := d.api.DescribeWord(ctx, description, exclusions)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	d.mu.Lock()
	d.results = append([]domain.WordResult{*result}, d.results...)
	d.mu.Unlock()

	d.logger.Debug("word guessed",
		zap.String("word", result.Word),
		zap.Int("exclusions", len(exclusions)))
	return result, nil
}

// Results returns the guessed words, newest first.
func (d *Discovery) Results() []domain.WordResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.WordResult, len(d.results))
	copy(out, d.results)
	return out
}

// Latest returns the most recent guess, or nil.
func (d *Discovery) Latest() *domain.WordResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.results) == 0 {
		return nil
	}
	r := d.results[0]
	return &r
}

// Save persists the named guess. The local status flips to NEW immediately
// and rolls back to UNSAVED if the remote call fails.
func (d *Discovery) Save(ctx context.Context, word string) error {
	d.mu.Lock()
	idx := d.indexLocked(word)
	if idx < 0 {
		d.mu.Unlock()
		return ErrNoResult
	}
	if d.results[idx].Saved() {
		d.mu.Unlock()
		return ErrAlreadySaved
	}
	payload := d.results[idx]
	d.results[idx].Status = domain.StatusNew
	d.mu.Unlock()

	if err := d.api.SaveWord(ctx, payload); err != nil {
		d.mu.Lock()
		if idx = d.indexLocked(word); idx >= 0 {
			d.results[idx].Status = domain.StatusUnsaved
		}
		d.mu.Unlock()
		return err
	}

	d.logger.Info("word saved", zap.String("word", word))
	return nil
}

// Reset drops the description and all guesses.
func (d *Discovery) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.description = ""
	d.results = nil
}

func (d *Discovery) exclusionsLocked() []string {
	exclusions := make([]string, 0, len(d.results))
	for _, r := range d.results {
		exclusions = append(exclusions, r.Word)
	}
	return exclusions
}

func (d *Discovery) indexLocked(word string) int {
	for i := range d.results {
		if d.results[i].Word == word {
			return i
		}
	}
	return -1
}
