// Package wordlist keeps a locally displayed word list consistent with
// the remote store under delete, undo and save, each a single remote call
// that can fail independently of the optimistic local update.
package wordlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"oghmai/internal/client"
	"oghmai/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrDeletePending is returned when a delete gesture arrives for an
	// item whose delete is already in flight. Such gestures are ignored,
	// never queued.
	ErrDeletePending = errors.New("delete already in flight for this word")

	// ErrNotListed is returned when a delete targets a word that is not
	// in the displayed sequence.
	ErrNotListed = errors.New("word is not in the displayed list")

	// ErrUndoClosed is returned when no undo window is open.
	ErrUndoClosed = errors.New("undo window is closed")

	// ErrNotUnsaved is returned when saving a word that is already saved.
	ErrNotUnsaved = errors.New("word is not in UNSAVED status")
)

// DefaultUndoTimeout matches the display duration of the undo notification.
const DefaultUndoTimeout = 10 * time.Second

// Backend is the slice of the API the reconciler needs.
type Backend interface {
	GetWords(ctx context.Context, filter client.WordFilter) (*domain.WordList, error)
	DeleteWord(ctx context.Context, word string) error
	UndeleteWord(ctx context.Context, word string) error
	SaveWord(ctx context.Context, word domain.WordResult) error
}

// undoWindow is the single outstanding undo opportunity. It admits at
// most one action and then closes, whether the action succeeded or not.
type undoWindow struct {
	item       domain.WordItem
	index      int
	generation int
	timer      *time.Timer
}

// Reconciler owns one chat's displayed word list. The remote store is the
// source of truth; local mutations are optimistic and rolled back on
// failure. All exported methods are safe for concurrent use, but remote
// calls are never made while holding the lock, so completions of
// different items may interleave in any order.
type Reconciler struct {
	api         Backend
	logger      *zap.Logger
	undoTimeout time.Duration

	mu         sync.Mutex
	items      []domain.WordItem
	filter     client.WordFilter
	inFlight   map[string]bool
	undo       *undoWindow
	generation int
}

// New creates a reconciler over the given backend.
func New(api Backend, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		api:         api,
		logger:      logger,
		undoTimeout: DefaultUndoTimeout,
		inFlight:    make(map[string]bool),
	}
}

// SetUndoTimeout overrides the undo window display timeout.
func (r *Reconciler) SetUndoTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.undoTimeout = d
}

// SetFilter stores the filter values passed verbatim on every refetch.
func (r *Reconciler) SetFilter(f client.WordFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = f
}

// Filter returns the currently selected filter values.
func (r *Reconciler) Filter() client.WordFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}

// Items returns a snapshot of the displayed sequence.
func (r *Reconciler) Items() []domain.WordItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WordItem, len(r.items))
	copy(out, r.items)
	return out
}

// Refresh refetches the list and replaces the displayed sequence in one
// atomic assignment. Any open undo window is closed: its index is
// meaningless against the new sequence.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	filter := r.filter
	r.mu.Unlock()

	list, err := r.api.GetWords(ctx, filter)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = list.Words
	r.generation++
	r.closeUndoLocked()
	return nil
}

// Delete removes the word remotely and, on success, from the displayed
// sequence, opening an undo window for it. While the remote call is in
// flight further deletes of the same word are rejected.
func (r *Reconciler) Delete(ctx context.Context, word string) error {
	r.mu.Lock()
	if r.inFlight[word] {
		r.mu.Unlock()
		return ErrDeletePending
	}
	if r.indexOfLocked(word) < 0 {
		r.mu.Unlock()
		return ErrNotListed
	}
	r.inFlight[word] = true
	generation := r.generation
	r.mu.Unlock()

	err := r.api.DeleteWord(ctx, word)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, word)

	if err != nil {
		// Item was never removed locally, nothing to roll back.
		return err
	}

	if r.generation != generation {
		// The list was replaced while the delete was in flight; the
		// refreshed view already reflects the remote state.
		return nil
	}

	index := r.indexOfLocked(word)
	if index < 0 {
		return nil
	}
	item := r.items[index]
	r.items = append(r.items[:index], r.items[index+1:]...)
	r.openUndoLocked(item, index)

	r.logger.Info("Word deleted",
		zap.String("word", word),
		zap.Int("index", index),
	)
	return nil
}

// Undo reverses the deletion the open undo window refers to, restoring
// the item at its original index. The window closes after this single
// attempt regardless of outcome.
func (r *Reconciler) Undo(ctx context.Context) error {
	r.mu.Lock()
	window := r.undo
	if window == nil {
		r.mu.Unlock()
		return ErrUndoClosed
	}
	r.closeUndoLocked()
	r.mu.Unlock()

	if err := r.api.UndeleteWord(ctx, window.item.Word); err != nil {
		// The item stays deleted; no automatic retry.
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index := window.index
	if r.generation != window.generation || index > len(r.items) {
		index = len(r.items)
	}
	r.items = append(r.items, domain.WordItem{})
	copy(r.items[index+1:], r.items[index:])
	r.items[index] = window.item

	r.logger.Info("Word restored",
		zap.String("word", window.item.Word),
		zap.Int("index", index),
	)
	return nil
}

// UndoAvailable reports whether an undo window is currently open and for
// which word.
func (r *Reconciler) UndoAvailable() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.undo == nil {
		return "", false
	}
	return r.undo.item.Word, true
}

// Save persists an unsaved word and returns it with the optimistic NEW
// status. The backend is known to assign NEW to freshly saved words, so
// no confirming refetch is needed for display.
func (r *Reconciler) Save(ctx context.Context, word domain.WordResult) (domain.WordResult, error) {
	if word.Status != domain.StatusUnsaved {
		return word, ErrNotUnsaved
	}

	if err := r.api.SaveWord(ctx, word); err != nil {
		// Status stays UNSAVED; the item remains eligible for retry.
		return word, err
	}

	word.Status = domain.StatusNew
	return word, nil
}

// indexOfLocked returns the displayed position of word, or -1.
func (r *Reconciler) indexOfLocked(word string) int {
	for i, item := range r.items {
		if item.Word == word {
			return i
		}
	}
	return -1
}

// openUndoLocked replaces any previous window with a new one and arms its
// display timeout.
func (r *Reconciler) openUndoLocked(item domain.WordItem, index int) {
	r.closeUndoLocked()

	window := &undoWindow{item: item, index: index, generation: r.generation}
	window.timer = time.AfterFunc(r.undoTimeout, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.undo == window {
			r.undo = nil
		}
	})
	r.undo = window
}

// closeUndoLocked closes the open window, if any.
func (r *Reconciler) closeUndoLocked() {
	if r.undo == nil {
		return
	}
	r.undo.timer.Stop()
	r.undo = nil
}
