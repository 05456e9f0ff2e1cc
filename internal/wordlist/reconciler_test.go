package wordlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"oghmai/internal/client"
	"oghmai/internal/domain"
	"oghmai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func words(items []domain.WordItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Word)
	}
	return out
}

func newLoadedReconciler(t *testing.T, api *testutil.MockBackend, initial ...string) *Reconciler {
	t.Helper()
	r := New(api, testutil.NewTestLogger())
	api.On("GetWords", mock.Anything, client.WordFilter{}).
		Return(&domain.WordList{Words: testutil.NewTestItems(initial...)}, nil).Once()
	assert.NoError(t, r.Refresh(context.Background()))
	return r
}

func TestReconciler_Refresh_ReplacesListAtomically(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B")

	api.On("GetWords", mock.Anything, client.WordFilter{}).
		Return(&domain.WordList{Words: testutil.NewTestItems("C")}, nil).Once()

	assert.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, []string{"C"}, words(r.Items()))
	api.AssertExpectations(t)
}

func TestReconciler_Refresh_PassesFilterVerbatim(t *testing.T) {
	api := new(testutil.MockBackend)
	r := New(api, testutil.NewTestLogger())

	filter := client.WordFilter{
		Statuses:       map[domain.WordStatus]bool{domain.StatusKnown: true, domain.StatusMastered: true},
		FailedLastTest: true,
		Contains:       "gatt",
	}
	r.SetFilter(filter)

	api.On("GetWords", mock.Anything, filter).
		Return(&domain.WordList{}, nil).Twice()

	assert.NoError(t, r.Refresh(context.Background()))
	// The same values go out again on the next refetch.
	assert.NoError(t, r.Refresh(context.Background()))
	api.AssertExpectations(t)
}

func TestReconciler_DeleteThenUndo_RestoresOriginalIndex(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B", "C")

	api.On("DeleteWord", mock.Anything, "B").Return(nil).Once()
	assert.NoError(t, r.Delete(context.Background(), "B"))
	assert.Equal(t, []string{"A", "C"}, words(r.Items()))

	word, open := r.UndoAvailable()
	assert.True(t, open)
	assert.Equal(t, "B", word)

	api.On("UndeleteWord", mock.Anything, "B").Return(nil).Once()
	assert.NoError(t, r.Undo(context.Background()))
	assert.Equal(t, []string{"A", "B", "C"}, words(r.Items()))

	api.AssertExpectations(t)
}

func TestReconciler_Delete_FailureKeepsItem(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B")

	api.On("DeleteWord", mock.Anything, "B").Return(fmt.Errorf("server error")).Once()

	err := r.Delete(context.Background(), "B")

	assert.Error(t, err)
	assert.Equal(t, []string{"A", "B"}, words(r.Items()))
	_, open := r.UndoAvailable()
	assert.False(t, open)
	api.AssertExpectations(t)
}

func TestReconciler_Delete_LatchRejectsConcurrentDelete(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A")

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("DeleteWord", mock.Anything, "A").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- r.Delete(context.Background(), "A") }()

	<-started
	// Second gesture while the first is in flight is ignored, not queued.
	assert.ErrorIs(t, r.Delete(context.Background(), "A"), ErrDeletePending)

	close(release)
	assert.NoError(t, <-done)
	api.AssertExpectations(t)
}

func TestReconciler_Delete_UnknownWordRejected(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A")

	assert.ErrorIs(t, r.Delete(context.Background(), "Z"), ErrNotListed)
}

func TestReconciler_Undo_SingleActionPerDeletion(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B")

	api.On("DeleteWord", mock.Anything, "A").Return(nil).Once()
	assert.NoError(t, r.Delete(context.Background(), "A"))

	api.On("UndeleteWord", mock.Anything, "A").Return(nil).Once()
	assert.NoError(t, r.Undo(context.Background()))

	// The window closed with the first action.
	assert.ErrorIs(t, r.Undo(context.Background()), ErrUndoClosed)
	api.AssertExpectations(t)
}

func TestReconciler_Undo_FailureLeavesItemDeleted(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B")

	api.On("DeleteWord", mock.Anything, "B").Return(nil).Once()
	assert.NoError(t, r.Delete(context.Background(), "B"))

	api.On("UndeleteWord", mock.Anything, "B").Return(fmt.Errorf("timeout")).Once()
	assert.Error(t, r.Undo(context.Background()))
	assert.Equal(t, []string{"A"}, words(r.Items()))

	// The window is spent even though the call failed.
	assert.ErrorIs(t, r.Undo(context.Background()), ErrUndoClosed)
	api.AssertExpectations(t)
}

func TestReconciler_Undo_WindowExpires(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A")
	r.SetUndoTimeout(10 * time.Millisecond)

	api.On("DeleteWord", mock.Anything, "A").Return(nil).Once()
	assert.NoError(t, r.Delete(context.Background(), "A"))

	assert.Eventually(t, func() bool {
		_, open := r.UndoAvailable()
		return !open
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, r.Undo(context.Background()), ErrUndoClosed)
	api.AssertExpectations(t)
}

func TestReconciler_Refresh_ClosesUndoWindow(t *testing.T) {
	api := new(testutil.MockBackend)
	r := newLoadedReconciler(t, api, "A", "B")

	api.On("DeleteWord", mock.Anything, "A").Return(nil).Once()
	assert.NoError(t, r.Delete(context.Background(), "A"))

	api.On("GetWords", mock.Anything, client.WordFilter{}).
		Return(&domain.WordList{Words: testutil.NewTestItems("B")}, nil).Once()
	assert.NoError(t, r.Refresh(context.Background()))

	assert.ErrorIs(t, r.Undo(context.Background()), ErrUndoClosed)
	api.AssertExpectations(t)
}

func TestReconciler_Save(t *testing.T) {
	tests := []struct {
		name           string
		word           domain.WordResult
		saveErr        error
		expectedStatus domain.WordStatus
		expectedErr    error
	}{
		{
			name:           "unsaved word becomes NEW optimistically",
			word:           testutil.NewTestWordResult("gatto", "cat"),
			expectedStatus: domain.StatusNew,
		},
		{
			name:           "already saved word rejected",
			word:           testutil.NewSavedWordResult("cane", domain.StatusKnown),
			expectedStatus: domain.StatusKnown,
			expectedErr:    ErrNotUnsaved,
		},
		{
			name:           "failure keeps UNSAVED for retry",
			word:           testutil.NewTestWordResult("sole", "sun"),
			saveErr:        fmt.Errorf("network unreachable"),
			expectedStatus: domain.StatusUnsaved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockBackend)
			r := New(api, testutil.NewTestLogger())

			if tt.word.Status == domain.StatusUnsaved {
				api.On("SaveWord", mock.Anything, tt.word).Return(tt.saveErr).Once()
			}

			got, err := r.Save(context.Background(), tt.word)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.saveErr != nil:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				// Only the status changes.
				expected := tt.word
				expected.Status = domain.StatusNew
				assert.Equal(t, expected, got)
			}
			assert.Equal(t, tt.expectedStatus, got.Status)
			api.AssertExpectations(t)
		})
	}
}
