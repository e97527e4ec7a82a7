package lifecycle_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/lifecycle"
	"github.com/spsmiles/outreach-backend/internal/model"
)

func draftEmail() *model.Email {
	return &model.Email{ID: "email-1", Status: model.StatusDraft}
}

func TestMarkSentAdvancesToAwaitingReply(t *testing.T) {
	e := draftEmail()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, lifecycle.MarkSent(e, at))
	assert.Equal(t, model.StatusAwaitingReply, e.Status)
	require.NotNil(t, e.SentAt)
	assert.Equal(t, at, *e.SentAt)
}

func TestMarkSentRejectsNonDraft(t *testing.T) {
	e := draftEmail()
	require.NoError(t, lifecycle.MarkSent(e, time.Now()))

	err := lifecycle.MarkSent(e, time.Now())
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidTransition(err))
	assert.Equal(t, model.StatusAwaitingReply, e.Status, "state must be unchanged on illegal transition")
}

func TestMarkRepliedOnlyFromAwaitingReply(t *testing.T) {
	e := draftEmail()

	// draft -> replied directly is a caller bug.
	err := lifecycle.MarkReplied(e, model.IntentInterested, "yes please", time.Now())
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidTransition(err))
	assert.Equal(t, model.StatusDraft, e.Status)

	require.NoError(t, lifecycle.MarkSent(e, time.Now()))
	require.NoError(t, lifecycle.MarkReplied(e, model.IntentInterested, "yes please", time.Now()))
	assert.Equal(t, model.StatusReplied, e.Status)
	assert.Equal(t, model.IntentInterested, e.ReplyIntent)
	assert.Equal(t, "yes please", e.ReplyText)
	assert.NotNil(t, e.RepliedAt)
}

func TestSecondReplyIsRejected(t *testing.T) {
	e := draftEmail()
	require.NoError(t, lifecycle.MarkSent(e, time.Now()))
	require.NoError(t, lifecycle.MarkReplied(e, model.IntentNeedsInfo, "what does it cost?", time.Now()))

	err := lifecycle.MarkReplied(e, model.IntentInterested, "actually yes", time.Now())
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidTransition(err))
	assert.Equal(t, "what does it cost?", e.ReplyText, "first reply must be preserved")
}

func TestMarkStale(t *testing.T) {
	e := draftEmail()

	err := lifecycle.MarkStale(e, time.Now())
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidTransition(err))

	require.NoError(t, lifecycle.MarkSent(e, time.Now()))
	require.NoError(t, lifecycle.MarkStale(e, time.Now()))
	assert.Equal(t, model.StatusStale, e.Status)
	assert.NotNil(t, e.StaleAt)
}

func TestCanFollowUpBudget(t *testing.T) {
	e := draftEmail()
	require.NoError(t, lifecycle.MarkSent(e, time.Now()))
	require.NoError(t, lifecycle.MarkStale(e, time.Now()))

	e.FollowUpNum = 0
	assert.True(t, lifecycle.CanFollowUp(e, 2))
	e.FollowUpNum = 2
	assert.False(t, lifecycle.CanFollowUp(e, 2), "follow-up budget exhausted")

	fresh := draftEmail()
	assert.False(t, lifecycle.CanFollowUp(fresh, 2), "only stale emails can spawn follow-ups")
}

func TestConcurrentRepliesOnlyOneWins(t *testing.T) {
	e := draftEmail()
	require.NoError(t, lifecycle.MarkSent(e, time.Now()))

	locks := lifecycle.NewKeyedLocks()

	const workers = 16
	var wg sync.WaitGroup
	var successes int
	var mu sync.Mutex

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.Lock(e.ID)
			defer unlock()
			if err := lifecycle.MarkReplied(e, model.IntentNeedsInfo, "reply", time.Now()); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one concurrent reply may leave awaiting_reply")
}

func TestKeyedLocksIndependentKeys(t *testing.T) {
	locks := lifecycle.NewKeyedLocks()

	unlockA := locks.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key blocked")
	}
	unlockA()
}
