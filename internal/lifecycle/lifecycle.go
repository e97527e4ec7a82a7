// internal/lifecycle/lifecycle.go

// Package lifecycle owns the legal status transitions of an outreach email:
//
//	draft -> sent -> awaiting_reply -> replied(intent)
//	                                -> stale
//
// Sent advances to awaiting_reply automatically in the same operation that
// records the send. Every other move is illegal and leaves the email
// unchanged.
package lifecycle

import (
	"time"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/model"
)

var transitions = map[string][]string{
	model.StatusDraft:         {model.StatusSent},
	model.StatusSent:          {model.StatusAwaitingReply},
	model.StatusAwaitingReply: {model.StatusReplied, model.StatusStale},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func check(e *model.Email, to string) error {
	if !CanTransition(e.Status, to) {
		return appErrors.NewInvalidTransition(e.Status, to)
	}
	return nil
}

// MarkSent records the send and auto-advances to awaiting_reply. The caller
// must already hold a reservation from the consent guard; this function
// only enforces ordering.
func MarkSent(e *model.Email, at time.Time) error {
	if err := check(e, model.StatusSent); err != nil {
		return err
	}
	e.Status = model.StatusSent
	e.SentAt = &at

	// sent -> awaiting_reply needs no external input.
	e.Status = model.StatusAwaitingReply
	return nil
}

// MarkReplied applies a classified inbound reply.
func MarkReplied(e *model.Email, intentLabel, replyText string, at time.Time) error {
	if err := check(e, model.StatusReplied); err != nil {
		return err
	}
	e.Status = model.StatusReplied
	e.ReplyIntent = intentLabel
	e.ReplyText = replyText
	e.RepliedAt = &at
	return nil
}

// MarkStale records follow-up-window expiry. The surrounding scheduler
// decides when the window has elapsed; this only validates legality.
func MarkStale(e *model.Email, at time.Time) error {
	if err := check(e, model.StatusStale); err != nil {
		return err
	}
	e.Status = model.StatusStale
	e.StaleAt = &at
	return nil
}

// CanFollowUp reports whether a stale email may spawn another follow-up
// draft under the campaign's follow-up budget.
func CanFollowUp(e *model.Email, maxFollowUps int) bool {
	return e.Status == model.StatusStale && e.FollowUpNum < maxFollowUps
}
