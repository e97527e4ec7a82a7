// internal/model/email.go
package model

import "time"

// Email lifecycle statuses. An email moves draft -> sent -> awaiting_reply
// and settles in replied or stale; sent is recorded but advances to
// awaiting_reply in the same operation.
const (
	StatusDraft         = "draft"
	StatusSent          = "sent"
	StatusAwaitingReply = "awaiting_reply"
	StatusReplied       = "replied"
	StatusStale         = "stale"
)

// Reply intents. Unsubscribe and not_interested both feed the
// do-not-contact list.
const (
	IntentInterested    = "interested"
	IntentNeedsInfo     = "needs_info"
	IntentNotInterested = "not_interested"
	IntentUnsubscribe   = "unsubscribe"
)

// Email is one outreach instance against a (school, contact, campaign)
// triple. The pricing fields are stamped at generation time and never
// recomputed.
type Email struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	CampaignID     string `db:"campaign_id" json:"campaign_id"`
	SchoolID       string `db:"school_id" json:"school_id"`
	ContactID      string `db:"contact_id" json:"contact_id"`

	Subject string `db:"subject" json:"subject"`
	Body    string `db:"body" json:"body"`
	Status  string `db:"status" json:"status"`

	// SuppressedFlag marks a draft whose contact was already on the
	// do-not-contact list at generation time. Drafting is allowed for
	// review purposes; sending is not.
	SuppressedFlag bool `db:"suppressed_flag" json:"suppressed_flag"`

	PricePerLearnerCents int64  `db:"price_per_learner_cents" json:"price_per_learner_cents"`
	TotalEstimateCents   *int64 `db:"total_estimate_cents" json:"total_estimate_cents,omitempty"`

	ReplyText    string `db:"reply_text" json:"reply_text,omitempty"`
	ReplyIntent  string `db:"reply_intent" json:"reply_intent,omitempty"`
	AutoResponse string `db:"auto_response" json:"auto_response,omitempty"`

	// DeliveryFailed is a transport-level marker; it does not move the
	// lifecycle status.
	DeliveryFailed bool   `db:"delivery_failed" json:"delivery_failed"`
	DeliveryError  string `db:"delivery_error" json:"delivery_error,omitempty"`

	// FollowUpOf links a follow-up email back to the original of its
	// thread; FollowUpNum is 0 for the original.
	FollowUpOf  string `db:"follow_up_of" json:"follow_up_of,omitempty"`
	FollowUpNum int    `db:"follow_up_num" json:"follow_up_num"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	RepliedAt *time.Time `db:"replied_at" json:"replied_at,omitempty"`
	StaleAt   *time.Time `db:"stale_at" json:"stale_at,omitempty"`
}

// Terminal reports whether the email can never transition again. Interested
// hands off to a booking workflow; not_interested and unsubscribe close the
// thread; a stale email that has exhausted its follow-up budget is handled
// by the orchestrator, so stale itself is not terminal here.
func (e *Email) Terminal() bool {
	if e.Status != StatusReplied {
		return false
	}
	switch e.ReplyIntent {
	case IntentInterested, IntentNotInterested, IntentUnsubscribe:
		return true
	default:
		return false
	}
}

// InFlight reports whether the email still occupies its (contact, campaign)
// slot: only one non-terminal email per pair may exist at a time.
func (e *Email) InFlight() bool {
	switch e.Status {
	case StatusDraft, StatusSent, StatusAwaitingReply:
		return true
	case StatusReplied:
		return !e.Terminal()
	default:
		return false
	}
}
